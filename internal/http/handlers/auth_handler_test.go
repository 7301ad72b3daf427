package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/services"
)

func TestRegister(t *testing.T) {
	var gotEmail, gotPassword string
	h := New(&stubUserService{
		register: func(ctx context.Context, email, password string) (*domain.User, string, error) {
			gotEmail, gotPassword = email, password
			return &domain.User{ID: testUserID, Email: email}, "tok-1", nil
		},
	}, nil, nil, nil, nil)
	r := newRouter(h)

	w := doRequest(r, http.MethodPost, "/auth/register", `{"email": "a@example.com", "password": "password-123"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if gotEmail != "a@example.com" || gotPassword != "password-123" {
		t.Fatalf("service got %q/%q", gotEmail, gotPassword)
	}
	var resp AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token != "tok-1" || resp.User.Email != "a@example.com" {
		t.Fatalf("response = %+v", resp)
	}

	// Missing fields never reach the service.
	w = doRequest(r, http.MethodPost, "/auth/register", `{"email": "a@example.com"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing password status = %d", w.Code)
	}
}

func TestRegister_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrInvalidEmail, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrWeakPassword, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrEmailTaken, http.StatusConflict, ErrCodeConflict},
	}
	for _, tc := range cases {
		h := New(&stubUserService{
			register: func(ctx context.Context, email, password string) (*domain.User, string, error) {
				return nil, "", tc.err
			},
		}, nil, nil, nil, nil)
		w := doRequest(newRouter(h), http.MethodPost, "/auth/register", `{"email": "a@b.co", "password": "password-123"}`, nil)
		if w.Code != tc.status {
			t.Errorf("%v: status = %d; want %d", tc.err, w.Code, tc.status)
			continue
		}
		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != tc.code {
			t.Errorf("%v: envelope = %+v, %v; want code %s", tc.err, resp, err, tc.code)
		}
	}
}

func TestLogin(t *testing.T) {
	h := New(&stubUserService{
		login: func(ctx context.Context, email, password string) (*domain.User, string, error) {
			if password != "password-123" {
				return nil, "", services.ErrInvalidCredentials
			}
			return &domain.User{ID: testUserID, Email: email}, "tok-2", nil
		},
	}, nil, nil, nil, nil)
	r := newRouter(h)

	w := doRequest(r, http.MethodPost, "/auth/login", `{"email": "a@example.com", "password": "password-123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPost, "/auth/login", `{"email": "a@example.com", "password": "nope-nope"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad credentials status = %d", w.Code)
	}
}

func TestMe(t *testing.T) {
	h := New(&stubUserService{
		profile: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != testUserID {
				t.Errorf("profile called with %q", userID)
			}
			return &domain.User{ID: userID, Email: "me@example.com"}, nil
		},
	}, nil, nil, nil, nil)

	w := doRequest(newRouter(h), http.MethodGet, "/auth/me", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var u domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil || u.Email != "me@example.com" {
		t.Fatalf("body = %s, %v", w.Body.String(), err)
	}
}

func TestAvailableDomains(t *testing.T) {
	h := New(&stubUserService{
		availableDomains: func() []services.DomainOption {
			return []services.DomainOption{{Name: "technology", Label: "Technology"}}
		},
	}, nil, nil, nil, nil)

	w := doRequest(newRouter(h), http.MethodGet, "/auth/available-domains", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var opts []services.DomainOption
	if err := json.Unmarshal(w.Body.Bytes(), &opts); err != nil || len(opts) != 1 {
		t.Fatalf("body = %s, %v", w.Body.String(), err)
	}
}

func TestSetDomains(t *testing.T) {
	var got []string
	h := New(&stubUserService{
		setDomains: func(ctx context.Context, userID string, domains []string) (*domain.User, error) {
			got = domains
			return &domain.User{ID: userID, OnboardingCompleted: true}, nil
		},
	}, nil, nil, nil, nil)
	r := newRouter(h)

	w := doRequest(r, http.MethodPut, "/auth/domains", `{"domains": ["technology", "food"]}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(got) != 2 || got[0] != "technology" {
		t.Fatalf("service got %v", got)
	}

	w = doRequest(r, http.MethodPut, "/auth/domains", `{}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing domains status = %d", w.Code)
	}
}

func TestAddAndRemoveDomain(t *testing.T) {
	h := New(&stubUserService{
		addDomain: func(ctx context.Context, userID, name string) (*domain.User, error) {
			if name != "custom:space tech" {
				t.Errorf("add got %q", name)
			}
			return &domain.User{ID: userID}, nil
		},
		removeDomain: func(ctx context.Context, userID, name string) (*domain.User, error) {
			if name != "health" {
				t.Errorf("remove got %q", name)
			}
			return &domain.User{ID: userID}, nil
		},
	}, nil, nil, nil, nil)
	r := newRouter(h)

	w := doRequest(r, http.MethodPost, "/auth/domains", `{"domain": "custom:space tech"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPost, "/auth/domains", `{"domain": "   "}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank domain status = %d", w.Code)
	}

	w = doRequest(r, http.MethodDelete, "/auth/domains/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove status = %d, body %s", w.Code, w.Body.String())
	}
}
