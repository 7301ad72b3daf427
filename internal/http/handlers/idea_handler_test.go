package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/llm"
	"github.com/smartswipe/go-swipe-backend/internal/services"
)

func TestGeneratePool(t *testing.T) {
	calls := 0
	h := New(nil, &stubIdeaService{
		generatePool: func(ctx context.Context, userID string) (*services.GenerationResult, error) {
			calls++
			return &services.GenerationResult{Queued: []string{"technology"}, PerEach: 5}, nil
		},
	}, nil, nil, nil)

	w := doRequest(newRouter(h), http.MethodPost, "/ideas/generate-pool", "", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res services.GenerationResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || len(res.Queued) != 1 {
		t.Fatalf("body = %s, %v", w.Body.String(), err)
	}
	if calls != 1 {
		t.Fatalf("service calls = %d", calls)
	}
}

func TestGeneratePool_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrNotOnboarded, http.StatusBadRequest},
		{llm.ErrGeneratorDisabled, http.StatusServiceUnavailable},
		{services.ErrUserNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		h := New(nil, &stubIdeaService{
			generatePool: func(ctx context.Context, userID string) (*services.GenerationResult, error) {
				return nil, tc.err
			},
		}, nil, nil, nil)
		w := doRequest(newRouter(h), http.MethodPost, "/ideas/generate-pool", "", nil)
		if w.Code != tc.status {
			t.Errorf("%v: status = %d; want %d", tc.err, w.Code, tc.status)
		}
	}
}

func TestGeneratePool_IdempotencyReplay(t *testing.T) {
	calls := 0
	h := New(nil, &stubIdeaService{
		generatePool: func(ctx context.Context, userID string) (*services.GenerationResult, error) {
			calls++
			return &services.GenerationResult{Queued: []string{"technology"}}, nil
		},
	}, nil, nil, newHandlerDB(t))
	r := newRouter(h)
	headers := map[string]string{"Idempotency-Key": "gen-key-1"}

	w := doRequest(r, http.MethodPost, "/ideas/generate-pool", "", headers)
	if w.Code != http.StatusAccepted || calls != 1 {
		t.Fatalf("first request: status %d, calls %d", w.Code, calls)
	}

	// The repeated key must not queue generation twice.
	w = doRequest(r, http.MethodPost, "/ideas/generate-pool", "", headers)
	if w.Code != http.StatusAccepted {
		t.Fatalf("replay status = %d", w.Code)
	}
	if calls != 1 {
		t.Fatalf("replay reached the service, calls = %d", calls)
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("replay header missing")
	}
}

func TestGameSession(t *testing.T) {
	var gotLimit int
	h := New(nil, &stubIdeaService{
		gameSession: func(ctx context.Context, userID string, limit int) ([]domain.Idea, error) {
			gotLimit = limit
			return []domain.Idea{{ID: "i1", Title: "One"}, {ID: "i2", Title: "Two"}}, nil
		},
	}, nil, nil, nil)
	r := newRouter(h)

	w := doRequest(r, http.MethodGet, "/ideas/game-session", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	// No limit param: the service decides the session size.
	if gotLimit != 0 {
		t.Fatalf("default limit = %d; want 0", gotLimit)
	}
	var resp GameSessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Count != 2 {
		t.Fatalf("body = %s, %v", w.Body.String(), err)
	}

	doRequest(r, http.MethodGet, "/ideas/game-session?limit=7", "", nil)
	if gotLimit != 7 {
		t.Fatalf("limit = %d; want 7", gotLimit)
	}
	doRequest(r, http.MethodGet, "/ideas/game-session?limit=999", "", nil)
	if gotLimit != 50 {
		t.Fatalf("oversized limit = %d; want clamp to 50", gotLimit)
	}
	doRequest(r, http.MethodGet, "/ideas/game-session?limit=-3", "", nil)
	if gotLimit != 0 {
		t.Fatalf("negative limit = %d; want 0", gotLimit)
	}
}

func TestListIdeas(t *testing.T) {
	var gotPage, gotPageSize int
	var gotFilter string
	h := New(nil, &stubIdeaService{
		listPage: func(ctx context.Context, userID, domainFilter string, page, pageSize int) ([]domain.Idea, int64, error) {
			gotFilter, gotPage, gotPageSize = domainFilter, page, pageSize
			return []domain.Idea{{ID: "i1"}}, 41, nil
		},
	}, nil, nil, nil)
	r := newRouter(h)

	w := doRequest(r, http.MethodGet, "/ideas?domain=food&page=2&page_size=20", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotFilter != "food" || gotPage != 2 || gotPageSize != 20 {
		t.Fatalf("service got filter=%q page=%d size=%d", gotFilter, gotPage, gotPageSize)
	}
	var resp ListIdeasResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Pagination.Total != 41 || resp.Pagination.TotalPages != 3 || !resp.Pagination.HasNext {
		t.Fatalf("pagination = %+v", resp.Pagination)
	}

	// Out-of-range params are clamped, not rejected.
	doRequest(r, http.MethodGet, "/ideas?page=-1&page_size=9999", "", nil)
	if gotPage != 1 || gotPageSize != 100 {
		t.Fatalf("clamped to page=%d size=%d", gotPage, gotPageSize)
	}
}

func TestIdeaStats(t *testing.T) {
	h := New(nil, &stubIdeaService{
		stats: func(ctx context.Context, userID string) (*services.IdeaStats, error) {
			return &services.IdeaStats{TotalIdeas: 10, InSelection: 6, Viewed: 3, Swiped: 2}, nil
		},
	}, nil, nil, nil)

	w := doRequest(newRouter(h), http.MethodGet, "/ideas/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var stats services.IdeaStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil || stats.TotalIdeas != 10 {
		t.Fatalf("body = %s, %v", w.Body.String(), err)
	}
}
