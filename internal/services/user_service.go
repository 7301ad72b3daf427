// Package services – UserService
//
// This file implements UserService, the application-level component that owns
// accounts and interest-domain selections. It validates registration and
// login input, hashes credentials, issues access tokens, and enforces the
// 1..8 domain selection rule during onboarding and later profile edits.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include user identifiers where applicable.

package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/auth"
	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/recs"
	"github.com/smartswipe/go-swipe-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	minPasswordLen = 8
	minDomains     = 1
	maxDomains     = 8
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// DomainOption is one selectable interest domain with its display label.
type DomainOption struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// UserService coordinates account lifecycle and domain selection.
type UserService struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
}

// Register creates an account and returns the user with a fresh access token.
func (s *UserService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRE.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, "", ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	u, err := repo.CreateUser(ctx, s.DB, email, hash)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh access token.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Profile returns the account for userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Profile",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// AvailableDomains lists the canonical interest domains with display labels.
func (s *UserService) AvailableDomains() []DomainOption {
	caser := cases.Title(language.English)
	names := recs.Domains()
	out := make([]DomainOption, 0, len(names))
	for _, n := range names {
		out = append(out, DomainOption{Name: n, Label: caser.String(n)})
	}
	return out
}

// SetDomains replaces the user's interest selection and marks onboarding as
// completed. The normalized selection must contain between 1 and 8 distinct
// valid domains.
func (s *UserService) SetDomains(ctx context.Context, userID string, domains []string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "SetDomains",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("domains", len(domains)),
		),
	)
	defer span.End()

	normalized, err := normalizeDomains(domains)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateUserDomains(ctx, s.DB, userID, normalized, true); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return repo.GetUser(ctx, s.DB, userID)
}

// AddDomain appends one domain to the user's selection.
func (s *UserService) AddDomain(ctx context.Context, userID, name string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "AddDomain",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	next := append([]string{}, u.SelectedDomains...)
	next = append(next, name)
	return s.SetDomains(ctx, userID, next)
}

// RemoveDomain drops one domain from the user's selection. Removing the last
// remaining domain is rejected.
func (s *UserService) RemoveDomain(ctx context.Context, userID, name string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "RemoveDomain",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	name = normalizeDomainName(name)
	next := make([]string, 0, len(u.SelectedDomains))
	for _, d := range u.SelectedDomains {
		if d != name {
			next = append(next, d)
		}
	}
	if len(next) == len(u.SelectedDomains) {
		return nil, ErrInvalidDomain
	}
	return s.SetDomains(ctx, userID, next)
}

// normalizeDomains lowercases, trims, validates, and dedupes a selection
// while preserving first-seen order.
func normalizeDomains(domains []string) ([]string, error) {
	seen := make(map[string]struct{}, len(domains))
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = normalizeDomainName(d)
		if d == "" {
			continue
		}
		if !recs.IsKnownDomain(d) {
			return nil, ErrInvalidDomain
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	if len(out) < minDomains || len(out) > maxDomains {
		return nil, ErrDomainSelection
	}
	return out, nil
}

func normalizeDomainName(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if strings.HasPrefix(d, recs.CustomDomainPrefix) {
		label := strings.TrimSpace(strings.TrimPrefix(d, recs.CustomDomainPrefix))
		return recs.CustomDomainPrefix + label
	}
	return d
}
