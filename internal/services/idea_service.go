// Package services – IdeaService
//
// This file implements IdeaService, the application-level component that owns
// the idea pool. It serves swipe sessions from the unseen pool, lists and
// counts ideas inside the user's selected domains, and drives the LLM
// generator: explicit pool refills plus an automatic background top-up when a
// session drains the pool below the configured threshold.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include user identifiers and pool sizes where applicable.

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/llm"
	"github.com/smartswipe/go-swipe-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IdeaStats summarizes the idea pool from one user's perspective.
type IdeaStats struct {
	TotalIdeas  int64 `json:"total_ideas"`
	InSelection int64 `json:"in_selected_domains"`
	Viewed      int64 `json:"viewed"`
	Swiped      int64 `json:"swiped"`
}

// GenerationResult reports what an explicit pool refill kicked off.
type GenerationResult struct {
	Queued  []string `json:"queued_domains"`
	PerEach int      `json:"ideas_per_domain"`
}

// IdeaService owns the idea pool and the generation pipeline.
type IdeaService struct {
	DB        *gorm.DB
	Generator *llm.Generator

	// BatchSize is how many ideas one generation call requests per domain.
	BatchSize int
	// SessionSize is the game session size used when the caller passes none.
	SessionSize int
	// LowPoolThreshold triggers an automatic background top-up when a game
	// session finds fewer unseen ideas than this.
	LowPoolThreshold int
	// GenerateTimeout bounds each background generation call.
	GenerateTimeout time.Duration
}

func (s *IdeaService) batchSize() int {
	if s.BatchSize <= 0 {
		return 5
	}
	return s.BatchSize
}

func (s *IdeaService) sessionSize() int {
	if s.SessionSize <= 0 {
		return 10
	}
	return s.SessionSize
}

func (s *IdeaService) generateTimeout() time.Duration {
	if s.GenerateTimeout <= 0 {
		return 90 * time.Second
	}
	return s.GenerateTimeout
}

// GeneratePool kicks off idea generation for every domain the user selected.
// Generation runs in the background; the call returns as soon as the work is
// queued. Returns llm.ErrGeneratorDisabled when no API key is configured.
func (s *IdeaService) GeneratePool(ctx context.Context, userID string) (*GenerationResult, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "GeneratePool",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if s.Generator == nil || !s.Generator.Enabled() {
		return nil, llm.ErrGeneratorDisabled
	}
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.OnboardingCompleted || len(u.SelectedDomains) == 0 {
		return nil, ErrNotOnboarded
	}

	domains := append([]string{}, u.SelectedDomains...)
	go s.generateForDomains(domains)

	return &GenerationResult{Queued: domains, PerEach: s.batchSize()}, nil
}

// generateForDomains runs outside the request lifecycle, so it carries its
// own timeout instead of the caller's context.
func (s *IdeaService) generateForDomains(domains []string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.generateTimeout())
	defer cancel()

	for _, d := range domains {
		drafts, err := s.Generator.GenerateIdeas(ctx, d, s.batchSize())
		if err != nil {
			log.Warn().Err(err).Str("domain", d).Msg("idea generation failed")
			continue
		}
		ideas := make([]domain.Idea, 0, len(drafts))
		for _, draft := range drafts {
			ideas = append(ideas, domain.Idea{
				Title:               draft.Title,
				Description:         draft.Description,
				Tags:                draft.Tags,
				Domain:              draft.Domain,
				GeneratedForDomains: domains,
			})
		}
		inserted, err := repo.BulkCreateIdeas(ctx, s.DB, ideas)
		if err != nil {
			log.Error().Err(err).Str("domain", d).Msg("persisting generated ideas failed")
			continue
		}
		log.Info().Str("domain", d).Int("inserted", inserted).Msg("idea pool refilled")
	}
}

// GameSession returns up to limit unseen ideas inside the user's selected
// domains and marks them as viewed, so repeat sessions never replay them.
// When the remaining pool is low and the generator is enabled, a background
// top-up for the user's domains is triggered.
func (s *IdeaService) GameSession(ctx context.Context, userID string, limit int) ([]domain.Idea, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "GameSession",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if limit <= 0 {
		limit = s.sessionSize()
	}
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.OnboardingCompleted || len(u.SelectedDomains) == 0 {
		return nil, ErrNotOnboarded
	}

	ideas, err := repo.ListUnseenIdeas(ctx, s.DB, userID, u.SelectedDomains, limit)
	if err != nil {
		return nil, err
	}
	for i := range ideas {
		if _, err := repo.MarkViewed(ctx, s.DB, userID, ideas[i].ID); err != nil {
			return nil, err
		}
	}

	if len(ideas) < s.LowPoolThreshold && s.Generator != nil && s.Generator.Enabled() {
		span.AddEvent("low pool top-up triggered")
		go s.generateForDomains(append([]string{}, u.SelectedDomains...))
	}
	return ideas, nil
}

// ListPage returns paginated ideas inside the user's selected domains,
// optionally narrowed to one domain.
func (s *IdeaService) ListPage(ctx context.Context, userID, domainFilter string, page, pageSize int) ([]domain.Idea, int64, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}

	scope := u.SelectedDomains
	if domainFilter != "" {
		scope = []string{domainFilter}
	}
	total, err := repo.CountIdeasInDomains(ctx, s.DB, scope)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Idea{}, 0, nil
	}
	items, err := repo.ListIdeas(ctx, s.DB, u.SelectedDomains, domainFilter, offset, pageSize)
	return items, total, err
}

// Get returns one idea by ID.
func (s *IdeaService) Get(ctx context.Context, ideaID string) (*domain.Idea, error) {
	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	return idea, nil
}

// Stats summarizes the pool for one user: total pool size, how much of it
// falls inside the selection, and how much the user has already consumed.
func (s *IdeaService) Stats(ctx context.Context, userID string) (*IdeaStats, error) {
	tr := otel.Tracer("services/IdeaService")
	ctx, span := tr.Start(ctx, "Stats",
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

	out := &IdeaStats{}
	if out.TotalIdeas, err = repo.CountIdeas(ctx, s.DB); err != nil {
		return nil, err
	}
	if out.InSelection, err = repo.CountIdeasInDomains(ctx, s.DB, u.SelectedDomains); err != nil {
		return nil, err
	}
	if out.Viewed, err = repo.CountViews(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	total, _, err := repo.SwipeCounts(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out.Swiped = total
	return out, nil
}
