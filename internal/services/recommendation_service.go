// Package services – RecommendationService
//
// This file implements RecommendationService, the application-level component
// that wraps the recommendation core. It assembles training snapshots from
// the database, persists the evaluation of each successful run, and serves
// ranked recommendations, prediction explanations, and content similarity.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include user identifiers and result sizes where applicable.

package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/recs"
	"github.com/smartswipe/go-swipe-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// candidateFactor controls how many unseen ideas are scored per requested
// recommendation slot.
const candidateFactor = 3

// RecStats summarizes the recommendation pipeline for diagnostics.
type RecStats struct {
	Users  int64          `json:"users"`
	Ideas  int64          `json:"ideas"`
	Swipes int64          `json:"swipes"`
	Model  recs.ModelInfo `json:"model"`
}

// RecommendationService bridges persistence and the recommendation core.
type RecommendationService struct {
	DB  *gorm.DB
	Rec *recs.Recommender
}

// Recommend returns up to limit unseen ideas for the user, ranked by
// predicted like probability.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, limit int) ([]recs.ScoredIdea, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Recommend",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if limit <= 0 {
		limit = 10
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

	candidates, err := repo.ListUnseenIdeas(ctx, s.DB, userID, u.SelectedDomains, limit*candidateFactor)
	if err != nil {
		return nil, err
	}
	stats, err := s.userStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	ranked := s.Rec.Rank(u, candidates, stats, limit)
	span.SetAttributes(attribute.Int("results", len(ranked)))
	return ranked, nil
}

// Explain returns the prediction for one (user, idea) pair together with the
// attributes that drove it.
func (s *RecommendationService) Explain(ctx context.Context, userID, ideaID string) (*recs.Explanation, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Explain",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("idea.id", ideaID),
		),
	)
	defer span.End()

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	stats, err := s.userStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	expl := s.Rec.Explain(u, idea, stats)
	return &expl, nil
}

// Similar returns up to limit ideas most similar to the given one.
func (s *RecommendationService) Similar(ctx context.Context, ideaID string, limit int) ([]recs.ScoredIdea, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Similar",
		trace.WithAttributes(
			attribute.String("idea.id", ideaID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if limit <= 0 {
		limit = 5
	}
	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	candidates, err := repo.ListAllIdeas(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return s.Rec.Similar(idea, candidates, limit), nil
}

// Train snapshots the whole corpus, retrains the model, and persists the
// winning evaluation. A run that cannot produce a model (too little data or
// a single swipe outcome) reports why and leaves the previous model and its
// stored evaluation untouched.
func (s *RecommendationService) Train(ctx context.Context) (*recs.TrainingReport, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Train")
	defer span.End()

	users, err := repo.ListOnboardedUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	ideas, err := repo.ListAllIdeas(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	swipes, err := repo.ListAllSwipes(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	report := s.Rec.Train(recs.Dataset{Users: users, Ideas: ideas, Swipes: swipes})
	span.SetAttributes(
		attribute.Bool("trained", report.Trained),
		attribute.Int("samples", report.Samples),
	)
	if !report.Trained {
		return &report, nil
	}

	m := report.Metrics
	if _, err := repo.UpsertModelMeta(ctx, s.DB, report.ModelKind, m.Accuracy, m.Precision, m.Recall, m.F1, m.ROCAUC); err != nil {
		return nil, err
	}
	return &report, nil
}

// Metrics returns the stored evaluation of the last successful training run.
func (s *RecommendationService) Metrics(ctx context.Context) (*domain.ModelMeta, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Metrics")
	defer span.End()

	meta, err := repo.GetModelMeta(ctx, s.DB)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrModelNotTrained
		}
		return nil, err
	}
	return meta, nil
}

// Info snapshots the in-memory model state plus corpus sizes.
func (s *RecommendationService) Info(ctx context.Context) (*RecStats, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Info")
	defer span.End()

	out := &RecStats{Model: s.Rec.Info()}
	var err error
	if out.Users, err = repo.CountUsers(ctx, s.DB); err != nil {
		return nil, err
	}
	if out.Ideas, err = repo.CountIdeas(ctx, s.DB); err != nil {
		return nil, err
	}
	if out.Swipes, err = repo.CountSwipes(ctx, s.DB); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecommendationService) userStats(ctx context.Context, userID string) (recs.UserStats, error) {
	total, likes, err := repo.SwipeCounts(ctx, s.DB, userID)
	if err != nil {
		return recs.UserStats{}, err
	}
	return recs.UserStats{Swipes: total, Likes: likes}, nil
}
