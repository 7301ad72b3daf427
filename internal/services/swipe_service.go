// Package services – SwipeService
//
// This file implements SwipeService, the application-level component that
// records like/dislike decisions. A swipe on an already-swiped idea
// overwrites the stored outcome instead of creating a second row, and every
// swipe also marks the idea as viewed so sessions stay consistent.

package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SwipeStats summarizes one user's swipe history.
type SwipeStats struct {
	Total     int64            `json:"total"`
	Likes     int64            `json:"likes"`
	Dislikes  int64            `json:"dislikes"`
	LikeRatio float64          `json:"like_ratio"`
	ByDomain  map[string]int64 `json:"likes_by_domain"`
}

// SwipeService records and reports swipe decisions.
type SwipeService struct {
	DB *gorm.DB
}

// Record stores a like/dislike for an idea, overwriting any previous outcome
// for the same (user, idea) pair. The idea must exist.
func (s *SwipeService) Record(ctx context.Context, userID, ideaID string, liked bool) (*domain.Swipe, error) {
	tr := otel.Tracer("services/SwipeService")
	ctx, span := tr.Start(ctx, "Record",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("idea.id", ideaID),
			attribute.Bool("liked", liked),
		),
	)
	defer span.End()

	if _, err := repo.GetIdea(ctx, s.DB, ideaID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	sw, err := repo.UpsertSwipe(ctx, s.DB, userID, ideaID, liked)
	if err != nil {
		return nil, err
	}
	// A swipe implies the idea was seen.
	if _, err := repo.MarkViewed(ctx, s.DB, userID, ideaID); err != nil {
		return nil, err
	}
	return sw, nil
}

// ListPage returns the user's swipes, newest first, optionally only likes.
func (s *SwipeService) ListPage(ctx context.Context, userID string, likedOnly bool, page, pageSize int) ([]domain.Swipe, int64, error) {
	tr := otel.Tracer("services/SwipeService")
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

	total, likes, err := repo.SwipeCounts(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if likedOnly {
		total = likes
	}
	if total == 0 {
		return []domain.Swipe{}, 0, nil
	}
	items, err := repo.ListSwipes(ctx, s.DB, userID, likedOnly, offset, pageSize)
	return items, total, err
}

// Stats aggregates the user's swipe history, including a per-domain like
// breakdown.
func (s *SwipeService) Stats(ctx context.Context, userID string) (*SwipeStats, error) {
	tr := otel.Tracer("services/SwipeService")
	ctx, span := tr.Start(ctx, "Stats",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	total, likes, err := repo.SwipeCounts(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := &SwipeStats{
		Total:    total,
		Likes:    likes,
		Dislikes: total - likes,
		ByDomain: map[string]int64{},
	}
	if total > 0 {
		out.LikeRatio = float64(likes) / float64(total)
	}

	var rows []struct {
		Domain string
		N      int64
	}
	err = s.DB.WithContext(ctx).
		Model(&domain.Swipe{}).
		Select("ideas.domain AS domain, COUNT(*) AS n").
		Joins("JOIN ideas ON ideas.id = swipes.idea_id").
		Where("swipes.user_id = ? AND swipes.liked = ?", userID, true).
		Group("ideas.domain").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out.ByDomain[r.Domain] = r.N
	}
	return out, nil
}
