// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Swipe model.
//
// Swipes are upserted: the (user_id, idea_id) pair is unique, and recording a
// swipe for an existing pair overwrites the outcome instead of inserting a
// second row. That keeps the training set one-label-per-pair, which the
// recommendation core depends on.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// UpsertSwipe records a like/dislike for (userID, ideaID). If the pair was
// already swiped, the existing row's outcome is updated in place; otherwise a
// new row is inserted. The persisted row is returned in both cases.
func UpsertSwipe(ctx context.Context, db *gorm.DB, userID, ideaID string, liked bool) (*domain.Swipe, error) {
	var existing domain.Swipe
	err := db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		First(&existing).Error
	if err == nil {
		res := db.WithContext(ctx).
			Model(&domain.Swipe{}).
			Where("id = ?", existing.ID).
			Update("liked", liked)
		if res.Error != nil {
			return nil, res.Error
		}
		existing.Liked = liked
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	s := &domain.Swipe{
		ID:        uuid.NewString(),
		UserID:    userID,
		IdeaID:    ideaID,
		Liked:     liked,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// ListSwipes returns the user's swipes, newest first, optionally restricted to
// likes, paginated.
func ListSwipes(ctx context.Context, db *gorm.DB, userID string, likedOnly bool, offset, limit int) ([]domain.Swipe, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if likedOnly {
		q = q.Where("liked = ?", true)
	}
	var out []domain.Swipe
	err := q.Preload("Idea").Order("created_at desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// ListAllSwipes returns every swipe with its idea preloaded, oldest first.
// The training pipeline consumes this as the labeled history.
func ListAllSwipes(ctx context.Context, db *gorm.DB) ([]domain.Swipe, error) {
	var out []domain.Swipe
	err := db.WithContext(ctx).Preload("Idea").Order("created_at asc").Find(&out).Error
	return out, err
}

// ListUserSwipes returns every swipe by one user with ideas preloaded,
// oldest first.
func ListUserSwipes(ctx context.Context, db *gorm.DB, userID string) ([]domain.Swipe, error) {
	var out []domain.Swipe
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Idea").
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// SwipeCounts returns the user's total swipe count and like count using a
// single aggregate query.
func SwipeCounts(ctx context.Context, db *gorm.DB, userID string) (total, likes int64, err error) {
	var row struct {
		Total int64
		Likes int64
	}
	err = db.WithContext(ctx).
		Model(&domain.Swipe{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN liked THEN 1 ELSE 0 END), 0) AS likes").
		Where("user_id = ?", userID).
		Scan(&row).Error
	return row.Total, row.Likes, err
}

// CountSwipes returns the total number of swipes across all users.
func CountSwipes(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Swipe{}).Count(&total).Error
	return total, err
}
