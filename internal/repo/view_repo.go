// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the IdeaView
// model, which records that an idea was shown to a user.
//
// Views are append-only and idempotent: MarkViewed on an existing pair is a
// no-op. The recommendation pipeline relies on this to exclude already-seen
// candidates, so the idempotence here is a contract, not an optimization.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// MarkViewed records that ideaID was shown to userID. If the pair is already
// recorded the call is a no-op and the existing row is returned. A concurrent
// insert losing the race against the unique index is treated the same way.
func MarkViewed(ctx context.Context, db *gorm.DB, userID, ideaID string) (*domain.IdeaView, error) {
	var existing domain.IdeaView
	err := db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	v := &domain.IdeaView{
		ID:       uuid.NewString(),
		UserID:   userID,
		IdeaID:   ideaID,
		ViewedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost a race; the pair exists now, which is what we wanted.
			if ferr := db.WithContext(ctx).
				Where("user_id = ? AND idea_id = ?", userID, ideaID).
				First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return v, nil
}

// CountViews returns how many ideas the user has viewed.
func CountViews(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.IdeaView{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}
