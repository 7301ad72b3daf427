// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// IdeasStats returns aggregate metadata for the ideas inside a domain set:
// the total number of rows and the greatest CreatedAt among them.
//
// When the domain set is empty or matches no ideas, the returned count is 0
// and maxCreatedAt is nil.
//
// Return values:
//   - count:        total ideas inside the domain set
//   - maxCreatedAt: pointer to the greatest CreatedAt, or nil if no rows
//   - err:          database error, if any
func IdeasStats(ctx context.Context, db *gorm.DB, domains []string) (count int64, maxCreatedAt *time.Time, err error) {
	if len(domains) == 0 {
		return 0, nil, nil
	}
	q := db.WithContext(ctx).Model(&domain.Idea{}).Where("domain IN ?", domains)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}

// SwipesStats returns aggregate metadata for one user's swipes: the total
// number of rows and the greatest UpdatedAt among them (UpdatedAt moves when
// a swipe outcome is overwritten, so it is the right freshness signal).
//
// When the user has no swipes, the returned count is 0 and maxUpdatedAt is nil.
func SwipesStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Swipe{}).Where("user_id = ?", userID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
