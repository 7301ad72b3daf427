// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Idea model.
//
// The repository follows a "thin" approach: it performs persistence and query
// composition, leaving business rules (domain membership checks, candidate
// ranking) to the services package.
//
// Functions:
//
//   - CreateIdea(ctx, db, idea) -> *domain.Idea, error
//     Inserts an idea; an existing row with the same title is returned as-is
//     so generator retries never duplicate content.
//
//   - BulkCreateIdeas(ctx, db, ideas) -> int, error
//     Inserts many ideas, silently skipping title duplicates; returns the
//     number actually inserted.
//
//   - GetIdea(ctx, db, id) -> *domain.Idea, error
//     Fetches one idea or ErrNotFound.
//
//   - ListIdeas(ctx, db, domains, domainFilter, offset, limit)
//     Returns ideas restricted to the given domain set, optionally narrowed
//     to one domain, paginated.
//
//   - ListUnseenIdeas(ctx, db, userID, domains, limit)
//     Returns ideas in the user's domains that the user has never viewed.
//
//   - CountIdeasInDomains / CountIdeas
//     Aggregate count helpers.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// CreateIdea inserts a new idea. Titles are unique: when an idea with the same
// title already exists, the existing row is returned and nothing is written.
func CreateIdea(ctx context.Context, db *gorm.DB, idea *domain.Idea) (*domain.Idea, error) {
	var existing domain.Idea
	err := db.WithContext(ctx).First(&existing, "title = ?", idea.Title).Error
	if err == nil {
		return &existing, nil
	}
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(idea).Error; err != nil {
		return nil, err
	}
	return idea, nil
}

// BulkCreateIdeas inserts many ideas in one transaction, skipping rows whose
// title already exists. It returns how many rows were actually inserted.
func BulkCreateIdeas(ctx context.Context, db *gorm.DB, ideas []domain.Idea) (int, error) {
	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range ideas {
			var count int64
			if err := tx.Model(&domain.Idea{}).Where("title = ?", ideas[i].Title).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if ideas[i].ID == "" {
				ideas[i].ID = uuid.NewString()
			}
			if ideas[i].CreatedAt.IsZero() {
				ideas[i].CreatedAt = time.Now().UTC()
			}
			if err := tx.Create(&ideas[i]).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	return inserted, err
}

// GetIdea fetches a single idea by ID, or ErrNotFound if missing.
func GetIdea(ctx context.Context, db *gorm.DB, id string) (*domain.Idea, error) {
	var idea domain.Idea
	if err := db.WithContext(ctx).First(&idea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

// ListIdeas returns ideas within the given domain set, optionally narrowed to
// domainFilter, ordered by creation time descending and paginated. An empty
// domain set returns an empty slice: a user without a selection sees nothing.
func ListIdeas(ctx context.Context, db *gorm.DB, domains []string, domainFilter string, offset, limit int) ([]domain.Idea, error) {
	if len(domains) == 0 {
		return []domain.Idea{}, nil
	}
	q := db.WithContext(ctx).Where("domain IN ?", domains)
	if domainFilter != "" {
		q = q.Where("domain = ?", domainFilter)
	}
	var out []domain.Idea
	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// ListAllIdeas returns every idea, ordered by creation time ascending.
// The training pipeline uses this to fit the domain vocabulary and the
// content-similarity matrix over the full corpus.
func ListAllIdeas(ctx context.Context, db *gorm.DB) ([]domain.Idea, error) {
	var out []domain.Idea
	err := db.WithContext(ctx).Order("created_at asc").Find(&out).Error
	return out, err
}

// ListUnseenIdeas returns up to limit ideas from the user's domains that the
// user has not viewed yet, oldest first. An empty domain set short-circuits
// to an empty slice.
func ListUnseenIdeas(ctx context.Context, db *gorm.DB, userID string, domains []string, limit int) ([]domain.Idea, error) {
	if len(domains) == 0 {
		return []domain.Idea{}, nil
	}
	viewed := db.Model(&domain.IdeaView{}).Select("idea_id").Where("user_id = ?", userID)
	var out []domain.Idea
	err := db.WithContext(ctx).
		Where("domain IN ?", domains).
		Where("id NOT IN (?)", viewed).
		Order("created_at asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountIdeasInDomains returns the number of ideas inside the given domain set.
func CountIdeasInDomains(ctx context.Context, db *gorm.DB, domains []string) (int64, error) {
	if len(domains) == 0 {
		return 0, nil
	}
	var total int64
	err := db.WithContext(ctx).Model(&domain.Idea{}).Where("domain IN ?", domains).Count(&total).Error
	return total, err
}

// CountIdeas returns the total number of ideas.
func CountIdeas(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Idea{}).Count(&total).Error
	return total, err
}
