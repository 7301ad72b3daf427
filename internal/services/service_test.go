package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartswipe/go-swipe-backend/internal/auth"
	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return tm
}

// registerUser creates an account through the service so the stored hash and
// normalization match production behavior.
func registerUser(t *testing.T, svc *UserService, email string, domains ...string) *domain.User {
	t.Helper()
	u, _, err := svc.Register(context.Background(), email, "password-123")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	if len(domains) > 0 {
		u, err = svc.SetDomains(context.Background(), u.ID, domains)
		if err != nil {
			t.Fatalf("set domains for %s: %v", email, err)
		}
	}
	return u
}

func seedIdea(t *testing.T, db *gorm.DB, title, dom string, tags ...string) *domain.Idea {
	t.Helper()
	idea, err := repo.CreateIdea(context.Background(), db, &domain.Idea{
		Title:       title,
		Description: "A " + dom + " concept about " + title + ".",
		Tags:        tags,
		Domain:      dom,
	})
	if err != nil {
		t.Fatalf("seed idea %s: %v", title, err)
	}
	return idea
}
