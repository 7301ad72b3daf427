package repo

import (
	"context"
	"testing"
)

func TestIdeasStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	count, maxAt, err := IdeasStats(ctx, db, nil)
	if err != nil || count != 0 || maxAt != nil {
		t.Fatalf("empty domain set: count=%d maxAt=%v err=%v", count, maxAt, err)
	}

	seedIdea(t, db, "Tech A", "technology")
	seedIdea(t, db, "Tech B", "technology")
	seedIdea(t, db, "Food A", "food")

	count, maxAt, err = IdeasStats(ctx, db, []string{"technology"})
	if err != nil {
		t.Fatalf("IdeasStats: %v", err)
	}
	if count != 2 || maxAt == nil {
		t.Fatalf("count=%d maxAt=%v; want 2 with timestamp", count, maxAt)
	}

	count, maxAt, err = IdeasStats(ctx, db, []string{"travel"})
	if err != nil || count != 0 || maxAt != nil {
		t.Fatalf("unmatched domain: count=%d maxAt=%v err=%v", count, maxAt, err)
	}
}

func TestSwipesStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "stats@example.com", "technology")

	count, maxAt, err := SwipesStats(ctx, db, u.ID)
	if err != nil || count != 0 || maxAt != nil {
		t.Fatalf("no swipes yet: count=%d maxAt=%v err=%v", count, maxAt, err)
	}

	a := seedIdea(t, db, "Tech A", "technology")
	b := seedIdea(t, db, "Tech B", "technology")
	if _, err := UpsertSwipe(ctx, db, u.ID, a.ID, true); err != nil {
		t.Fatalf("swipe a: %v", err)
	}
	if _, err := UpsertSwipe(ctx, db, u.ID, b.ID, false); err != nil {
		t.Fatalf("swipe b: %v", err)
	}

	count, maxAt, err = SwipesStats(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("SwipesStats: %v", err)
	}
	if count != 2 || maxAt == nil {
		t.Fatalf("count=%d maxAt=%v; want 2 with timestamp", count, maxAt)
	}
}
