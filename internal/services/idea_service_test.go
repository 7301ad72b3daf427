package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smartswipe/go-swipe-backend/internal/llm"
	"github.com/smartswipe/go-swipe-backend/internal/repo"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// stubGenerator returns an enabled generator whose upstream always answers
// with the given idea batch.
func stubGenerator(batch string) *llm.Generator {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": batch}},
		},
	})
	return llm.NewGeneratorWithHTTPClient(
		llm.Config{APIKey: "test-key", BaseURL: "https://llm.test"},
		&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 200,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(string(body))),
			}, nil
		})},
	)
}

func TestIdeaService_GeneratePool(t *testing.T) {
	db := newTestDB(t)
	users := &UserService{DB: db, Tokens: newTokens(t)}
	ctx := context.Background()

	svc := &IdeaService{DB: db, BatchSize: 2, GenerateTimeout: 5 * time.Second}

	// No generator configured.
	u := registerUser(t, users, "gp@example.com", "technology")
	if _, err := svc.GeneratePool(ctx, u.ID); !errors.Is(err, llm.ErrGeneratorDisabled) {
		t.Fatalf("disabled generator = %v; want ErrGeneratorDisabled", err)
	}

	svc.Generator = stubGenerator(`[
		{"title": "Queued Idea", "description": "Generated in the background.", "tags": ["gen"]}
	]`)

	// Onboarding is required before a refill makes sense.
	fresh := registerUser(t, users, "fresh@example.com")
	if _, err := svc.GeneratePool(ctx, fresh.ID); !errors.Is(err, ErrNotOnboarded) {
		t.Fatalf("not onboarded = %v; want ErrNotOnboarded", err)
	}
	if _, err := svc.GeneratePool(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user = %v; want ErrUserNotFound", err)
	}

	res, err := svc.GeneratePool(ctx, u.ID)
	if err != nil {
		t.Fatalf("GeneratePool: %v", err)
	}
	if len(res.Queued) != 1 || res.Queued[0] != "technology" || res.PerEach != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	// The background pass persists the generated batch.
	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := repo.CountIdeas(ctx, db)
		if err != nil {
			t.Fatalf("count ideas: %v", err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("generated idea never persisted, count=%d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIdeaService_GameSession(t *testing.T) {
	db := newTestDB(t)
	users := &UserService{DB: db, Tokens: newTokens(t)}
	ctx := context.Background()
	svc := &IdeaService{DB: db, SessionSize: 2}

	u := registerUser(t, users, "gs@example.com", "technology")
	for _, title := range []string{"Tech A", "Tech B", "Tech C"} {
		seedIdea(t, db, title, "technology")
	}
	seedIdea(t, db, "Food A", "food")

	if _, err := svc.GameSession(ctx, "missing", 0); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user = %v; want ErrUserNotFound", err)
	}
	fresh := registerUser(t, users, "fresh-gs@example.com")
	if _, err := svc.GameSession(ctx, fresh.ID, 0); !errors.Is(err, ErrNotOnboarded) {
		t.Fatalf("not onboarded = %v; want ErrNotOnboarded", err)
	}

	// Zero limit falls back to the configured session size.
	first, err := svc.GameSession(ctx, u.ID, 0)
	if err != nil {
		t.Fatalf("GameSession: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("session size = %d; want 2", len(first))
	}
	for _, idea := range first {
		if idea.Domain != "technology" {
			t.Fatalf("idea outside selection: %+v", idea)
		}
	}

	// Served ideas are marked viewed and never replayed.
	second, err := svc.GameSession(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("second session = %d ideas; want the 1 remaining", len(second))
	}
	seen := map[string]bool{first[0].ID: true, first[1].ID: true}
	if seen[second[0].ID] {
		t.Fatalf("session replayed an already-viewed idea")
	}

	third, err := svc.GameSession(ctx, u.ID, 10)
	if err != nil || len(third) != 0 {
		t.Fatalf("drained pool session = %d ideas, %v; want 0", len(third), err)
	}
}

func TestIdeaService_GameSessionLowPoolTopUp(t *testing.T) {
	db := newTestDB(t)
	users := &UserService{DB: db, Tokens: newTokens(t)}
	ctx := context.Background()

	var mu sync.Mutex
	calls := 0
	gen := llm.NewGeneratorWithHTTPClient(
		llm.Config{APIKey: "test-key", BaseURL: "https://llm.test"},
		&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return &http.Response{
				StatusCode: 200,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(`{"choices": [{"message": {"content": "[]"}}]}`)),
			}, nil
		})},
	)
	svc := &IdeaService{DB: db, Generator: gen, LowPoolThreshold: 5, GenerateTimeout: 5 * time.Second}

	u := registerUser(t, users, "topup@example.com", "technology")
	seedIdea(t, db, "Only One", "technology")

	ideas, err := svc.GameSession(ctx, u.ID, 10)
	if err != nil || len(ideas) != 1 {
		t.Fatalf("session = %d ideas, %v; want 1", len(ideas), err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("low pool did not trigger a top-up")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIdeaService_ListPageAndStats(t *testing.T) {
	db := newTestDB(t)
	users := &UserService{DB: db, Tokens: newTokens(t)}
	ctx := context.Background()
	svc := &IdeaService{DB: db}

	u := registerUser(t, users, "lp@example.com", "technology", "food")
	seedIdea(t, db, "Tech A", "technology")
	seedIdea(t, db, "Tech B", "technology")
	seedIdea(t, db, "Food A", "food")
	seedIdea(t, db, "Travel A", "travel")

	items, total, err := svc.ListPage(ctx, u.ID, "", 1, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("total=%d items=%d; want 3/3", total, len(items))
	}

	items, total, err = svc.ListPage(ctx, u.ID, "food", 1, 10)
	if err != nil {
		t.Fatalf("ListPage filtered: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Title != "Food A" {
		t.Fatalf("filtered page = %+v (total %d)", items, total)
	}

	items, total, err = svc.ListPage(ctx, u.ID, "", 2, 2)
	if err != nil || total != 3 || len(items) != 1 {
		t.Fatalf("page 2 = %d items, total %d, %v; want 1/3", len(items), total, err)
	}

	// Stats reflect consumption.
	if _, err := repo.MarkViewed(ctx, db, u.ID, items[0].ID); err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if _, err := repo.UpsertSwipe(ctx, db, u.ID, items[0].ID, true); err != nil {
		t.Fatalf("swipe: %v", err)
	}
	stats, err := svc.Stats(ctx, u.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalIdeas != 4 || stats.InSelection != 3 || stats.Viewed != 1 || stats.Swiped != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestIdeaService_Get(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := &IdeaService{DB: db}

	idea := seedIdea(t, db, "Lookup", "technology")
	got, err := svc.Get(ctx, idea.ID)
	if err != nil || got.Title != "Lookup" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrIdeaNotFound) {
		t.Fatalf("missing idea = %v; want ErrIdeaNotFound", err)
	}
}
