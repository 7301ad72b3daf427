package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
	"github.com/smartswipe/go-swipe-backend/internal/recs"
)

// seedHistory gives two users opposing tastes over two domains so the labeled
// history is separable and large enough to train on. It returns the
// technology-leaning user and the seeded ideas.
func seedHistory(t *testing.T, db *gorm.DB, users *UserService, swipes *SwipeService) (*domain.User, []*domain.Idea) {
	t.Helper()
	ctx := context.Background()

	techUser := registerUser(t, users, "tech@example.com", "technology")
	foodUser := registerUser(t, users, "food@example.com", "food")

	var ideas []*domain.Idea
	for _, spec := range []struct{ title, dom string }{
		{"Neural Compiler", "technology"},
		{"Quantum Cache", "technology"},
		{"Robot Courier", "technology"},
		{"Sensor Mesh", "technology"},
		{"Edge Inference", "technology"},
		{"Sourdough Club", "food"},
		{"Spice Subscription", "food"},
		{"Ghost Kitchen", "food"},
		{"Fermentation Kit", "food"},
		{"Meal Rescue", "food"},
	} {
		ideas = append(ideas, seedIdea(t, db, spec.title, spec.dom, spec.dom, "startup"))
	}

	// Each user likes their own domain and dislikes the other, 20 labels total.
	for _, idea := range ideas {
		if _, err := swipes.Record(ctx, techUser.ID, idea.ID, idea.Domain == "technology"); err != nil {
			t.Fatalf("tech swipe: %v", err)
		}
		if _, err := swipes.Record(ctx, foodUser.ID, idea.ID, idea.Domain == "food"); err != nil {
			t.Fatalf("food swipe: %v", err)
		}
	}
	return techUser, ideas
}

func TestRecommendationService_TrainPersistsEvaluation(t *testing.T) {
	db := newTestDB(t)
	users := &UserService{DB: db, Tokens: newTokens(t)}
	swipes := &SwipeService{DB: db}
	ctx := context.Background()
	svc := &RecommendationService{DB: db, Rec: recs.NewRecommender()}

	// Too little data: the run reports why and stores nothing.
	report, err := svc.Train(ctx)
	if err != nil {
		t.Fatalf("Train empty: %v", err)
	}
	if report.Trained || report.Reason == "" {
		t.Fatalf("empty corpus report = %+v", report)
	}
	if _, err := svc.Metrics(ctx); !errors.Is(err, ErrModelNotTrained) {
		t.Fatalf("Metrics before training = %v; want ErrModelNotTrained", err)
	}

	seedHistory(t, db, users, swipes)

	report, err = svc.Train(ctx)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if !report.Trained || report.Samples != 20 {
		t.Fatalf("report = %+v; want trained on 20 samples", report)
	}

	meta, err := svc.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if meta.ModelKind != report.ModelKind || meta.Accuracy != report.Metrics.Accuracy {
		t.Fatalf("stored evaluation %+v does not match report %+v", meta, report)
	}
}

func TestRecommendationService_Recommend(t *testing.T) {
	db := newTestDB(t)
	users := &UserService{DB: db, Tokens: newTokens(t)}
	swipes := &SwipeService{DB: db}
	ctx := context.Background()
	svc := &RecommendationService{DB: db, Rec: recs.NewRecommender()}

	if _, err := svc.Recommend(ctx, "missing", 5); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user = %v; want ErrUserNotFound", err)
	}
	fresh := registerUser(t, users, "fresh-rec@example.com")
	if _, err := svc.Recommend(ctx, fresh.ID, 5); !errors.Is(err, ErrNotOnboarded) {
		t.Fatalf("not onboarded = %v; want ErrNotOnboarded", err)
	}

	techUser, _ := seedHistory(t, db, users, swipes)
	if _, err := svc.Train(ctx); err != nil {
		t.Fatalf("Train: %v", err)
	}

	// The seeded history consumed every idea, so recommendations need fresh
	// unseen candidates.
	unseen := seedIdea(t, db, "Drone Maintenance", "technology", "technology", "startup")
	ranked, err := svc.Recommend(ctx, techUser.ID, 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Idea.ID != unseen.ID {
		t.Fatalf("ranked = %+v; want the one unseen idea", ranked)
	}
	if ranked[0].Score < 0 || ranked[0].Score > 1 {
		t.Fatalf("score out of range: %v", ranked[0].Score)
	}
}

func TestRecommendationService_ExplainAndSimilar(t *testing.T) {
	db := newTestDB(t)
	users := &UserService{DB: db, Tokens: newTokens(t)}
	swipes := &SwipeService{DB: db}
	ctx := context.Background()
	svc := &RecommendationService{DB: db, Rec: recs.NewRecommender()}

	techUser, ideas := seedHistory(t, db, users, swipes)

	if _, err := svc.Explain(ctx, techUser.ID, "missing"); !errors.Is(err, ErrIdeaNotFound) {
		t.Fatalf("missing idea = %v; want ErrIdeaNotFound", err)
	}
	if _, err := svc.Explain(ctx, "missing", ideas[0].ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user = %v; want ErrUserNotFound", err)
	}

	expl, err := svc.Explain(ctx, techUser.ID, ideas[0].ID)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if expl.Prediction.Probability < 0 || expl.Prediction.Probability > 1 || len(expl.Factors) == 0 {
		t.Fatalf("explanation = %+v", expl)
	}

	similar, err := svc.Similar(ctx, ideas[0].ID, 3)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(similar) == 0 || len(similar) > 3 {
		t.Fatalf("similar = %d results", len(similar))
	}
	for _, s := range similar {
		if s.Idea.ID == ideas[0].ID {
			t.Fatalf("similarity returned the idea itself")
		}
	}
	if _, err := svc.Similar(ctx, "missing", 3); !errors.Is(err, ErrIdeaNotFound) {
		t.Fatalf("missing idea = %v; want ErrIdeaNotFound", err)
	}
}

func TestRecommendationService_Info(t *testing.T) {
	db := newTestDB(t)
	users := &UserService{DB: db, Tokens: newTokens(t)}
	swipes := &SwipeService{DB: db}
	ctx := context.Background()
	svc := &RecommendationService{DB: db, Rec: recs.NewRecommender()}

	info, err := svc.Info(ctx)
	if err != nil {
		t.Fatalf("Info empty: %v", err)
	}
	if info.Users != 0 || info.Ideas != 0 || info.Swipes != 0 || info.Model.Trained {
		t.Fatalf("empty info = %+v", info)
	}

	seedHistory(t, db, users, swipes)
	if _, err := svc.Train(ctx); err != nil {
		t.Fatalf("Train: %v", err)
	}

	info, err = svc.Info(ctx)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Users != 2 || info.Ideas != 10 || info.Swipes != 20 {
		t.Fatalf("corpus sizes = %+v", info)
	}
	if !info.Model.Trained || info.Model.Samples != 20 {
		t.Fatalf("model info = %+v", info.Model)
	}
}
