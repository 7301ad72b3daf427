package recs

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// trainableDataset builds a corpus where likes follow the domain-match flag:
// users like ideas inside their selected domains and pass on the rest. That
// makes it learnable while exercising both classes.
func trainableDataset() Dataset {
	var ds Dataset
	ds.Users = []domain.User{
		{ID: "u1", SelectedDomains: []string{"technology"}, OnboardingCompleted: true},
		{ID: "u2", SelectedDomains: []string{"food"}, OnboardingCompleted: true},
	}
	for i := 0; i < 5; i++ {
		ds.Ideas = append(ds.Ideas, domain.Idea{
			ID:          fmt.Sprintf("tech-%d", i),
			Title:       fmt.Sprintf("AI assistant %d", i),
			Description: "automates code review workflows for developer teams",
			Tags:        []string{"ai", "saas", "devtools"},
			Domain:      "technology",
		})
		ds.Ideas = append(ds.Ideas, domain.Idea{
			ID:          fmt.Sprintf("food-%d", i),
			Title:       fmt.Sprintf("Ghost kitchen %d", i),
			Description: "delivery only restaurant brand sharing one kitchen",
			Tags:        []string{"food", "delivery"},
			Domain:      "food",
		})
	}
	for _, idea := range ds.Ideas {
		ds.Swipes = append(ds.Swipes,
			domain.Swipe{UserID: "u1", IdeaID: idea.ID, Liked: idea.Domain == "technology"},
			domain.Swipe{UserID: "u2", IdeaID: idea.ID, Liked: idea.Domain == "food"},
		)
	}
	return ds
}

func TestTrain_InsufficientData(t *testing.T) {
	r := NewRecommender()
	ds := trainableDataset()
	ds.Swipes = ds.Swipes[:MinTrainingSamples-1]

	report := r.Train(ds)
	if report.Trained {
		t.Fatalf("expected no training below %d samples", MinTrainingSamples)
	}
	if report.Reason != ReasonInsufficientData {
		t.Fatalf("reason = %q; want %q", report.Reason, ReasonInsufficientData)
	}
	if report.Samples != MinTrainingSamples-1 {
		t.Fatalf("samples = %d; want %d", report.Samples, MinTrainingSamples-1)
	}
	if info := r.Info(); info.Trained {
		t.Fatalf("failed run must not install a model")
	}
}

func TestTrain_SingleClass(t *testing.T) {
	r := NewRecommender()
	ds := trainableDataset()
	for i := range ds.Swipes {
		ds.Swipes[i].Liked = true
	}

	report := r.Train(ds)
	if report.Trained || report.Reason != ReasonSingleClass {
		t.Fatalf("expected single-class rejection, got %+v", report)
	}
	if report.PositiveRate != 1 {
		t.Fatalf("positive rate = %v; want 1", report.PositiveRate)
	}
}

func TestTrain_SkipsDanglingSwipes(t *testing.T) {
	r := NewRecommender()
	ds := trainableDataset()
	ds.Swipes = append(ds.Swipes, domain.Swipe{UserID: "ghost", IdeaID: "tech-0", Liked: true})
	ds.Swipes = append(ds.Swipes, domain.Swipe{UserID: "u1", IdeaID: "missing", Liked: true})

	report := r.Train(ds)
	if report.Samples != 20 {
		t.Fatalf("dangling swipes must be skipped, samples = %d; want 20", report.Samples)
	}
}

func TestTrain_SuccessAndDeterminism(t *testing.T) {
	r := NewRecommender()
	report := r.Train(trainableDataset())

	if !report.Trained || report.Reason != "" {
		t.Fatalf("expected a trained model, got %+v", report)
	}
	switch report.ModelKind {
	case KindLogistic, KindRandomForest, KindGradientBoosting:
	default:
		t.Fatalf("unexpected model kind %q", report.ModelKind)
	}
	if report.Samples != 20 || report.PositiveRate != 0.5 {
		t.Fatalf("corpus shape unexpected: %+v", report)
	}
	if report.Metrics.Accuracy < 0.5 {
		t.Fatalf("separable corpus should beat chance, accuracy = %v", report.Metrics.Accuracy)
	}

	// Retraining on the same snapshot must reproduce the same winner.
	second := NewRecommender().Train(trainableDataset())
	if second.ModelKind != report.ModelKind || !reflect.DeepEqual(second.Metrics, report.Metrics) {
		t.Fatalf("retrain diverged: %+v vs %+v", second, report)
	}
}

func TestTrain_FitsDomainVocabulary(t *testing.T) {
	ds := trainableDataset()
	for i := range ds.Ideas {
		if ds.Ideas[i].Domain == "food" {
			ds.Ideas[i].Domain = "custom:street-food"
		}
	}
	ds.Users[1].SelectedDomains = []string{"custom:street-food"}

	r := NewRecommender()
	if rep := r.Train(ds); !rep.Trained {
		t.Fatalf("train failed: %+v", rep)
	}
	vocab := r.m.vocab
	if vocab.Size() != 2 {
		t.Fatalf("vocabulary size = %d; want 2", vocab.Size())
	}
	if vocab.Code("custom:street-food") == 0 || vocab.Code("technology") == 0 {
		t.Fatalf("corpus domains must get non-zero codes, vocab = %+v", vocab)
	}
	if vocab.Code("health") != 0 {
		t.Fatalf("domain absent from the corpus must encode as 0")
	}
}

func TestPredict_FallbackWithoutModel(t *testing.T) {
	r := NewRecommender()
	user := &domain.User{ID: "u1", SelectedDomains: []string{"technology"}}
	idea := &domain.Idea{ID: "i1", Domain: "technology"}

	p := r.Predict(user, idea, UserStats{})
	if p != NeutralPrediction() {
		t.Fatalf("untrained Predict = %+v; want neutral fallback", p)
	}
	if p.Probability != 0.5 || p.Confidence != ConfidenceLow || p.Method != MethodFallback {
		t.Fatalf("neutral prediction fields unexpected: %+v", p)
	}
}

func TestPredict_UsesEnsembleAfterTraining(t *testing.T) {
	ds := trainableDataset()
	r := NewRecommender()
	if rep := r.Train(ds); !rep.Trained {
		t.Fatalf("train failed: %+v", rep)
	}

	u := &ds.Users[0]
	inDomain := r.Predict(u, &ds.Ideas[0], UserStats{Swipes: 10, Likes: 5})
	if inDomain.Method != MethodEnsemble {
		t.Fatalf("method = %q; want %q", inDomain.Method, MethodEnsemble)
	}
	if inDomain.Probability < 0 || inDomain.Probability > 1 {
		t.Fatalf("probability out of range: %v", inDomain.Probability)
	}

	offDomain := r.Predict(u, &ds.Ideas[1], UserStats{Swipes: 10, Likes: 5})
	if inDomain.Probability <= offDomain.Probability {
		t.Fatalf("in-domain idea should score higher: %v vs %v", inDomain.Probability, offDomain.Probability)
	}
}

func TestConfidenceFor_Bands(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.95, ConfidenceHigh},
		{0.05, ConfidenceHigh},
		{0.7, ConfidenceMedium},
		{0.35, ConfidenceMedium},
		{0.55, ConfidenceLow},
		{0.5, ConfidenceLow},
	}
	for _, c := range cases {
		if got := confidenceFor(c.p); got != c.want {
			t.Fatalf("confidenceFor(%v) = %q; want %q", c.p, got, c.want)
		}
	}
}

func TestRank_OrdersAndLimits(t *testing.T) {
	ds := trainableDataset()
	r := NewRecommender()
	if rep := r.Train(ds); !rep.Trained {
		t.Fatalf("train failed: %+v", rep)
	}

	u := &ds.Users[0]
	out := r.Rank(u, ds.Ideas, UserStats{Swipes: 10, Likes: 5}, 3)
	if len(out) != 3 {
		t.Fatalf("limit not applied, got %d results", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].Score < out[i].Score {
			t.Fatalf("results not sorted by score: %v", out)
		}
	}
	// The tech user's top pick should be a technology idea.
	if out[0].Idea.Domain != "technology" {
		t.Fatalf("top idea domain = %q; want technology", out[0].Idea.Domain)
	}
}

func TestRank_TiesKeepCandidateOrder(t *testing.T) {
	// No model: every candidate scores the neutral 0.5, so the stable sort
	// must return the candidates exactly as given.
	r := NewRecommender()
	u := &domain.User{ID: "u1"}
	candidates := []domain.Idea{{ID: "c"}, {ID: "a"}, {ID: "b"}}

	out := r.Rank(u, candidates, UserStats{}, 0)
	got := []string{out[0].Idea.ID, out[1].Idea.ID, out[2].Idea.ID}
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tied ranking order = %v; want input order %v", got, want)
	}
}

func TestSimilar_TagOverlapFallback(t *testing.T) {
	r := NewRecommender() // untrained: no TF-IDF matrix
	base := domain.Idea{ID: "x", Tags: []string{"ai", "saas", "ml"}}
	candidates := []domain.Idea{
		{ID: "x", Tags: []string{"ai", "saas", "ml"}},       // self, skipped
		{ID: "near", Tags: []string{"ai", "saas"}},          // overlap 2/3
		{ID: "far", Tags: []string{"ai", "x1", "x2", "x3"}}, // overlap 1/4 > 0.2
		{ID: "noise", Tags: []string{"food"}},               // overlap 0
	}

	out := r.Similar(&base, candidates, 10)
	if len(out) != 2 {
		t.Fatalf("expected 2 matches, got %v", out)
	}
	if out[0].Idea.ID != "near" || out[1].Idea.ID != "far" {
		t.Fatalf("order unexpected: %v", out)
	}
	for _, s := range out {
		if s.Idea.ID == "x" {
			t.Fatalf("Similar must not return the idea itself")
		}
	}
}

func TestSimilar_TiesKeepCandidateOrder(t *testing.T) {
	r := NewRecommender()
	base := domain.Idea{ID: "x", Tags: []string{"ai", "saas"}}
	// Both candidates overlap exactly half of the base tags.
	candidates := []domain.Idea{
		{ID: "second", Tags: []string{"ai"}},
		{ID: "first", Tags: []string{"saas"}},
	}

	out := r.Similar(&base, candidates, 10)
	if len(out) != 2 || out[0].Idea.ID != "second" || out[1].Idea.ID != "first" {
		t.Fatalf("tied similarity must keep candidate order, got %v", out)
	}
}

func TestSimilar_UsesMatrixAfterTraining(t *testing.T) {
	ds := trainableDataset()
	r := NewRecommender()
	if rep := r.Train(ds); !rep.Trained {
		t.Fatalf("train failed: %+v", rep)
	}

	out := r.Similar(&ds.Ideas[0], ds.Ideas, 3)
	if len(out) == 0 {
		t.Fatalf("expected similar ideas from the TF-IDF matrix")
	}
	// Other tech ideas share almost all their text, food ideas share none.
	if out[0].Idea.Domain != "technology" {
		t.Fatalf("nearest neighbour domain = %q; want technology", out[0].Idea.Domain)
	}
	if out[0].Score <= 0.5 {
		t.Fatalf("near-duplicate similarity surprisingly low: %v", out[0].Score)
	}
}

func TestExplain_Factors(t *testing.T) {
	r := NewRecommender()
	u := &domain.User{ID: "u1", SelectedDomains: []string{"health"}}

	rich := &domain.Idea{
		ID:          "i1",
		Domain:      "health",
		Tags:        []string{"a", "b", "c"},
		Description: string(make([]byte, 150)),
	}
	exp := r.Explain(u, rich, UserStats{})
	if len(exp.Factors) != 3 {
		t.Fatalf("expected all three factors, got %v", exp.Factors)
	}
	if exp.Factors[0].Name != "Domain Match" || exp.Factors[0].Impact != ImpactPositive {
		t.Fatalf("first factor = %+v; want a positive Domain Match", exp.Factors[0])
	}
	if exp.Factors[1].Name != "Rich Tags" || exp.Factors[2].Name != "Detailed Description" {
		t.Fatalf("factor order unexpected: %v", exp.Factors)
	}
	for _, f := range exp.Factors {
		if f.Description == "" {
			t.Fatalf("factor %q has no description", f.Name)
		}
	}

	plain := &domain.Idea{ID: "i2", Domain: "food"}
	exp = r.Explain(u, plain, UserStats{})
	if len(exp.Factors) != 1 {
		t.Fatalf("expected only the domain factor, got %v", exp.Factors)
	}
	if exp.Factors[0].Name != "Domain Mismatch" || exp.Factors[0].Impact != ImpactNegative {
		t.Fatalf("off-domain idea must yield a negative Domain Mismatch, got %+v", exp.Factors[0])
	}
	if exp.Method != MethodFallback {
		t.Fatalf("untrained explanation method = %q; want fallback", exp.Method)
	}
}

func TestInfo_BeforeAndAfterTraining(t *testing.T) {
	r := NewRecommender()
	info := r.Info()
	if info.Trained || info.FeatureCount != FeatureCount {
		t.Fatalf("untrained info unexpected: %+v", info)
	}

	ds := trainableDataset()
	if rep := r.Train(ds); !rep.Trained {
		t.Fatalf("train failed: %+v", rep)
	}
	info = r.Info()
	if !info.Trained || info.Samples != 20 {
		t.Fatalf("trained info unexpected: %+v", info)
	}
	if info.IdeaMatrixSize != len(ds.Ideas) {
		t.Fatalf("idea matrix size = %d; want %d", info.IdeaMatrixSize, len(ds.Ideas))
	}
	if info.UserMatrixSize != 2 {
		t.Fatalf("user matrix size = %d; want 2", info.UserMatrixSize)
	}
}

func TestRecommender_ConcurrentTrainAndPredict(t *testing.T) {
	ds := trainableDataset()
	r := NewRecommender()
	u := &ds.Users[0]

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Train(ds)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ds.Ideas {
				_ = r.Predict(u, &ds.Ideas[j], UserStats{Swipes: 10, Likes: 5})
				_ = r.Info()
			}
		}()
	}
	wg.Wait()
}
