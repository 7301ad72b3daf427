package recs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// MinTrainingSamples is the smallest swipe corpus a training run accepts.
const MinTrainingSamples = 10

// Training failure reasons reported when no model can be produced. A failed
// run leaves any previously trained model in place.
const (
	ReasonInsufficientData = "insufficient_data"
	ReasonSingleClass      = "single_class_data"
)

// Prediction methods.
const (
	MethodEnsemble = "ensemble_ml"
	MethodFallback = "fallback"
)

// Confidence bands derived from the distance of a probability to 0.5.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Dataset is the training snapshot assembled by the service layer. Swipes
// reference users and ideas by ID; rows whose references are missing from
// the snapshot are skipped.
type Dataset struct {
	Users  []domain.User
	Ideas  []domain.Idea
	Swipes []domain.Swipe
}

// TrainingReport describes the outcome of one training run.
type TrainingReport struct {
	Trained      bool      `json:"trained"`
	Reason       string    `json:"reason,omitempty"`
	Samples      int       `json:"samples"`
	PositiveRate float64   `json:"positive_rate"`
	ModelKind    string    `json:"model_kind,omitempty"`
	Metrics      Metrics   `json:"metrics"`
	TrainedAt    time.Time `json:"trained_at"`
}

// Prediction is one like-probability estimate for a (user, idea) pair.
type Prediction struct {
	Probability float64 `json:"probability"`
	Confidence  string  `json:"confidence"`
	Method      string  `json:"method"`
}

// ScoredIdea pairs an idea with its ranking score.
type ScoredIdea struct {
	Idea  domain.Idea `json:"idea"`
	Score float64     `json:"score"`
}

// Factor impacts.
const (
	ImpactPositive = "positive"
	ImpactNegative = "negative"
)

// Factor is one concrete attribute that pushed a prediction up or down.
type Factor struct {
	Name        string `json:"name"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

// Explanation is a human-readable account of one prediction.
type Explanation struct {
	Prediction
	Factors []Factor `json:"factors"`
}

// ModelInfo is a read-only snapshot of the current model state.
type ModelInfo struct {
	Trained        bool      `json:"trained"`
	ModelKind      string    `json:"model_kind,omitempty"`
	TrainedAt      time.Time `json:"trained_at,omitempty"`
	Samples        int       `json:"samples"`
	FeatureCount   int       `json:"feature_count"`
	IdeaMatrixSize int       `json:"idea_matrix_size"`
	UserMatrixSize int       `json:"user_matrix_size"`
	Metrics        Metrics   `json:"metrics"`
}

// model is one immutable training artifact. The Recommender swaps the whole
// struct at once so readers always see a consistent classifier, scaler, and
// similarity state.
type model struct {
	clf       classifier
	scaler    *StandardScaler
	vocab     *DomainVocabulary
	metrics   Metrics
	samples   int
	trainedAt time.Time

	ideaSim   *mat.Dense
	ideaIndex map[string]int
	userSim   *mat.Dense
	userIndex map[string]int
}

// Recommender serves like-probability predictions, ranked candidates, and
// content similarity from the latest trained model. All methods are safe for
// concurrent use: Train takes the write lock, everything else reads.
type Recommender struct {
	mu sync.RWMutex
	m  *model
}

func NewRecommender() *Recommender {
	return &Recommender{}
}

// Train builds a fresh model from the dataset and atomically replaces the
// current one. The heavy lifting happens before the lock is taken, so
// concurrent readers keep serving the previous model during training.
//
// A dataset with fewer than MinTrainingSamples usable swipes, or with only
// one swipe outcome, produces a non-trained report and leaves the previous
// model untouched.
func (r *Recommender) Train(ds Dataset) TrainingReport {
	users := make(map[string]*domain.User, len(ds.Users))
	for i := range ds.Users {
		users[ds.Users[i].ID] = &ds.Users[i]
	}
	ideas := make(map[string]*domain.Idea, len(ds.Ideas))
	for i := range ds.Ideas {
		ideas[ds.Ideas[i].ID] = &ds.Ideas[i]
	}
	stats := swipeStats(ds.Swipes)
	vocab := FitDomainVocabulary(ds.Ideas)

	var X [][]float64
	var y []int
	var pos int
	for _, sw := range ds.Swipes {
		u, okU := users[sw.UserID]
		idea, okI := ideas[sw.IdeaID]
		if !okU || !okI {
			continue
		}
		X = append(X, Features(u, idea, stats[sw.UserID], vocab))
		label := 0
		if sw.Liked {
			label = 1
			pos++
		}
		y = append(y, label)
	}

	report := TrainingReport{Samples: len(X), TrainedAt: time.Now().UTC()}
	if len(X) > 0 {
		report.PositiveRate = float64(pos) / float64(len(X))
	}
	if len(X) < MinTrainingSamples {
		report.Reason = ReasonInsufficientData
		return report
	}
	if pos == 0 || pos == len(X) {
		report.Reason = ReasonSingleClass
		return report
	}

	trainIdx, testIdx := splitDataset(len(X))
	scaler := &StandardScaler{}
	trainX := pick(X, trainIdx)
	scaler.Fit(trainX)
	trainX = scaler.TransformAll(trainX)
	trainY := pickInt(y, trainIdx)
	testX := scaler.TransformAll(pick(X, testIdx))
	testY := pickInt(y, testIdx)

	var best classifier
	var bestMetrics Metrics
	for _, c := range newClassifiers() {
		c.fit(trainX, trainY)
		m := evaluate(c, testX, testY)
		if best == nil || betterModel(m, bestMetrics) {
			best, bestMetrics = c, m
		}
	}

	next := &model{
		clf:       best,
		scaler:    scaler,
		vocab:     vocab,
		metrics:   bestMetrics,
		samples:   len(X),
		trainedAt: report.TrainedAt,
	}
	next.ideaSim, next.ideaIndex = ideaSimilarity(ds.Ideas)
	next.userSim, next.userIndex = userSimilarity(ds, users, ideas, stats)

	r.mu.Lock()
	r.m = next
	r.mu.Unlock()

	report.Trained = true
	report.ModelKind = best.kind()
	report.Metrics = bestMetrics
	return report
}

// Predict estimates the like probability for one (user, idea) pair. Without
// a trained model it returns the neutral fallback.
func (r *Recommender) Predict(user *domain.User, idea *domain.Idea, stats UserStats) Prediction {
	r.mu.RLock()
	m := r.m
	r.mu.RUnlock()

	if m == nil {
		return NeutralPrediction()
	}
	p := m.clf.predictProba(m.scaler.Transform(Features(user, idea, stats, m.vocab)))
	return Prediction{Probability: p, Confidence: confidenceFor(p), Method: MethodEnsemble}
}

// NeutralPrediction is the answer served when no model is available or a
// pair cannot be scored.
func NeutralPrediction() Prediction {
	return Prediction{Probability: 0.5, Confidence: ConfidenceLow, Method: MethodFallback}
}

// Rank scores the candidate ideas for a user and returns up to limit of
// them, best first. The sort is stable, so equal scores keep the candidates'
// original order.
func (r *Recommender) Rank(user *domain.User, candidates []domain.Idea, stats UserStats, limit int) []ScoredIdea {
	scored := make([]ScoredIdea, 0, len(candidates))
	for i := range candidates {
		p := r.Predict(user, &candidates[i], stats)
		scored = append(scored, ScoredIdea{Idea: candidates[i], Score: p.Probability})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}

// tagOverlapThreshold filters noise matches out of the fallback branch.
const tagOverlapThreshold = 0.2

// Similar returns up to limit ideas most similar to the given one, drawn
// from candidates. Ideas covered by the trained TF-IDF matrix are scored by
// cosine similarity; everything else falls back to tag overlap, which must
// clear tagOverlapThreshold to count.
func (r *Recommender) Similar(idea *domain.Idea, candidates []domain.Idea, limit int) []ScoredIdea {
	r.mu.RLock()
	m := r.m
	r.mu.RUnlock()

	var row = -1
	if m != nil && m.ideaSim != nil {
		if i, ok := m.ideaIndex[idea.ID]; ok {
			row = i
		}
	}

	scored := make([]ScoredIdea, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if c.ID == idea.ID {
			continue
		}
		var score float64
		if row >= 0 {
			if j, ok := m.ideaIndex[c.ID]; ok {
				score = m.ideaSim.At(row, j)
			} else if s := tagOverlap(idea.Tags, c.Tags); s > tagOverlapThreshold {
				score = s
			}
		} else if s := tagOverlap(idea.Tags, c.Tags); s > tagOverlapThreshold {
			score = s
		}
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredIdea{Idea: candidates[i], Score: score})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}

// Explain returns the prediction for a pair together with the concrete
// attributes that drove it. The domain always contributes a factor, positive
// or negative, so the list is never empty.
func (r *Recommender) Explain(user *domain.User, idea *domain.Idea, stats UserStats) Explanation {
	p := r.Predict(user, idea, stats)
	var factors []Factor
	if domainSelected(user, idea.Domain) {
		factors = append(factors, Factor{
			Name:        "Domain Match",
			Impact:      ImpactPositive,
			Description: fmt.Sprintf("this idea is in %q, one of your selected domains", idea.Domain),
		})
	} else {
		factors = append(factors, Factor{
			Name:        "Domain Mismatch",
			Impact:      ImpactNegative,
			Description: fmt.Sprintf("this idea is in %q, which is not among your selected domains", idea.Domain),
		})
	}
	if len(idea.Tags) >= 3 {
		factors = append(factors, Factor{
			Name:        "Rich Tags",
			Impact:      ImpactPositive,
			Description: fmt.Sprintf("this idea carries %d tags, giving it a clear profile", len(idea.Tags)),
		})
	}
	if len(idea.Description) > 100 {
		factors = append(factors, Factor{
			Name:        "Detailed Description",
			Impact:      ImpactPositive,
			Description: "this idea has a comprehensive description",
		})
	}
	return Explanation{Prediction: p, Factors: factors}
}

// Info snapshots the current model state for diagnostics endpoints.
func (r *Recommender) Info() ModelInfo {
	r.mu.RLock()
	m := r.m
	r.mu.RUnlock()

	info := ModelInfo{FeatureCount: FeatureCount}
	if m == nil {
		return info
	}
	info.Trained = true
	info.ModelKind = m.clf.kind()
	info.TrainedAt = m.trainedAt
	info.Samples = m.samples
	info.Metrics = m.metrics
	info.IdeaMatrixSize = len(m.ideaIndex)
	if m.userSim != nil {
		info.UserMatrixSize = len(m.userIndex)
	}
	return info
}

// ----------------------------------------------------------------------------
// Training helpers

func swipeStats(swipes []domain.Swipe) map[string]UserStats {
	out := make(map[string]UserStats)
	for _, sw := range swipes {
		s := out[sw.UserID]
		s.Swipes++
		if sw.Liked {
			s.Likes++
		}
		out[sw.UserID] = s
	}
	return out
}

// ideaSimilarity builds the TF-IDF cosine matrix over all ideas. The matrix
// is nil when fewer than two ideas exist.
func ideaSimilarity(ideas []domain.Idea) (*mat.Dense, map[string]int) {
	docs := make([]string, len(ideas))
	index := make(map[string]int, len(ideas))
	for i := range ideas {
		docs[i] = ideaDocument(&ideas[i])
		index[ideas[i].ID] = i
	}
	vec := &Vectorizer{}
	vec.Fit(docs)
	rows := make([][]float64, len(docs))
	for i, d := range docs {
		rows[i] = vec.Transform(d)
	}
	sim := cosineMatrix(rows)
	if sim == nil {
		return nil, nil
	}
	return sim, index
}

func ideaDocument(idea *domain.Idea) string {
	return idea.Title + " " + idea.Description + " " + strings.Join(idea.Tags, " ")
}

// userSimilarity builds the behavioral cosine matrix over users who have
// swiped at least once. Rows are (like ratio, average tags per liked idea,
// share of likes inside selected domains), standardized before the cosine.
// Fewer than two eligible users yields no matrix.
func userSimilarity(ds Dataset, users map[string]*domain.User, ideas map[string]*domain.Idea, stats map[string]UserStats) (*mat.Dense, map[string]int) {
	type likeAgg struct {
		tags     int
		inDomain int
	}
	agg := make(map[string]likeAgg)
	for _, sw := range ds.Swipes {
		if !sw.Liked {
			continue
		}
		idea, ok := ideas[sw.IdeaID]
		if !ok {
			continue
		}
		a := agg[sw.UserID]
		a.tags += len(idea.Tags)
		if u, ok := users[sw.UserID]; ok && domainSelected(u, idea.Domain) {
			a.inDomain++
		}
		agg[sw.UserID] = a
	}

	var rows [][]float64
	index := make(map[string]int)
	for i := range ds.Users {
		u := &ds.Users[i]
		s, ok := stats[u.ID]
		if !ok || s.Swipes == 0 {
			continue
		}
		a := agg[u.ID]
		var avgTags, inDomainRatio float64
		if s.Likes > 0 {
			avgTags = float64(a.tags) / float64(s.Likes)
			inDomainRatio = float64(a.inDomain) / float64(s.Likes)
		}
		index[u.ID] = len(rows)
		rows = append(rows, []float64{s.LikeRatio(), avgTags, inDomainRatio})
	}
	if len(rows) < 2 {
		return nil, nil
	}

	scaler := &StandardScaler{}
	scaler.Fit(rows)
	sim := cosineMatrix(scaler.TransformAll(rows))
	if sim == nil {
		return nil, nil
	}
	return sim, index
}

func confidenceFor(p float64) string {
	d := p - 0.5
	if d < 0 {
		d = -d
	}
	switch {
	case d > 0.3:
		return ConfidenceHigh
	case d > 0.1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func pick(rows [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

func pickInt(vals []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = vals[j]
	}
	return out
}
