package recs

import (
	"math"
	"math/rand"
)

// gradientBoosting fits shallow regression trees to the logistic-loss
// pseudo-residuals, starting from the log-odds of the positive rate. The
// staged sum of tree outputs is squashed through a sigmoid at predict time.
type gradientBoosting struct {
	trees  []*treeNode
	base   float64
	rounds int
	rate   float64
	params treeParams
	seed   int64
}

func newGradientBoosting() *gradientBoosting {
	return &gradientBoosting{
		rounds: 100,
		rate:   0.1,
		params: treeParams{maxDepth: 2, minLeaf: 2},
		seed:   42,
	}
}

func (m *gradientBoosting) kind() string { return KindGradientBoosting }

func (m *gradientBoosting) fit(X [][]float64, y []int) {
	if len(X) == 0 {
		return
	}
	var pos int
	for _, v := range y {
		pos += v
	}
	rate := float64(pos) / float64(len(y))
	// Log-odds prior; epsilon keeps all-one / all-zero targets finite.
	const eps = 1e-6
	m.base = math.Log((rate + eps) / (1 - rate + eps))

	scores := make([]float64, len(X))
	for i := range scores {
		scores[i] = m.base
	}

	residual := make([]float64, len(X))
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}

	rng := rand.New(rand.NewSource(m.seed))
	m.trees = make([]*treeNode, 0, m.rounds)
	for r := 0; r < m.rounds; r++ {
		for i := range X {
			residual[i] = float64(y[i]) - sigmoid(scores[i])
		}
		t := buildTree(X, residual, idx, 0, m.params, rng)
		m.trees = append(m.trees, t)
		for i, x := range X {
			scores[i] += m.rate * t.predict(x)
		}
	}
}

func (m *gradientBoosting) predictProba(x []float64) float64 {
	score := m.base
	for _, t := range m.trees {
		score += m.rate * t.predict(x)
	}
	return sigmoid(score)
}
