package recs

import (
	"math"
	"math/rand"
)

// randomForest averages the leaf probabilities of bootstrap-trained
// regression trees over 0/1 targets. Each split considers a sqrt(d) feature
// subsample. The seed is fixed so two trainings over the same data produce
// the same forest.
type randomForest struct {
	trees  []*treeNode
	nTrees int
	params treeParams
	seed   int64
}

func newRandomForest() *randomForest {
	return &randomForest{
		nTrees: 50,
		params: treeParams{maxDepth: 6, minLeaf: 2},
		seed:   42,
	}
}

func (m *randomForest) kind() string { return KindRandomForest }

func (m *randomForest) fit(X [][]float64, y []int) {
	if len(X) == 0 {
		return
	}
	target := make([]float64, len(y))
	for i, v := range y {
		target[i] = float64(v)
	}

	p := m.params
	p.featuresPerSplit = int(math.Sqrt(float64(len(X[0]))))
	if p.featuresPerSplit < 1 {
		p.featuresPerSplit = 1
	}

	rng := rand.New(rand.NewSource(m.seed))
	m.trees = make([]*treeNode, 0, m.nTrees)
	for t := 0; t < m.nTrees; t++ {
		idx := make([]int, len(X))
		for i := range idx {
			idx[i] = rng.Intn(len(X))
		}
		m.trees = append(m.trees, buildTree(X, target, idx, 0, p, rng))
	}
}

func (m *randomForest) predictProba(x []float64) float64 {
	if len(m.trees) == 0 {
		return 0.5
	}
	var sum float64
	for _, t := range m.trees {
		sum += t.predict(x)
	}
	p := sum / float64(len(m.trees))
	return clamp01(p)
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
