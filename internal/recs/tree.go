package recs

import (
	"math/rand"
	"sort"
)

// treeParams bounds a single regression tree. featuresPerSplit limits the
// candidate feature subset at each split (0 means all features).
type treeParams struct {
	maxDepth         int
	minLeaf          int
	featuresPerSplit int
}

// treeNode is one node of a binary regression tree over dense rows. Leaves
// hold the mean target of the rows that reached them; with 0/1 targets that
// mean is a probability.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

func (t *treeNode) predict(x []float64) float64 {
	n := t
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// buildTree grows a variance-minimizing regression tree over the rows whose
// indices are listed in idx. rng drives the per-split feature subsample and
// must be deterministic for reproducible training.
func buildTree(X [][]float64, target []float64, idx []int, depth int, p treeParams, rng *rand.Rand) *treeNode {
	if depth >= p.maxDepth || len(idx) < 2*p.minLeaf || pure(target, idx) {
		return &treeNode{leaf: true, value: meanAt(target, idx)}
	}

	feat, thr, ok := bestSplit(X, target, idx, p, rng)
	if !ok {
		return &treeNode{leaf: true, value: meanAt(target, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < p.minLeaf || len(right) < p.minLeaf {
		return &treeNode{leaf: true, value: meanAt(target, idx)}
	}
	return &treeNode{
		feature:   feat,
		threshold: thr,
		left:      buildTree(X, target, left, depth+1, p, rng),
		right:     buildTree(X, target, right, depth+1, p, rng),
	}
}

// bestSplit scans candidate (feature, threshold) pairs and returns the one
// with the lowest weighted child variance. Thresholds are midpoints between
// consecutive distinct values.
func bestSplit(X [][]float64, target []float64, idx []int, p treeParams, rng *rand.Rand) (int, float64, bool) {
	dim := len(X[idx[0]])
	feats := make([]int, dim)
	for j := range feats {
		feats[j] = j
	}
	if p.featuresPerSplit > 0 && p.featuresPerSplit < dim {
		rng.Shuffle(dim, func(a, b int) { feats[a], feats[b] = feats[b], feats[a] })
		feats = feats[:p.featuresPerSplit]
		sort.Ints(feats)
	}

	bestScore := -1.0
	bestFeat, bestThr := -1, 0.0
	vals := make([]float64, 0, len(idx))

	for _, f := range feats {
		vals = vals[:0]
		for _, i := range idx {
			vals = append(vals, X[i][f])
		}
		sort.Float64s(vals)

		for k := 1; k < len(vals); k++ {
			if vals[k] == vals[k-1] {
				continue
			}
			thr := (vals[k] + vals[k-1]) / 2
			score := splitCost(X, target, idx, f, thr)
			if score < 0 {
				continue
			}
			if bestScore < 0 || score < bestScore {
				bestScore, bestFeat, bestThr = score, f, thr
			}
		}
	}
	return bestFeat, bestThr, bestFeat >= 0
}

// splitCost is the size-weighted sum of child variances, or -1 for a split
// that leaves a side empty.
func splitCost(X [][]float64, target []float64, idx []int, feat int, thr float64) float64 {
	var lSum, lSq, rSum, rSq float64
	var lN, rN int
	for _, i := range idx {
		v := target[i]
		if X[i][feat] <= thr {
			lSum += v
			lSq += v * v
			lN++
		} else {
			rSum += v
			rSq += v * v
			rN++
		}
	}
	if lN == 0 || rN == 0 {
		return -1
	}
	lVar := lSq - lSum*lSum/float64(lN)
	rVar := rSq - rSum*rSum/float64(rN)
	return lVar + rVar
}

func meanAt(target []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += target[i]
	}
	return sum / float64(len(idx))
}

func pure(target []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if target[i] != target[idx[0]] {
			return false
		}
	}
	return true
}
