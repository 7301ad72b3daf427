package recs

import (
	"math/rand"
	"sort"
)

// Metrics is the holdout evaluation of one trained classifier.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	ROCAUC    float64 `json:"roc_auc"`
}

// splitDataset shuffles row indices with a fixed seed and carves off the
// last 20% as the holdout set. Both halves are non-empty whenever n >= 2.
func splitDataset(n int) (train, test []int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(n, func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

	cut := n - n/5
	if cut >= n {
		cut = n - 1
	}
	if cut < 1 {
		cut = 1
	}
	return idx[:cut], idx[cut:]
}

// evaluate scores a fitted classifier on the holdout rows at the usual 0.5
// decision threshold, plus a rank-based ROC AUC over the raw probabilities.
func evaluate(m classifier, X [][]float64, y []int) Metrics {
	var tp, fp, tn, fn int
	probs := make([]float64, len(X))
	for i, x := range X {
		p := m.predictProba(x)
		probs[i] = p
		pred := 0
		if p >= 0.5 {
			pred = 1
		}
		switch {
		case pred == 1 && y[i] == 1:
			tp++
		case pred == 1 && y[i] == 0:
			fp++
		case pred == 0 && y[i] == 0:
			tn++
		default:
			fn++
		}
	}

	var out Metrics
	total := tp + fp + tn + fn
	if total > 0 {
		out.Accuracy = float64(tp+tn) / float64(total)
	}
	if tp+fp > 0 {
		out.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		out.Recall = float64(tp) / float64(tp+fn)
	}
	if out.Precision+out.Recall > 0 {
		out.F1 = 2 * out.Precision * out.Recall / (out.Precision + out.Recall)
	}
	out.ROCAUC = rocAUC(probs, y)
	return out
}

// rocAUC computes the area under the ROC curve via the rank-sum identity,
// averaging ranks across tied probabilities. Returns 0.5 when the holdout is
// single-class (AUC is undefined there).
func rocAUC(probs []float64, y []int) float64 {
	type pair struct {
		p float64
		y int
	}
	pairs := make([]pair, len(probs))
	var pos, neg int
	for i, p := range probs {
		pairs[i] = pair{p, y[i]}
		if y[i] == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.5
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].p < pairs[b].p })

	var rankSum float64
	i := 0
	for i < len(pairs) {
		j := i
		for j < len(pairs) && pairs[j].p == pairs[i].p {
			j++
		}
		avgRank := float64(i+j+1) / 2 // 1-based average rank of the tie group
		for k := i; k < j; k++ {
			if pairs[k].y == 1 {
				rankSum += avgRank
			}
		}
		i = j
	}
	return (rankSum - float64(pos)*float64(pos+1)/2) / (float64(pos) * float64(neg))
}

// betterModel reports whether candidate metrics a beat b under the selection
// rule: higher accuracy wins, equal accuracy falls through to higher F1.
func betterModel(a, b Metrics) bool {
	if a.Accuracy != b.Accuracy {
		return a.Accuracy > b.Accuracy
	}
	return a.F1 > b.F1
}
