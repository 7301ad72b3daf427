package recs

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// cosineMatrix builds the pairwise cosine similarity matrix for rows.
// Each row is L2-normalized first, so the product X * Xᵀ yields cosines
// directly. Returns nil when fewer than two rows are given; a 1x1 matrix
// carries no pairwise information.
func cosineMatrix(rows [][]float64) *mat.Dense {
	n := len(rows)
	if n < 2 {
		return nil
	}
	cols := len(rows[0])
	X := mat.NewDense(n, cols, nil)
	for i, r := range rows {
		X.SetRow(i, normalizeRow(r))
	}
	var S mat.Dense
	S.Mul(X, X.T())
	return &S
}

func normalizeRow(r []float64) []float64 {
	var norm float64
	for _, v := range r {
		norm += v * v
	}
	out := make([]float64, len(r))
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range r {
		out[i] = v / norm
	}
	return out
}

// tagOverlap scores two tag sets as |a ∩ b| / max(|a|, |b|, 1). It is the
// content-similarity fallback used when no TF-IDF matrix is available.
func tagOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	inter := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			inter++
		}
	}
	den := len(a)
	if len(b) > den {
		den = len(b)
	}
	if den < 1 {
		den = 1
	}
	return float64(inter) / float64(den)
}
