package recs

import "math"

// StandardScaler standardizes feature columns to zero mean and unit variance.
// It must be fit on training rows only; scoring reuses the fitted statistics.
type StandardScaler struct {
	mean []float64
	std  []float64
}

// Fit computes per-column mean and standard deviation from rows. Columns with
// zero variance keep a std of 1 so Transform is an identity on them instead
// of dividing by zero.
func (s *StandardScaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	cols := len(rows[0])
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)

	for _, r := range rows {
		for j, v := range r {
			s.mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range s.mean {
		s.mean[j] /= n
	}
	for _, r := range rows {
		for j, v := range r {
			d := v - s.mean[j]
			s.std[j] += d * d
		}
	}
	for j := range s.std {
		s.std[j] = math.Sqrt(s.std[j] / n)
		if s.std[j] == 0 {
			s.std[j] = 1
		}
	}
}

// Transform returns a standardized copy of row. Calling Transform before Fit
// returns the row unchanged.
func (s *StandardScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	if len(s.mean) != len(row) {
		copy(out, row)
		return out
	}
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

// TransformAll standardizes every row.
func (s *StandardScaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = s.Transform(r)
	}
	return out
}
