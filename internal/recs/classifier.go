package recs

import "math"

// Model kinds, in evaluation order. The order doubles as the final
// tie-breaker during model selection so training is fully deterministic.
const (
	KindLogistic         = "logistic_regression"
	KindRandomForest     = "random_forest"
	KindGradientBoosting = "gradient_boosting"
)

// classifier is a binary probabilistic classifier over standardized feature
// rows. Implementations are trained once and then read-only.
type classifier interface {
	fit(X [][]float64, y []int)
	predictProba(x []float64) float64
	kind() string
}

func newClassifiers() []classifier {
	return []classifier{
		newLogistic(),
		newRandomForest(),
		newGradientBoosting(),
	}
}

// ----------------------------------------------------------------------------
// Logistic regression

// logistic is a batch gradient-descent logistic regression:
// p = sigmoid(bias + w · x).
type logistic struct {
	weights []float64
	bias    float64
	rate    float64
	epochs  int
}

func newLogistic() *logistic {
	return &logistic{rate: 0.1, epochs: 300}
}

func (m *logistic) kind() string { return KindLogistic }

func (m *logistic) fit(X [][]float64, y []int) {
	if len(X) == 0 {
		return
	}
	dim := len(X[0])
	m.weights = make([]float64, dim)
	m.bias = 0

	n := float64(len(X))
	grad := make([]float64, dim)
	for epoch := 0; epoch < m.epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64
		for i, x := range X {
			err := m.predictProba(x) - float64(y[i])
			for j, v := range x {
				grad[j] += err * v
			}
			gradBias += err
		}
		for j := range m.weights {
			m.weights[j] -= m.rate * grad[j] / n
		}
		m.bias -= m.rate * gradBias / n
	}
}

func (m *logistic) predictProba(x []float64) float64 {
	z := m.bias
	for j, w := range m.weights {
		if j < len(x) {
			z += w * x[j]
		}
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
