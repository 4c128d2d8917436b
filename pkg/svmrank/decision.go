package svmrank

import "github.com/kittclouds/ranksvm/pkg/linalg"

// DecisionFunction is the learned linear scoring rule. Ranking is by raw
// score: A is predicted to outrank B iff Score(A) > Score(B). Training
// always produces Bias == 0; the field exists so downstream thresholding
// tools can share the type.
type DecisionFunction struct {
	W    []float64
	Bias float64
}

// Score returns w·x - bias.
func (f *DecisionFunction) Score(x linalg.Sample) float64 {
	return x.Dot(f.W) - f.Bias
}

// Dim returns the dimension of the weight vector.
func (f *DecisionFunction) Dim() int { return len(f.W) }
