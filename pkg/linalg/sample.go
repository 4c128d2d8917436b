// Package linalg provides the feature-vector types consumed by the ranking
// trainer. Dense and sparse backends share a narrow capability interface so
// callers never depend on the concrete representation.
package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Sample is a fixed-dimension feature vector. Implementations are treated as
// immutable once constructed.
type Sample interface {
	// Dim returns the dimension of the vector.
	Dim() int
	// Dot returns the inner product with a dense weight vector.
	// len(w) must be >= Dim().
	Dot(w []float64) float64
	// AddTo accumulates scale*sample into dst. len(dst) must be >= Dim().
	AddTo(dst []float64, scale float64)
}

// Dense is a plain dense vector.
type Dense []float64

func (d Dense) Dim() int { return len(d) }

func (d Dense) Dot(w []float64) float64 {
	return floats.Dot(d, w[:len(d)])
}

func (d Dense) AddTo(dst []float64, scale float64) {
	floats.AddScaled(dst[:len(d)], scale, d)
}

// Sparse stores only the nonzero entries of a vector.
type Sparse struct {
	indices []int
	values  []float64
	dim     int
}

// NewSparse builds a sparse sample of the given dimension. Indices must be
// strictly increasing and within [0, dim).
func NewSparse(dim int, indices []int, values []float64) (*Sparse, error) {
	if len(indices) != len(values) {
		return nil, fmt.Errorf("linalg: %d indices but %d values", len(indices), len(values))
	}
	prev := -1
	for _, idx := range indices {
		if idx <= prev {
			return nil, fmt.Errorf("linalg: indices not strictly increasing at %d", idx)
		}
		if idx >= dim {
			return nil, fmt.Errorf("linalg: index %d out of range for dim %d", idx, dim)
		}
		prev = idx
	}
	return &Sparse{
		indices: append([]int(nil), indices...),
		values:  append([]float64(nil), values...),
		dim:     dim,
	}, nil
}

func (s *Sparse) Dim() int { return s.dim }

func (s *Sparse) Dot(w []float64) float64 {
	var sum float64
	for i, idx := range s.indices {
		sum += s.values[i] * w[idx]
	}
	return sum
}

func (s *Sparse) AddTo(dst []float64, scale float64) {
	for i, idx := range s.indices {
		dst[idx] += scale * s.values[i]
	}
}

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return len(s.indices) }

// Dim returns the common dimension of a set of samples.
// Returns an error if the set is empty or dimensions disagree.
func Dim(samples []Sample) (int, error) {
	n := -1
	for _, s := range samples {
		if n < 0 {
			n = s.Dim()
			continue
		}
		if s.Dim() != n {
			return 0, fmt.Errorf("linalg: vector dims: found %d and %d", n, s.Dim())
		}
	}
	if n < 0 {
		return 0, fmt.Errorf("linalg: no vectors found")
	}
	return n, nil
}
