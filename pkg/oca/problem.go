// Package oca implements a cutting-plane (bundle) method for minimizing
// regularized convex risk functions of the form
//
//	J(w) = 0.5*||w||^2 + C*R(w)
//
// where R is convex, non-negative and possibly non-smooth. The solver only
// sees R through a loss/subgradient oracle, accumulates supporting
// hyperplanes of R, and solves a small restricted quadratic program over
// the accumulated planes each iteration. The restricted QP size grows with
// the iteration count, never with the dataset.
package oca

import "errors"

// ErrNumerical marks a failed restricted-QP solve: the inner solver could
// not close its KKT gap within its iteration budget, or the problem became
// ill-conditioned. Fatal for the call; the caller may retune and retry.
var ErrNumerical = errors.New("oca: restricted QP solve failed")

// Problem is the risk oracle the solver minimizes over.
type Problem interface {
	// Dim returns the dimension of the weight vector.
	Dim() int
	// C returns the regularization trade-off constant. Must be > 0.
	C() float64
	// Risk evaluates R at w, returning the risk value and a subgradient.
	// Risk values must be >= 0. The returned slice is owned by the caller.
	Risk(w []float64) (risk float64, grad []float64)
}

// Plane is one supporting hyperplane of R: the affine function G·w + B
// lower-bounds R everywhere and touches it at the point that generated it.
type Plane struct {
	G []float64
	B float64
}

// Status describes how an optimization run ended.
type Status int

const (
	// Converged means the duality gap dropped below the tolerance.
	Converged Status = iota
	// IterationLimit means the outer iteration cap was hit first. The best
	// weight vector found so far is still valid; this is a soft stop, not
	// a failure.
	IterationLimit
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationLimit:
		return "iteration limit reached"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Minimize call.
type Result struct {
	// W is the best weight vector found.
	W []float64
	// Objective is J(W), the best upper bound reached.
	Objective float64
	// Gap is the final duality gap (upper bound minus lower bound).
	Gap float64
	// Iterations is the number of outer iterations performed.
	Iterations int
	Status     Status
}
