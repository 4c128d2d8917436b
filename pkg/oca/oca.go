package oca

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Config holds the tunable knobs of the restricted-QP inner solver.
type Config struct {
	// SubEps is the KKT tolerance of the inner SMO solve.
	SubEps float64
	// SubMaxIterations caps the inner SMO steps per outer iteration.
	SubMaxIterations int
}

// DefaultConfig returns inner-solver settings that are tight enough for
// the duality-gap bookkeeping of the outer loop.
func DefaultConfig() Config {
	return Config{
		SubEps:           1e-12,
		SubMaxIterations: 50000,
	}
}

// Solver runs the cutting-plane outer loop.
type Solver struct {
	// Epsilon is the duality-gap stopping tolerance, expressed in risk
	// units: the loop stops once upper-lower <= Epsilon*C.
	Epsilon float64
	// MaxIterations caps the outer iterations.
	MaxIterations int
	// NonnegativeWeights adds the constraint w >= 0 to the restricted
	// master problem, so every iterate (and the result) stays in the
	// non-negative orthant throughout the optimization.
	NonnegativeWeights bool
	// Progress, when set, observes per-iteration bounds. It must not
	// mutate anything; it has no effect on the numeric result.
	Progress func(iter int, upper, lower, gap float64)

	Config Config
}

// NewSolver returns a Solver with the given gap tolerance and iteration
// cap and default inner-solver settings.
func NewSolver(epsilon float64, maxIterations int) *Solver {
	return &Solver{
		Epsilon:       epsilon,
		MaxIterations: maxIterations,
		Config:        DefaultConfig(),
	}
}

// Minimize runs the bundle method on p until the duality gap closes or the
// iteration cap is hit. The plane bundle is owned by this call and
// discarded when it returns.
func (s *Solver) Minimize(p Problem) (Result, error) {
	if s.Epsilon <= 0 {
		return Result{}, fmt.Errorf("oca: epsilon must be > 0, got %v", s.Epsilon)
	}
	if s.MaxIterations <= 0 {
		return Result{}, fmt.Errorf("oca: max iterations must be > 0, got %d", s.MaxIterations)
	}
	c := p.C()
	if c <= 0 {
		return Result{}, fmt.Errorf("oca: C must be > 0, got %v", c)
	}
	dim := p.Dim()

	// The bundle starts with a permanent zero plane. It encodes the
	// constraint xi >= 0, which is valid because risks are non-negative,
	// and it keeps the dual simplex non-empty before the first cut.
	planes := []Plane{{G: make([]float64, dim)}}
	alpha := []float64{c}
	q := [][]float64{{0}}

	w := make([]float64, dim)
	best := make([]float64, dim)
	upper := math.Inf(1)
	lower := math.Inf(-1)

	for iter := 1; iter <= s.MaxIterations; iter++ {
		if s.NonnegativeWeights {
			clampNonnegative(w)
		}

		risk, grad := p.Risk(w)
		obj := 0.5*floats.Dot(w, w) + c*risk
		if math.IsNaN(obj) || math.IsInf(obj, 0) {
			return Result{}, fmt.Errorf("%w: non-finite objective at iteration %d", ErrNumerical, iter)
		}
		if obj < upper {
			upper = obj
			copy(best, w)
		}

		// Supporting hyperplane of R at w: R(v) >= grad·v + offset.
		offset := risk - floats.Dot(grad, w)
		planes = append(planes, Plane{G: grad, B: offset})
		alpha = append(alpha, 0)
		growGram(q, planes)
		q = append(q, gramRow(planes))

		b := make([]float64, len(planes))
		for i, pl := range planes {
			b[i] = pl.B
		}
		var dual float64
		var err error
		if s.NonnegativeWeights {
			dual, err = solveDualQPNonneg(planes, q, b, alpha, s.Config.SubEps, s.Config.SubMaxIterations)
		} else {
			dual, err = solveDualQP(q, b, alpha, s.Config.SubEps, s.Config.SubMaxIterations)
		}
		if err != nil {
			return Result{}, fmt.Errorf("%w: iteration %d: %v", ErrNumerical, iter, err)
		}
		// The master optimum only grows as planes accumulate; keep the
		// bounds monotone even through inner-solver slack.
		if dual > lower {
			lower = dual
		}

		gap := upper - lower
		if s.Progress != nil {
			s.Progress(iter, upper, lower, gap)
		}
		if gap <= s.Epsilon*c {
			return Result{W: best, Objective: upper, Gap: gap, Iterations: iter, Status: Converged}, nil
		}

		// Next iterate from the dual solution: w = -sum(alpha_i * G_i).
		for i := range w {
			w[i] = 0
		}
		for i, pl := range planes {
			if alpha[i] != 0 {
				floats.AddScaled(w, -alpha[i], pl.G)
			}
		}
	}

	if s.NonnegativeWeights {
		clampNonnegative(best)
	}
	return Result{W: best, Objective: upper, Gap: upper - lower, Iterations: s.MaxIterations, Status: IterationLimit}, nil
}

// growGram appends the dot products against the newest plane to every
// existing row, keeping q square once the new row is added.
func growGram(q [][]float64, planes []Plane) {
	last := planes[len(planes)-1]
	for i := range q {
		q[i] = append(q[i], floats.Dot(planes[i].G, last.G))
	}
}

// gramRow builds the full Gram row of the newest plane.
func gramRow(planes []Plane) []float64 {
	last := planes[len(planes)-1]
	row := make([]float64, len(planes))
	for i, pl := range planes {
		row[i] = floats.Dot(pl.G, last.G)
	}
	return row
}

func clampNonnegative(w []float64) {
	for i, v := range w {
		if v < 0 {
			w[i] = 0
		}
	}
}
