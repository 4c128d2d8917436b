package oca

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hingeProblem is the 1-D toy problem J(w) = 0.5*w^2 + C*max(0, 1-w[0]).
// Its minimizer is w[0] = min(C, 1).
type hingeProblem struct {
	c float64
	// sign flips the hinge to max(0, 1+w[0]) so the unconstrained
	// optimum is negative.
	flipped bool
}

func (p hingeProblem) Dim() int   { return 1 }
func (p hingeProblem) C() float64 { return p.c }

func (p hingeProblem) Risk(w []float64) (float64, []float64) {
	x := w[0]
	if p.flipped {
		x = -x
	}
	margin := 1 - x
	if margin <= 0 {
		return 0, []float64{0}
	}
	g := -1.0
	if p.flipped {
		g = 1.0
	}
	return margin, []float64{g}
}

func TestMinimizeHinge(t *testing.T) {
	for _, c := range []float64{0.25, 0.5, 1, 2, 10} {
		s := NewSolver(1e-6, 1000)
		res, err := s.Minimize(hingeProblem{c: c})
		require.NoError(t, err)
		assert.Equal(t, Converged, res.Status)

		want := math.Min(c, 1)
		assert.InDelta(t, want, res.W[0], 1e-3, "C=%v", c)

		wantObj := 0.5*want*want + c*math.Max(0, 1-want)
		assert.InDelta(t, wantObj, res.Objective, 1e-3, "C=%v", c)
	}
}

func TestMinimizeBoundsAreMonotone(t *testing.T) {
	var uppers, lowers []float64
	s := NewSolver(1e-9, 1000)
	s.Progress = func(iter int, upper, lower, gap float64) {
		uppers = append(uppers, upper)
		lowers = append(lowers, lower)
	}
	_, err := s.Minimize(hingeProblem{c: 3})
	require.NoError(t, err)
	require.Greater(t, len(uppers), 1)

	for i := 1; i < len(uppers); i++ {
		assert.LessOrEqual(t, uppers[i], uppers[i-1], "upper bound rose at iter %d", i)
		assert.GreaterOrEqual(t, lowers[i], lowers[i-1], "lower bound fell at iter %d", i)
	}
}

func TestMinimizeNonnegativeWeights(t *testing.T) {
	// The unconstrained minimizer is w[0] = -1; with w >= 0 the best
	// feasible point is the origin, and the constrained master's own
	// lower bound lets the gap close there.
	s := NewSolver(1e-6, 100)
	s.NonnegativeWeights = true
	res, err := s.Minimize(hingeProblem{c: 1, flipped: true})
	require.NoError(t, err)

	assert.Equal(t, Converged, res.Status)
	for i, v := range res.W {
		assert.GreaterOrEqual(t, v, 0.0, "component %d went negative", i)
	}
	assert.InDelta(t, 0.0, res.W[0], 1e-9)

	// Unconstrained the same problem walks negative.
	s = NewSolver(1e-6, 100)
	res, err = s.Minimize(hingeProblem{c: 1, flipped: true})
	require.NoError(t, err)
	assert.Less(t, res.W[0], 0.0)
}

func TestMinimizeIterationLimitIsSoftStop(t *testing.T) {
	s := NewSolver(1e-12, 1)
	res, err := s.Minimize(hingeProblem{c: 2})
	require.NoError(t, err, "hitting the cap must not be an error")

	assert.Equal(t, IterationLimit, res.Status)
	assert.Equal(t, 1, res.Iterations)
	assert.Len(t, res.W, 1)
	assert.Greater(t, res.Gap, 0.0)
}

func TestMinimizeDeterministic(t *testing.T) {
	run := func() Result {
		s := NewSolver(1e-8, 500)
		res, err := s.Minimize(hingeProblem{c: 0.7})
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	require.Equal(t, len(a.W), len(b.W))
	for i := range a.W {
		assert.Equal(t, a.W[i], b.W[i], "weight %d differs between runs", i)
	}
	assert.Equal(t, a.Iterations, b.Iterations)
	assert.Equal(t, a.Objective, b.Objective)
}

func TestMinimizeRejectsBadConfig(t *testing.T) {
	s := NewSolver(0, 100)
	_, err := s.Minimize(hingeProblem{c: 1})
	assert.Error(t, err)

	s = NewSolver(1e-3, 0)
	_, err = s.Minimize(hingeProblem{c: 1})
	assert.Error(t, err)

	s = NewSolver(1e-3, 100)
	_, err = s.Minimize(hingeProblem{c: 0})
	assert.Error(t, err)
}

func TestSolveDualQPSimplex(t *testing.T) {
	// Two planes, G0 = 0 (slack), G1 = [-1] with B1 = 1, C = 2:
	// minimize over the simplex a0+a1 = 2 of 0.5*a1^2 - a1,
	// optimum a1 = 1 giving w = -a1*G1 = [1].
	q := [][]float64{{0, 0}, {0, 1}}
	b := []float64{0, 1}
	a := []float64{2, 0}

	obj, err := solveDualQP(q, b, a, 1e-12, 10000)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, a[1], 1e-9)
	assert.InDelta(t, 1.0, a[0], 1e-9)
	// dual objective b'a - 0.5 a'Qa = 1 - 0.5 = 0.5
	assert.InDelta(t, 0.5, obj, 1e-9)
}
