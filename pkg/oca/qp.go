package oca

import (
	"math"
)

// solveDualQP solves the dual of the restricted master problem:
//
//	minimize   0.5*a'Qa - b'a
//	subject to a >= 0, sum(a) == c
//
// where Q[i][j] = G_i·G_j over the bundle planes and b holds their offsets.
// The primal weight vector is recovered as w = -sum(a_i * G_i) and the dual
// objective b'a - 0.5*a'Qa is a lower bound on the master optimum.
//
// Solved by SMO-style pairwise coordinate descent: each step moves mass
// from the active variable with the largest gradient to the variable with
// the smallest, which preserves both constraints. Pair selection breaks
// ties by lowest index so the solve is deterministic.
//
// a is updated in place and must already satisfy the constraints (warm
// start from the previous outer iteration).
func solveDualQP(q [][]float64, b []float64, a []float64, tau float64, maxIter int) (float64, error) {
	k := len(a)

	// grad_i = (Qa)_i - b_i
	grad := make([]float64, k)
	for i := 0; i < k; i++ {
		s := -b[i]
		qi := q[i]
		for j := 0; j < k; j++ {
			s += qi[j] * a[j]
		}
		grad[i] = s
	}

	for iter := 0; iter < maxIter; iter++ {
		// Largest gradient among variables that can decrease, smallest
		// gradient overall (it can always increase).
		ip, im := 0, -1
		for i := 1; i < k; i++ {
			if grad[i] < grad[ip] {
				ip = i
			}
		}
		for i := 0; i < k; i++ {
			if a[i] > 0 && (im < 0 || grad[i] > grad[im]) {
				im = i
			}
		}
		if im < 0 {
			return 0, ErrNumerical
		}

		kkt := grad[im] - grad[ip]
		if kkt <= tau {
			return dualObjective(q, b, a), nil
		}

		// Unconstrained optimal transfer along e_ip - e_im, clamped so
		// a_im stays non-negative.
		denom := q[im][im] - 2*q[im][ip] + q[ip][ip]
		delta := a[im]
		if denom > 0 {
			if d := kkt / denom; d < delta {
				delta = d
			}
		}
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			return 0, ErrNumerical
		}

		a[im] -= delta
		a[ip] += delta
		for i := 0; i < k; i++ {
			grad[i] += delta * (q[i][ip] - q[i][im])
		}
	}
	return 0, ErrNumerical
}

// solveDualQPNonneg solves the same restricted master with the extra
// primal constraint w >= 0. Eliminating w from the Lagrangian gives
//
//	w(a) = max(0, -sum(a_i * G_i))
//
// componentwise, and the dual objective b'a - 0.5*||w(a)||^2 over the same
// simplex. The clamp makes the dual piecewise quadratic; the unclamped
// Gram curvature is an upper bound on the true curvature along any
// transfer direction, so the clamped SMO step below still descends.
// Keeping the constraint inside the QP preserves non-negativity throughout
// the optimization instead of clamping after the fact.
func solveDualQPNonneg(planes []Plane, q [][]float64, b []float64, a []float64, tau float64, maxIter int) (float64, error) {
	k := len(a)
	dim := len(planes[0].G)

	u := make([]float64, dim)
	for i := 0; i < k; i++ {
		if a[i] != 0 {
			for d, g := range planes[i].G {
				u[d] -= a[i] * g
			}
		}
	}
	w := make([]float64, dim)
	grad := make([]float64, k)
	refresh := func() {
		for d, v := range u {
			if v > 0 {
				w[d] = v
			} else {
				w[d] = 0
			}
		}
		for i := 0; i < k; i++ {
			s := -b[i]
			for d, g := range planes[i].G {
				s -= w[d] * g
			}
			grad[i] = s
		}
	}
	refresh()

	for iter := 0; iter < maxIter; iter++ {
		ip, im := 0, -1
		for i := 1; i < k; i++ {
			if grad[i] < grad[ip] {
				ip = i
			}
		}
		for i := 0; i < k; i++ {
			if a[i] > 0 && (im < 0 || grad[i] > grad[im]) {
				im = i
			}
		}
		if im < 0 {
			return 0, ErrNumerical
		}

		kkt := grad[im] - grad[ip]
		if kkt <= tau {
			var norm float64
			for _, v := range w {
				norm += v * v
			}
			var lin float64
			for i := range a {
				lin += b[i] * a[i]
			}
			return lin - 0.5*norm, nil
		}

		denom := q[im][im] - 2*q[im][ip] + q[ip][ip]
		delta := a[im]
		if denom > 0 {
			if d := kkt / denom; d < delta {
				delta = d
			}
		}
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			return 0, ErrNumerical
		}

		a[im] -= delta
		a[ip] += delta
		for d := range u {
			u[d] += delta * (planes[im].G[d] - planes[ip].G[d])
		}
		refresh()
	}
	return 0, ErrNumerical
}

func dualObjective(q [][]float64, b []float64, a []float64) float64 {
	var lin, quad float64
	for i := range a {
		if a[i] == 0 {
			continue
		}
		lin += b[i] * a[i]
		qi := q[i]
		for j := range a {
			quad += a[i] * a[j] * qi[j]
		}
	}
	return lin - 0.5*quad
}
