package svmrank

import (
	"sort"

	"github.com/kittclouds/ranksvm/pkg/linalg"
	"github.com/kittclouds/ranksvm/pkg/ranking"
	"gonum.org/v1/gonum/floats"
)

// riskOracle evaluates the pair-normalized pairwise hinge risk
//
//	R(w) = (1/P) * sum_g sum_{r,n} max(0, 1 - (w·r - w·n))
//
// and a subgradient, where P is the total pair count. A pair violates the
// margin iff score(r) - score(n) < 1; a pair sitting exactly on the margin
// does not (strict hinge).
//
// The naive evaluation is quadratic in the group size. Instead each group
// is scored once, both sides are sorted, and a single descending merge
// sweep accumulates the violating partners of every relevant sample with
// running count / offset-sum / vector-sum registers, the same way a merge
// sort counts inversions. One evaluation costs O(N log N) overall.
type riskOracle struct {
	set  ranking.TrainingSet
	dim  int
	c    float64
	invP float64
}

func newRiskOracle(set ranking.TrainingSet, dim int, c float64) *riskOracle {
	return &riskOracle{
		set:  set,
		dim:  dim,
		c:    c,
		invP: 1 / float64(ranking.NumPairs(set)),
	}
}

func (o *riskOracle) Dim() int   { return o.dim }
func (o *riskOracle) C() float64 { return o.c }

type scored struct {
	key    float64
	sample linalg.Sample
}

func (o *riskOracle) Risk(w []float64) (float64, []float64) {
	grad := make([]float64, o.dim)
	running := make([]float64, o.dim)
	var loss float64

	for _, p := range o.set {
		rel := make([]scored, len(p.Relevant))
		for i, s := range p.Relevant {
			rel[i] = scored{key: s.Dot(w), sample: s}
		}
		// Non-relevant samples carry their margin-shifted score so the
		// sweep reduces to a plain key comparison.
		non := make([]scored, len(p.Nonrelevant))
		for i, s := range p.Nonrelevant {
			non[i] = scored{key: s.Dot(w) + 1, sample: s}
		}
		sort.Slice(rel, func(i, j int) bool { return rel[i].key < rel[j].key })
		sort.Slice(non, func(i, j int) bool { return non[i].key < non[j].key })

		for i := range running {
			running[i] = 0
		}
		var count float64
		var keySum float64

		j := len(non) - 1
		for i := len(rel) - 1; i >= 0; i-- {
			sr := rel[i].key
			// Everything already swept has key > every later sr, so the
			// registers only ever grow: each sample enters them once.
			for j >= 0 && non[j].key > sr {
				count++
				keySum += non[j].key
				non[j].sample.AddTo(running, 1)
				j--
			}
			if count == 0 {
				continue
			}
			// Every swept non-relevant sample is a violating partner:
			// per pair the loss is key - sr and the subgradient term is
			// n - r, both available from the registers.
			loss += keySum - count*sr
			floats.Add(grad, running)
			rel[i].sample.AddTo(grad, -count)
		}
	}

	loss *= o.invP
	floats.Scale(o.invP, grad)
	return loss, grad
}
