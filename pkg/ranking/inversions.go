package ranking

import (
	"sort"

	"github.com/kittclouds/ranksvm/pkg/linalg"
)

// CountInversions counts the (r, n) score pairs that are out of order,
// i.e. rel[i] <= nonrel[j]. Ties count as inversions: a ranking that cannot
// separate the two sides has not ordered them. Runs in O(n log n) via a
// sorted two-pointer sweep instead of the quadratic pair enumeration.
func CountInversions(rel, nonrel []float64) int {
	r := append([]float64(nil), rel...)
	n := append([]float64(nil), nonrel...)
	sort.Float64s(r)
	sort.Float64s(n)

	// For each relevant score, every non-relevant score >= it is an
	// inversion. Walk both sorted lists once.
	count := 0
	j := len(n) - 1
	for i := len(r) - 1; i >= 0; i-- {
		for j >= 0 && n[j] >= r[i] {
			j--
		}
		// n[j+1:] are all >= r[i]
		count += len(n) - 1 - j
	}
	return count
}

// Accuracy returns the fraction of (relevant, non-relevant) pairs that the
// scoring function orders correctly, over all groups. This is the "ranking
// accuracy" that the trainer's epsilon tolerance is expressed in.
func Accuracy(score func(linalg.Sample) float64, set TrainingSet) float64 {
	var total, swapped int
	for _, p := range set {
		rel := make([]float64, len(p.Relevant))
		for i, s := range p.Relevant {
			rel[i] = score(s)
		}
		nonrel := make([]float64, len(p.Nonrelevant))
		for i, s := range p.Nonrelevant {
			nonrel[i] = score(s)
		}
		total += len(rel) * len(nonrel)
		swapped += CountInversions(rel, nonrel)
	}
	if total == 0 {
		return 0
	}
	return 1 - float64(swapped)/float64(total)
}
