// Package ranking defines the pairwise-preference dataset model shared by
// the trainer and the evaluation utilities. A dataset is a list of query
// groups, each holding the relevant and non-relevant feature vectors
// observed for one query.
package ranking

import (
	"errors"
	"fmt"

	"github.com/kittclouds/ranksvm/pkg/linalg"
)

// ErrNotRankingProblem marks a dataset that cannot be trained on: a group
// with an empty side, mismatched dimensions, or zero total pairs. Wrapped
// errors carry the offending group index; check with errors.Is.
var ErrNotRankingProblem = errors.New("ranking: not a valid ranking problem")

// Pair is one query group: the relevant samples should all outrank the
// non-relevant ones. Both sides must be non-empty for the group to define
// any ordering constraint.
type Pair struct {
	Relevant    []linalg.Sample
	Nonrelevant []linalg.Sample
}

// TrainingSet is an ordered list of query groups. Order does not affect the
// trained model but must stay stable for deterministic results.
type TrainingSet []Pair

// NumPairs returns the total number of (relevant, non-relevant) pairs
// across all groups.
func NumPairs(set TrainingSet) int {
	var n int
	for _, p := range set {
		n += len(p.Relevant) * len(p.Nonrelevant)
	}
	return n
}

// Validate checks that every group is non-degenerate and that all samples
// share one dimension. A degenerate group is an error, never silently
// skipped.
func Validate(set TrainingSet) error {
	if len(set) == 0 {
		return fmt.Errorf("%w: empty training set", ErrNotRankingProblem)
	}
	dim := -1
	for i, p := range set {
		if len(p.Relevant) == 0 {
			return fmt.Errorf("%w: group %d has no relevant samples", ErrNotRankingProblem, i)
		}
		if len(p.Nonrelevant) == 0 {
			return fmt.Errorf("%w: group %d has no non-relevant samples", ErrNotRankingProblem, i)
		}
		for _, s := range p.Relevant {
			if dim < 0 {
				dim = s.Dim()
			}
			if s.Dim() != dim {
				return fmt.Errorf("%w: group %d: dimension %d, expected %d", ErrNotRankingProblem, i, s.Dim(), dim)
			}
		}
		for _, s := range p.Nonrelevant {
			if s.Dim() != dim {
				return fmt.Errorf("%w: group %d: dimension %d, expected %d", ErrNotRankingProblem, i, s.Dim(), dim)
			}
		}
	}
	return nil
}

// IsRankingProblem reports whether Validate accepts the dataset.
func IsRankingProblem(set TrainingSet) bool {
	return Validate(set) == nil
}

// Dim returns the common sample dimension of a validated dataset.
func Dim(set TrainingSet) (int, error) {
	var all []linalg.Sample
	for _, p := range set {
		all = append(all, p.Relevant...)
		all = append(all, p.Nonrelevant...)
	}
	return linalg.Dim(all)
}
