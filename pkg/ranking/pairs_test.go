package ranking

import (
	"errors"
	"testing"

	"github.com/kittclouds/ranksvm/pkg/linalg"
)

func TestNumPairs(t *testing.T) {
	set := TrainingSet{
		{
			Relevant:    []linalg.Sample{linalg.Dense{1}, linalg.Dense{2}},
			Nonrelevant: []linalg.Sample{linalg.Dense{0}, linalg.Dense{0}, linalg.Dense{0}},
		},
		{
			Relevant:    []linalg.Sample{linalg.Dense{1}},
			Nonrelevant: []linalg.Sample{linalg.Dense{0}},
		},
	}
	if got := NumPairs(set); got != 7 {
		t.Errorf("NumPairs = %d, want 7", got)
	}
}

func TestValidateRejectsDegenerateGroup(t *testing.T) {
	set := TrainingSet{
		{
			Relevant:    []linalg.Sample{linalg.Dense{1, 0}},
			Nonrelevant: nil,
		},
	}
	err := Validate(set)
	if !errors.Is(err, ErrNotRankingProblem) {
		t.Fatalf("expected ErrNotRankingProblem, got %v", err)
	}
	if IsRankingProblem(set) {
		t.Error("IsRankingProblem accepted a degenerate group")
	}
}

func TestValidateRejectsDimensionMismatch(t *testing.T) {
	set := TrainingSet{
		{
			Relevant:    []linalg.Sample{linalg.Dense{1, 0}},
			Nonrelevant: []linalg.Sample{linalg.Dense{0, 1, 1}},
		},
	}
	if err := Validate(set); !errors.Is(err, ErrNotRankingProblem) {
		t.Fatalf("expected ErrNotRankingProblem, got %v", err)
	}
}

func TestValidateRejectsEmptySet(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrNotRankingProblem) {
		t.Fatal("expected error for empty set")
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	sp, _ := linalg.NewSparse(2, []int{0}, []float64{1})
	set := TrainingSet{
		{
			Relevant:    []linalg.Sample{linalg.Dense{1, 0}, sp},
			Nonrelevant: []linalg.Sample{linalg.Dense{0, 1}},
		},
	}
	if err := Validate(set); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if dim, err := Dim(set); err != nil || dim != 2 {
		t.Fatalf("Dim = %d, %v", dim, err)
	}
}
