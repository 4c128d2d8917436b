// Package svmrank trains linear ranking support vector machines from
// pairwise preference data, in the style of Joachims' "Optimizing Search
// Engines using Clickthrough Data". Training combines a cutting-plane
// optimizer with an inversion-count loss oracle, so one pass over the data
// costs O(N log N) instead of enumerating every (relevant, non-relevant)
// pair.
package svmrank

import (
	"fmt"
	"log"

	"github.com/kittclouds/ranksvm/pkg/oca"
	"github.com/kittclouds/ranksvm/pkg/ranking"
)

// Config holds the training parameters.
type Config struct {
	// C is the regularization trade-off. Larger values fit the training
	// pairs more exactly. Internally C is normalized by the total pair
	// count, so its meaning does not drift with dataset size.
	C float64
	// Epsilon is the stopping tolerance, in the same ranking-accuracy
	// units reported by ranking.Accuracy: train until the average ranking
	// accuracy is within Epsilon of its optimal value.
	Epsilon float64
	// MaxIterations caps the optimizer's outer iterations. Hitting the
	// cap is a soft stop: the best weights so far are returned.
	MaxIterations int
	// NonnegativeWeights constrains every learned weight to be >= 0.
	NonnegativeWeights bool
	// Verbose logs per-iteration objective bounds. Observational only.
	Verbose bool
	// Solver tunes the optimizer's inner QP solve.
	Solver oca.Config
}

// DefaultConfig mirrors the reference trainer defaults.
func DefaultConfig() Config {
	return Config{
		C:             1,
		Epsilon:       0.001,
		MaxIterations: 10000,
		Solver:        oca.DefaultConfig(),
	}
}

// Trainer trains ranking SVMs. A Trainer is immutable after construction
// and safe to reuse across datasets.
type Trainer struct {
	cfg Config
}

// NewTrainer validates cfg and returns a Trainer.
func NewTrainer(cfg Config) (*Trainer, error) {
	if cfg.C <= 0 {
		return nil, fmt.Errorf("svmrank: C must be > 0, got %v", cfg.C)
	}
	if cfg.Epsilon <= 0 {
		return nil, fmt.Errorf("svmrank: epsilon must be > 0, got %v", cfg.Epsilon)
	}
	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("svmrank: max iterations must be > 0, got %d", cfg.MaxIterations)
	}
	return &Trainer{cfg: cfg}, nil
}

// Config returns a copy of the trainer's configuration.
func (t *Trainer) Config() Config { return t.cfg }

// Train learns a weight vector such that, for as many pairs as possible,
// every relevant sample scores higher than every non-relevant sample in
// its group. The dataset must satisfy ranking.Validate; it is never
// mutated.
func (t *Trainer) Train(set ranking.TrainingSet) (*DecisionFunction, error) {
	if err := ranking.Validate(set); err != nil {
		return nil, err
	}
	dim, err := ranking.Dim(set)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ranking.ErrNotRankingProblem, err)
	}

	solver := &oca.Solver{
		Epsilon:            t.cfg.Epsilon,
		MaxIterations:      t.cfg.MaxIterations,
		NonnegativeWeights: t.cfg.NonnegativeWeights,
		Config:             t.cfg.Solver,
	}
	if t.cfg.Verbose {
		solver.Progress = func(iter int, upper, lower, gap float64) {
			log.Printf("svmrank: iter %d: upper=%.9g lower=%.9g gap=%.9g", iter, upper, lower, gap)
		}
	}

	res, err := solver.Minimize(newRiskOracle(set, dim, t.cfg.C))
	if err != nil {
		return nil, err
	}
	if t.cfg.Verbose {
		log.Printf("svmrank: %s after %d iterations, objective=%.9g gap=%.9g",
			res.Status, res.Iterations, res.Objective, res.Gap)
	}
	return &DecisionFunction{W: res.W}, nil
}

// TrainOne is the single-group convenience form. It is exactly equivalent
// to calling Train with a length-1 training set.
func (t *Trainer) TrainOne(p ranking.Pair) (*DecisionFunction, error) {
	return t.Train(ranking.TrainingSet{p})
}
