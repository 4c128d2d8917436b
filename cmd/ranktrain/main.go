// Command ranktrain trains a ranking model from an SVMlight-format file
// and prints the learned weights.
package main

import (
	"flag"
	"fmt"
	"log"

	osfs "github.com/hack-pad/hackpadfs/os"

	"github.com/kittclouds/ranksvm/pkg/ranking"
	"github.com/kittclouds/ranksvm/pkg/svmlight"
	"github.com/kittclouds/ranksvm/pkg/svmrank"
)

func main() {
	dataPath := flag.String("data", "", "training data file in SVMlight format (required)")
	c := flag.Float64("c", 1.0, "regularization parameter")
	eps := flag.Float64("eps", 0.001, "stopping epsilon, in units of ranking accuracy")
	iter := flag.Int("iter", 10000, "maximum optimizer iterations")
	nonneg := flag.Bool("nonneg", false, "constrain learned weights to be nonnegative")
	verbose := flag.Bool("v", false, "print optimizer progress")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		log.Fatal("ranktrain: -data is required")
	}

	fs := osfs.NewFS()
	path, err := fs.FromOSPath(*dataPath)
	if err != nil {
		log.Fatalf("ranktrain: %v", err)
	}
	set, err := svmlight.Load(fs, path)
	if err != nil {
		log.Fatalf("ranktrain: %v", err)
	}
	fmt.Printf("Loaded %d query groups, %d pairs\n", len(set), ranking.NumPairs(set))

	cfg := svmrank.DefaultConfig()
	cfg.C = *c
	cfg.Epsilon = *eps
	cfg.MaxIterations = *iter
	cfg.NonnegativeWeights = *nonneg
	cfg.Verbose = *verbose

	trainer, err := svmrank.NewTrainer(cfg)
	if err != nil {
		log.Fatalf("ranktrain: %v", err)
	}
	df, err := trainer.Train(set)
	if err != nil {
		log.Fatalf("ranktrain: training failed: %v", err)
	}

	acc := ranking.Accuracy(df.Score, set)
	fmt.Printf("Training ranking accuracy: %.4f\n", acc)
	fmt.Printf("Weights (%d dims):\n", df.Dim())
	for i, w := range df.W {
		fmt.Printf("  %d: %+.6f\n", i+1, w)
	}
}
