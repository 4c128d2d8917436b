// Package feature turns raw text into the feature vectors the ranking
// trainer consumes. A Vocabulary is an ordered list of terms or phrases
// compiled into an Aho-Corasick automaton, so vectorizing a document is a
// single pass regardless of vocabulary size.
package feature

import (
	"fmt"
	"strings"

	"github.com/kittclouds/ranksvm/pkg/linalg"
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Vocabulary maps known terms and phrases to feature indices.
type Vocabulary struct {
	terms []string
	index map[string]int
	ac    ahocorasick.AhoCorasick
}

// NewVocabulary compiles the given terms. Stop words and duplicates are
// dropped; the surviving terms define the feature order, so the same term
// list always produces the same vector layout.
func NewVocabulary(terms []string) (*Vocabulary, error) {
	v := &Vocabulary{index: make(map[string]int)}
	for _, t := range terms {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || stopWords[key] {
			continue
		}
		if _, seen := v.index[key]; seen {
			continue
		}
		v.index[key] = len(v.terms)
		v.terms = append(v.terms, key)
	}
	if len(v.terms) == 0 {
		return nil, fmt.Errorf("feature: vocabulary is empty after filtering")
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	v.ac = builder.Build(v.terms)
	return v, nil
}

// Dim returns the number of features, one per surviving term.
func (v *Vocabulary) Dim() int { return len(v.terms) }

// Terms returns the feature order. The slice is shared; do not mutate.
func (v *Vocabulary) Terms() []string { return v.terms }

// Vectorize counts vocabulary matches in text and returns them as a
// sparse sample aligned with Terms().
func (v *Vocabulary) Vectorize(text string) (linalg.Sample, error) {
	counts := make([]float64, len(v.terms))
	for _, m := range v.ac.FindAll(text) {
		counts[m.Pattern()]++
	}

	var indices []int
	var values []float64
	for i, c := range counts {
		if c != 0 {
			indices = append(indices, i)
			values = append(values, c)
		}
	}
	return linalg.NewSparse(len(v.terms), indices, values)
}
