package ranker

import (
	"fmt"
	"sort"

	"github.com/kittclouds/ranksvm/pkg/linalg"
	"github.com/kittclouds/ranksvm/pkg/svmrank"
)

// Document pairs a retrieval embedding with the feature vector the model
// scores. The two live in different spaces: embeddings drive candidate
// recall, features drive the final order.
type Document struct {
	ID        uint32
	Embedding []float32
	Features  linalg.Sample
}

// Scored is one ranked result.
type Scored struct {
	ID    uint32
	Score float64
}

// Ranker retrieves candidates from the index and reorders them with a
// trained decision function.
type Ranker struct {
	index    *Index
	model    *svmrank.DecisionFunction
	features map[uint32]linalg.Sample
}

// New builds a Ranker over an open index and a trained model.
func New(index *Index, model *svmrank.DecisionFunction) *Ranker {
	return &Ranker{
		index:    index,
		model:    model,
		features: make(map[uint32]linalg.Sample),
	}
}

// Add indexes a document for retrieval and keeps its features for
// rescoring.
func (r *Ranker) Add(doc Document) error {
	if doc.Features == nil {
		return fmt.Errorf("ranker: document %d has no features", doc.ID)
	}
	if doc.Features.Dim() != r.model.Dim() {
		return fmt.Errorf("ranker: document %d: feature dim %d, model dim %d",
			doc.ID, doc.Features.Dim(), r.model.Dim())
	}
	if err := r.index.Add(doc.ID, doc.Embedding); err != nil {
		return err
	}
	r.features[doc.ID] = doc.Features
	return nil
}

// Rank retrieves candidates near the query embedding and returns the top
// k by model score, highest first. Ties break by lower id so the order is
// stable across calls.
func (r *Ranker) Rank(query []float32, k int) ([]Scored, error) {
	if k <= 0 {
		return nil, nil
	}
	// Over-fetch so the model has something to reorder.
	fetch := k * 4
	if fetch < 32 {
		fetch = 32
	}
	q := append([]float32(nil), query...)
	Normalize(q)
	ids, err := r.index.Search(q, fetch)
	if err != nil {
		return nil, err
	}

	out := make([]Scored, 0, len(ids))
	for _, id := range ids {
		feats, ok := r.features[id]
		if !ok {
			continue
		}
		out = append(out, Scored{ID: id, Score: r.model.Score(feats)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}
