// Package ranker serves a trained ranking model: candidates are retrieved
// from an HNSW index by embedding similarity, then reordered by the linear
// decision function over their feature vectors.
package ranker

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/chewxy/math32"
	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector"
)

// Index is the candidate-retrieval side: an HNSW index over document
// embeddings with gob persistence on a hackpadfs filesystem.
type Index struct {
	idx  *hnsw.HNSW[vector.VF32]
	fs   hackpadfs.FS
	path string
	mu   sync.RWMutex
}

// NewIndex opens the index at path, loading a previously saved one if it
// exists and starting empty otherwise.
func NewIndex(fs hackpadfs.FS, path string) (*Index, error) {
	ix := &Index{fs: fs, path: path}
	if err := ix.Load(); err != nil {
		// No saved index yet; start fresh with a cosine surface.
		ix.idx = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
	}
	return ix, nil
}

// Add inserts a document embedding. The embedding is normalized in place
// and its dimension must match the existing entries.
func (ix *Index) Add(id uint32, emb []float32) error {
	if ix.idx == nil {
		return fmt.Errorf("ranker: index not initialized")
	}
	if ix.idx.Size() > 0 {
		dim := len(ix.idx.Head().Vec)
		if len(emb) != dim {
			return fmt.Errorf("ranker: embedding dimension mismatch: expected %d, got %d", dim, len(emb))
		}
	}
	Normalize(emb)
	ix.idx.Insert(vector.VF32{Key: id, Vec: emb})
	return nil
}

// Search returns the ids of the k nearest embeddings by cosine distance.
func (ix *Index) Search(emb []float32, k int) ([]uint32, error) {
	if ix.idx == nil {
		return nil, fmt.Errorf("ranker: index not initialized")
	}
	if ix.idx.Size() > 0 {
		dim := len(ix.idx.Head().Vec)
		if len(emb) != dim {
			return nil, fmt.Errorf("ranker: embedding dimension mismatch: expected %d, got %d", dim, len(emb))
		}
	}
	ef := k * 2
	if ef < 100 {
		ef = 100
	}
	results := ix.idx.Search(vector.VF32{Vec: emb}, k, ef)
	ids := make([]uint32, len(results))
	for i, r := range results {
		ids[i] = r.Key
	}
	return ids, nil
}

// Size returns the number of indexed embeddings.
func (ix *Index) Size() int {
	if ix.idx == nil {
		return 0
	}
	return ix.idx.Size()
}

// Save persists the index nodes to the filesystem.
func (ix *Index) Save() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.idx == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ix.idx.Nodes()); err != nil {
		return fmt.Errorf("ranker: failed to encode index: %w", err)
	}
	if err := hackpadfs.WriteFullFile(ix.fs, ix.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("ranker: failed to write index file: %w", err)
	}
	return nil
}

// Load reads the index back from the filesystem.
func (ix *Index) Load() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	content, err := hackpadfs.ReadFile(ix.fs, ix.path)
	if err != nil {
		return err
	}
	var nodes hnsw.Nodes[vector.VF32]
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&nodes); err != nil {
		return fmt.Errorf("ranker: failed to decode index: %w", err)
	}
	ix.idx = hnsw.FromNodes[vector.VF32](vector.SurfaceVF32(kvector.Cosine()), nodes)
	return nil
}

// Normalize scales v in place to unit length. Zero vectors are left alone.
func Normalize(v []float32) {
	var sumSq float32
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return
	}
	norm := math32.Sqrt(sumSq)
	for i := range v {
		v[i] /= norm
	}
}
