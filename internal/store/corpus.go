// Package store provides SQLite-backed persistence for ranking training
// corpora. Uses ncruces/go-sqlite3/driver which provides a database/sql
// interface, with the sqlite-vec extension registered for vector-aware
// deployments sharing the same database file.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/kittclouds/ranksvm/pkg/linalg"
	"github.com/kittclouds/ranksvm/pkg/ranking"
)

// CorpusStore accumulates labeled feature vectors per query and hands
// them back as a training set. Thread-safe.
type CorpusStore struct {
	mu sync.RWMutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS samples (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    qid TEXT NOT NULL,
    relevant INTEGER NOT NULL,
    features TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_samples_qid ON samples(qid);
`

// NewCorpusStore creates an in-memory store.
func NewCorpusStore() (*CorpusStore, error) {
	return NewCorpusStoreWithDSN(":memory:")
}

// NewCorpusStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewCorpusStoreWithDSN(dsn string) (*CorpusStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to create schema: %w", err)
	}
	return &CorpusStore{db: db}, nil
}

// Close closes the database connection.
func (s *CorpusStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddSample records one labeled feature vector for a query.
func (s *CorpusStore) AddSample(qid string, relevant bool, features []float64) error {
	if qid == "" {
		return fmt.Errorf("store: empty qid")
	}
	if len(features) == 0 {
		return fmt.Errorf("store: empty feature vector")
	}
	data, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rel := 0
	if relevant {
		rel = 1
	}
	_, err = s.db.Exec(`INSERT INTO samples (qid, relevant, features) VALUES (?, ?, ?)`,
		qid, rel, string(data))
	return err
}

// CountSamples returns the number of stored samples.
func (s *CorpusStore) CountSamples() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&n)
	return n, err
}

// TrainingSet reconstructs the corpus as query groups. Groups follow the
// first insertion order of their qid, so a reloaded corpus trains
// identically.
func (s *CorpusStore) TrainingSet() (ranking.TrainingSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT qid, relevant, features FROM samples ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer rows.Close()

	var set ranking.TrainingSet
	groups := make(map[string]int)
	for rows.Next() {
		var qid string
		var rel int
		var data string
		if err := rows.Scan(&qid, &rel, &data); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		var features linalg.Dense
		if err := json.Unmarshal([]byte(data), &features); err != nil {
			return nil, fmt.Errorf("store: qid %s: %w", qid, err)
		}

		gi, ok := groups[qid]
		if !ok {
			gi = len(set)
			groups[qid] = gi
			set = append(set, ranking.Pair{})
		}
		if rel != 0 {
			set[gi].Relevant = append(set[gi].Relevant, features)
		} else {
			set[gi].Nonrelevant = append(set[gi].Nonrelevant, features)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return set, nil
}
