// Package store provides the vector database backends: an embedded
// bbolt-backed store for local runs, a Chroma HTTP client for remote
// servers, and an in-memory store for tests.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"docindex/internal/port"
)

const boltFileName = "vectors.db"

// BoltClient is the embedded persistent backend. Each collection is a
// top-level bucket in a single bbolt file under the persist directory.
type BoltClient struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if necessary) the vector database rooted at
// dir.
func OpenBolt(dir string) (*BoltClient, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create persist directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(filepath.Join(dir, boltFileName), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	return &BoltClient{db: db}, nil
}

func (c *BoltClient) GetOrCreateCollection(name string) (port.VectorStore, error) {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}

	col := &BoltCollection{
		db:      c.db,
		name:    name,
		vectors: make(map[string]vectorEntry),
	}
	if err := col.load(); err != nil {
		return nil, fmt.Errorf("load collection %s: %w", name, err)
	}
	return col, nil
}

func (c *BoltClient) DeleteCollection(name string) error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket([]byte(name))
	})
	if errors.Is(err, bbolt.ErrBucketNotFound) {
		return port.ErrCollectionNotFound
	}
	return err
}

func (c *BoltClient) Close() error {
	return c.db.Close()
}

// BoltCollection keeps an in-memory copy of the collection's vectors
// for brute-force cosine search; writes go through to the bucket.
type BoltCollection struct {
	db        *bbolt.DB
	name      string
	dimension int
	mu        sync.RWMutex
	vectors   map[string]vectorEntry
}

type vectorEntry struct {
	vector   []float32
	text     string
	metadata map[string]string
}

type storedVector struct {
	Vector   []float32         `json:"v"`
	Text     string            `json:"t,omitempty"`
	Metadata map[string]string `json:"m,omitempty"`
}

func (s *BoltCollection) load() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.name))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var stored storedVector
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // Skip corrupted entries
			}
			if s.dimension == 0 {
				s.dimension = len(stored.Vector)
			}
			s.vectors[string(k)] = vectorEntry{
				vector:   stored.Vector,
				text:     stored.Text,
				metadata: stored.Metadata,
			}
			return nil
		})
	})
}

func (s *BoltCollection) Upsert(items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.name))
		if b == nil {
			return fmt.Errorf("collection bucket %s not found", s.name)
		}

		for _, item := range items {
			if s.dimension == 0 {
				s.dimension = len(item.Vector)
			}
			if len(item.Vector) != s.dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
			}

			stored := storedVector{
				Vector:   item.Vector,
				Text:     item.Text,
				Metadata: item.Metadata,
			}
			data, err := json.Marshal(stored)
			if err != nil {
				return err
			}

			if err := b.Put([]byte(item.ID), data); err != nil {
				return err
			}

			s.vectors[item.ID] = vectorEntry{
				vector:   item.Vector,
				text:     item.Text,
				metadata: item.Metadata,
			}
		}

		return nil
	})
}

// Search finds the k nearest vectors using cosine similarity.
func (s *BoltCollection) Search(query []float32, k int) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.vectors) == 0 {
		return nil, nil
	}
	if s.dimension != 0 && len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	type scored struct {
		id    string
		score float64
		entry vectorEntry
	}

	scores := make([]scored, 0, len(s.vectors))
	for id, entry := range s.vectors {
		scores = append(scores, scored{
			id:    id,
			score: cosineSimilarity(query, entry.vector),
			entry: entry,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]port.VectorResult, k)
	for i := 0; i < k; i++ {
		results[i] = port.VectorResult{
			ID:       scores[i].id,
			Score:    scores[i].score,
			Text:     scores[i].entry.text,
			Metadata: scores[i].entry.metadata,
		}
	}

	return results, nil
}

func (s *BoltCollection) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
