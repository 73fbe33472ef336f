package store

import (
	"sort"
	"sync"

	"docindex/internal/port"
)

// MemoryClient is a non-persistent backend used by tests.
type MemoryClient struct {
	mu          sync.Mutex
	collections map[string]*MemoryCollection
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{collections: make(map[string]*MemoryCollection)}
}

func (c *MemoryClient) GetOrCreateCollection(name string) (port.VectorStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	col, ok := c.collections[name]
	if !ok {
		col = &MemoryCollection{vectors: make(map[string]vectorEntry)}
		c.collections[name] = col
	}
	return col, nil
}

func (c *MemoryClient) DeleteCollection(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.collections[name]; !ok {
		return port.ErrCollectionNotFound
	}
	delete(c.collections, name)
	return nil
}

func (c *MemoryClient) Close() error {
	return nil
}

type MemoryCollection struct {
	mu      sync.RWMutex
	vectors map[string]vectorEntry
}

func (s *MemoryCollection) Upsert(items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		s.vectors[item.ID] = vectorEntry{
			vector:   item.Vector,
			text:     item.Text,
			metadata: item.Metadata,
		}
	}
	return nil
}

func (s *MemoryCollection) Search(query []float32, k int) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return nil, nil
	}

	results := make([]port.VectorResult, 0, len(s.vectors))
	for id, entry := range s.vectors {
		results = append(results, port.VectorResult{
			ID:       id,
			Score:    cosineSimilarity(query, entry.vector),
			Text:     entry.text,
			Metadata: entry.metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (s *MemoryCollection) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}
