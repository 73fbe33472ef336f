package port

import "errors"

// ErrCollectionNotFound is returned by DeleteCollection when no
// collection of the given name exists. Callers performing an idempotent
// reset ignore exactly this error; any other delete failure is a real
// backend problem.
var ErrCollectionNotFound = errors.New("collection not found")

// VectorStore is a handle to one named collection inside a vector
// database backend.
type VectorStore interface {
	// Upsert adds or updates vectors in the collection.
	Upsert(items []VectorItem) error

	// Search finds the k nearest vectors to the query.
	Search(query []float32, k int) ([]VectorResult, error)

	// Count returns the number of vectors in the collection.
	Count() (int, error)
}

// StoreClient manages collections inside a vector database backend.
type StoreClient interface {
	// GetOrCreateCollection returns the named collection, creating it
	// if it does not exist.
	GetOrCreateCollection(name string) (VectorStore, error)

	// DeleteCollection removes the named collection and its vectors.
	// Returns ErrCollectionNotFound if no such collection exists.
	DeleteCollection(name string) error

	Close() error
}

// VectorItem represents a vector to be stored.
type VectorItem struct {
	ID       string            // Unique identifier (typically chunk ID)
	Vector   []float32         // Embedding vector
	Text     string            // Passage text
	Metadata map[string]string // Optional metadata
}

// VectorResult represents a search result.
type VectorResult struct {
	ID       string            // Chunk ID
	Score    float64           // Similarity score (higher is better)
	Text     string            // Stored passage text
	Metadata map[string]string // Stored metadata
}
