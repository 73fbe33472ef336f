package usecase

import (
	"fmt"

	"docindex/internal/domain"
	"docindex/internal/port"
)

// Query performs similarity search against an ingested collection.
type Query struct {
	embedder   port.Embedder
	collection port.VectorStore
}

func NewQuery(embedder port.Embedder, collection port.VectorStore) *Query {
	return &Query{
		embedder:   embedder,
		collection: collection,
	}
}

func (q *Query) Search(text string, k int) ([]domain.ScoredChunk, error) {
	embeddings, err := q.embedder.Embed([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	results, err := q.collection.Search(embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	chunks := make([]domain.ScoredChunk, 0, len(results))
	for _, result := range results {
		chunks = append(chunks, domain.ScoredChunk{
			ID:       result.ID,
			Text:     result.Text,
			Score:    result.Score,
			Metadata: result.Metadata,
		})
	}

	return chunks, nil
}
