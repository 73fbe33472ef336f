package domain

import "time"

// Document is the parsed content of a single source file. It is created
// by a parser and never mutated afterwards.
type Document struct {
	ID       string
	Path     string
	Format   string
	Text     string
	Metadata map[string]string
}

// Chunk is a size-bounded, possibly overlapping passage of a document's
// text. It is the unit of embedding and retrieval.
type Chunk struct {
	ID       string
	DocID    string
	Seq      int
	Text     string
	Metadata map[string]string
}

type ScoredChunk struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IngestStats summarizes a completed ingestion run.
type IngestStats struct {
	DocumentsLoaded int
	ChunksEmbedded  int
	LoadDuration    time.Duration
	IndexDuration   time.Duration
	TotalDuration   time.Duration
}
