package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docindex/internal/domain"
	"docindex/internal/port"
)

// embedBatchSize bounds how many chunks are embedded and upserted per
// round trip.
const embedBatchSize = 100

// ProgressFunc reports indexing progress: chunks done out of total.
type ProgressFunc func(done, total int)

// Pipeline drives one ingestion run: load documents, open the vector
// collection, then chunk, embed and upsert sequentially.
type Pipeline struct {
	loader     *DocumentLoader
	chunker    port.Chunker
	embedder   port.Embedder
	client     port.StoreClient
	collection string
	dataDir    string
	logger     *slog.Logger
	progress   ProgressFunc
}

func NewPipeline(
	loader *DocumentLoader,
	chunker port.Chunker,
	embedder port.Embedder,
	client port.StoreClient,
	collection string,
	dataDir string,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		loader:     loader,
		chunker:    chunker,
		embedder:   embedder,
		client:     client,
		collection: collection,
		dataDir:    dataDir,
		logger:     logger,
	}
}

// WithProgress sets an optional progress callback for the index phase.
func (p *Pipeline) WithProgress(fn ProgressFunc) *Pipeline {
	p.progress = fn
	return p
}

// Run executes the pipeline. An empty document set is a deliberate
// "nothing to do" outcome: it returns (nil, nil) after logging. Fatal
// errors come back as a *PhaseError.
func (p *Pipeline) Run(reset bool) (*domain.IngestStats, error) {
	start := time.Now()
	p.logger.Info("starting ingestion pipeline",
		"collection", p.collection,
		"reset_collection", reset)

	loadStart := time.Now()
	documents, err := p.loader.Load(p.dataDir)
	if err != nil {
		p.logger.Error("document loading failed", "error", err.Error())
		return nil, &PhaseError{Phase: PhaseLoad, Err: err}
	}
	if len(documents) == 0 {
		p.logger.Error("no documents loaded")
		return nil, nil
	}
	loadDuration := time.Since(loadStart)

	collection, err := p.openCollection(reset)
	if err != nil {
		p.logger.Error("failed to create vector store", "error", err.Error())
		return nil, &PhaseError{Phase: PhaseStore, Err: err}
	}

	indexStart := time.Now()
	p.logger.Info("building vector index", "documents", len(documents))

	chunksEmbedded, err := p.buildIndex(documents, collection)
	if err != nil {
		p.logger.Error("index build failed", "error", err.Error())
		return nil, &PhaseError{Phase: PhaseIndex, Err: err}
	}

	indexDuration := time.Since(indexStart)
	p.logger.Info("vector index built",
		"chunks", chunksEmbedded,
		"latency_seconds", roundSeconds(indexDuration))

	totalDuration := time.Since(start)
	p.logger.Info("ingestion pipeline completed",
		"total_documents", len(documents),
		"total_time_seconds", roundSeconds(totalDuration))

	return &domain.IngestStats{
		DocumentsLoaded: len(documents),
		ChunksEmbedded:  chunksEmbedded,
		LoadDuration:    loadDuration,
		IndexDuration:   indexDuration,
		TotalDuration:   totalDuration,
	}, nil
}

// openCollection prepares the target collection, deleting any existing
// one first when reset is requested. A missing collection during reset
// is not an error; any other delete failure is a real backend problem
// and aborts the run.
func (p *Pipeline) openCollection(reset bool) (port.VectorStore, error) {
	if reset {
		err := p.client.DeleteCollection(p.collection)
		switch {
		case err == nil:
			p.logger.Info("deleted existing collection", "collection", p.collection)
		case errors.Is(err, port.ErrCollectionNotFound):
			// Nothing to delete; reset stays idempotent.
		default:
			return nil, fmt.Errorf("delete collection %s: %w", p.collection, err)
		}
	}

	collection, err := p.client.GetOrCreateCollection(p.collection)
	if err != nil {
		return nil, fmt.Errorf("get or create collection %s: %w", p.collection, err)
	}

	p.logger.Info("vector store ready", "collection", p.collection)
	return collection, nil
}

func (p *Pipeline) buildIndex(documents []domain.Document, collection port.VectorStore) (int, error) {
	var chunks []domain.Chunk
	for _, doc := range documents {
		docChunks, err := p.chunker.Chunk(doc)
		if err != nil {
			return 0, fmt.Errorf("chunk document %s: %w", doc.Path, err)
		}
		chunks = append(chunks, docChunks...)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	embedded := 0
	for i := 0; i < len(chunks); i += embedBatchSize {
		end := i + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, chunk := range batch {
			texts[j] = chunk.Text
		}

		vectors, err := p.embedder.Embed(texts)
		if err != nil {
			return embedded, fmt.Errorf("embed batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return embedded, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}

		items := make([]port.VectorItem, len(batch))
		for j, chunk := range batch {
			items[j] = port.VectorItem{
				ID:       chunk.ID,
				Vector:   vectors[j],
				Text:     chunk.Text,
				Metadata: chunk.Metadata,
			}
		}

		if err := collection.Upsert(items); err != nil {
			return embedded, fmt.Errorf("upsert batch: %w", err)
		}

		embedded += len(batch)
		if p.progress != nil {
			p.progress(embedded, len(chunks))
		}
	}

	return embedded, nil
}
