package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docindex/config"
	"docindex/internal/adapter/embedding"
	"docindex/internal/adapter/fs"
	"docindex/internal/adapter/parser"
	"docindex/internal/adapter/splitter"
	"docindex/internal/adapter/store"
	"docindex/internal/port"
	"docindex/internal/usecase"
)

var runReset bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ingestion pipeline",
	Long: `Load documents from the configured data directory, split them into
overlapping passages, embed each passage and upsert the vectors into
the configured collection.

Examples:
  docindex run                 # Ingest on top of existing vectors
  docindex run --reset         # Delete the collection first`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runReset, "reset", false, "delete the collection before ingesting")
}

func runIngest(cmd *cobra.Command, args []string) error {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	client, err := newStoreClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	loader := usecase.NewDocumentLoader(
		fs.NewScanner(cfg.Ingestion.SupportedFormats),
		parser.DefaultRegistry(),
		logger,
	)
	chunker := splitter.NewSentenceSplitter(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	pipeline := usecase.NewPipeline(
		loader,
		chunker,
		embedder,
		client,
		cfg.VectorDB.CollectionName,
		cfg.Ingestion.DataDirectory,
		logger,
	).WithProgress(progress)

	stats, err := pipeline.Run(runReset)
	if err != nil {
		return err
	}
	if stats == nil {
		// Nothing to ingest; already logged.
		return nil
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Documents loaded: %d\n", stats.DocumentsLoaded)
	fmt.Printf("  Chunks embedded:  %d\n", stats.ChunksEmbedded)
	fmt.Printf("  Index time:       %.2fs\n", stats.IndexDuration.Seconds())
	fmt.Printf("  Total time:       %.2fs\n", stats.TotalDuration.Seconds())
	fmt.Printf("\nCollection: %s\n", cfg.VectorDB.CollectionName)
	return nil
}

// newEmbedder builds the embedding provider from config.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "gemini":
		return embedding.NewGeminiEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "mock":
		return embedding.NewMockEmbedder(768), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// newStoreClient selects the backend: localhost means the embedded
// persistent store, anything else a remote Chroma server.
func newStoreClient(cfg *config.Config) (port.StoreClient, error) {
	if cfg.VectorDB.IsLocal() {
		return store.OpenBolt(cfg.VectorDB.PersistDirectory)
	}
	return store.NewChromaClient(cfg.VectorDB.Host, cfg.VectorDB.Port), nil
}
