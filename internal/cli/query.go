package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docindex/internal/usecase"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the ingested collection",
	Long: `Embed the query text and return the most similar passages from the
configured collection.

Examples:
  docindex query -q "maintenance schedule"
  docindex query -q "safety procedures" --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 5, "number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	client, err := newStoreClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	collection, err := client.GetOrCreateCollection(cfg.VectorDB.CollectionName)
	if err != nil {
		return fmt.Errorf("open collection: %w", err)
	}

	results, err := usecase.NewQuery(embedder, collection).Search(queryText, queryTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] %s (score: %.3f) ---\n", i+1, r.Metadata["source"], r.Score)
		fmt.Println(truncatePassage(r.Text, 500))
		fmt.Println()
	}

	return nil
}

// truncatePassage shortens text to at most limit runes, never cutting
// through a multi-byte character.
func truncatePassage(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
