package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"docindex/config"
	"docindex/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docindex",
	Short: "Ingest documents into a vector store for retrieval",
	Long: `docindex is a batch ETL tool for a retrieval pipeline: it reads
documents from a directory, splits them into overlapping passages,
embeds each passage via a remote embedding API and persists the vectors
into a vector database collection.

Example usage:
  docindex run --config config.yaml          # Ingest documents
  docindex run --reset                       # Discard previous vectors first
  docindex query -q "maintenance schedule"   # Search the collection`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		logger = logging.New(os.Stdout, cfg.Logging.Level)
		logger.Info("configuration loaded", "config", cfgFile)
		return nil
	},
}

// Execute runs the CLI. Any uncaught failure is reported as a single
// structured JSON error record on stdout before exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printFatal(err)
		os.Exit(1)
	}
}

// printFatal emits the final error record directly, since the failure
// may have happened before the logger was configured.
func printFatal(err error) {
	record := map[string]any{
		"time":  time.Now().UTC().Format(time.RFC3339Nano),
		"level": "ERROR",
		"msg":   "pipeline execution failed",
		"error": err.Error(),
	}
	data, _ := json.Marshal(record)
	fmt.Println(string(data))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to the configuration file")
}
