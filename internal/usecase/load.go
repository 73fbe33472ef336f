package usecase

import (
	"log/slog"
	"os"
	"time"

	"docindex/internal/adapter/fs"
	"docindex/internal/adapter/parser"
	"docindex/internal/domain"
)

// DocumentLoader enumerates supported files in the data directory and
// parses each one. A file that fails to parse is logged and skipped;
// one bad document never aborts the batch.
type DocumentLoader struct {
	scanner *fs.Scanner
	parsers *parser.Registry
	logger  *slog.Logger
}

func NewDocumentLoader(scanner *fs.Scanner, parsers *parser.Registry, logger *slog.Logger) *DocumentLoader {
	return &DocumentLoader{
		scanner: scanner,
		parsers: parsers,
		logger:  logger,
	}
}

// Load returns all documents parsed from dir. A missing directory or an
// empty match set yields an empty result, not an error; only a failure
// of the enumeration itself propagates.
func (l *DocumentLoader) Load(dir string) ([]domain.Document, error) {
	start := time.Now()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		l.logger.Error("data directory does not exist", "path", dir)
		return nil, nil
	}

	files, err := l.scanner.Scan(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		l.logger.Warn("no documents found", "directory", dir)
		return nil, nil
	}

	l.logger.Info("found documents", "count", len(files))

	var documents []domain.Document
	for _, file := range files {
		docs, err := l.parsers.Parse(file.Path)
		if err != nil {
			l.logger.Error("failed to load document", "file", file.Path, "error", err.Error())
			continue
		}
		documents = append(documents, docs...)
		l.logger.Info("loaded document", "file", file.Path, "num_docs", len(docs))
	}

	l.logger.Info("document loading complete",
		"total_documents", len(documents),
		"latency_seconds", roundSeconds(time.Since(start)))

	return documents, nil
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000
}
