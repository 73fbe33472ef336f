package parser

import (
	"fmt"
	"strings"

	"docindex/internal/adapter/fs"
	"docindex/internal/domain"
)

// TextParser loads a plain-text file as a single document.
type TextParser struct{}

func (p *TextParser) Parse(path string) ([]domain.Document, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	doc := domain.Document{
		ID:     generateDocID(path),
		Path:   path,
		Format: "txt",
		Text:   content,
		Metadata: map[string]string{
			"source": path,
			"format": "txt",
		},
	}

	return []domain.Document{doc}, nil
}
