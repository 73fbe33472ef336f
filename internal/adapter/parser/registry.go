// Package parser turns files into documents. One parser per supported
// format, dispatched by file extension.
package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"docindex/internal/domain"
	"docindex/internal/port"
)

// Registry dispatches files to a parser based on extension.
type Registry struct {
	parsers map[string]port.Parser
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]port.Parser)}
}

// DefaultRegistry returns a registry with the built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("txt", &TextParser{})
	r.Register("text", &TextParser{})
	r.Register("md", &MarkdownParser{})
	return r
}

func (r *Registry) Register(ext string, p port.Parser) {
	r.parsers[ext] = p
}

// Parse dispatches path to the parser registered for its extension.
func (r *Registry) Parse(path string) ([]domain.Document, error) {
	ext := filepath.Ext(path)
	if len(ext) > 0 {
		ext = ext[1:]
	}

	p, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("no parser registered for extension %q", ext)
	}

	return p.Parse(path)
}

// generateDocID creates a unique ID for a document based on its path.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
