package port

import "docindex/internal/domain"

// Parser turns a single file into one or more documents.
type Parser interface {
	Parse(path string) ([]domain.Document, error)
}
