package parser

import (
	"fmt"
	"strconv"
	"strings"

	"docindex/internal/adapter/fs"
	"docindex/internal/domain"
)

// MarkdownParser loads a markdown file as a single document. YAML front
// matter and code-fence markers are stripped so only prose reaches the
// splitter; heading count is kept as metadata.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(path string) ([]domain.Document, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text, headings := cleanMarkdown(content)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc := domain.Document{
		ID:     generateDocID(path),
		Path:   path,
		Format: "md",
		Text:   text,
		Metadata: map[string]string{
			"source":   path,
			"format":   "md",
			"headings": strconv.Itoa(headings),
		},
	}

	return []domain.Document{doc}, nil
}

func cleanMarkdown(content string) (string, int) {
	lines := strings.Split(content, "\n")

	// Skip YAML front matter delimited by --- lines at the top.
	start := 0
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				start = i + 1
				break
			}
		}
	}

	headings := 0
	var out []string
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		if isHeading(trimmed) {
			headings++
			line = strings.TrimLeft(trimmed, "# ")
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n"), headings
}

func isHeading(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 {
		return false
	}
	return level < len(line) && line[level] == ' '
}
