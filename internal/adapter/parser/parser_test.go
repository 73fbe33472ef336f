package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTextParser(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "The quick brown fox.")

	docs, err := (&TextParser{}).Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	doc := docs[0]
	if doc.Text != "The quick brown fox." {
		t.Errorf("unexpected text: %q", doc.Text)
	}
	if doc.Metadata["source"] != path {
		t.Errorf("expected source metadata %s, got %s", path, doc.Metadata["source"])
	}
	if doc.ID == "" {
		t.Error("expected a non-empty document ID")
	}
}

func TestTextParser_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", "   \n\n")

	docs, err := (&TextParser{}).Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents from a blank file, got %d", len(docs))
	}
}

func TestTextParser_MissingFile(t *testing.T) {
	if _, err := (&TextParser{}).Parse("/nonexistent/file.txt"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestMarkdownParser(t *testing.T) {
	content := `---
title: Test
---
# Heading One

Some prose here.

## Heading Two

` + "```go\ncode line\n```" + `

More prose.
`
	path := writeFile(t, t.TempDir(), "doc.md", content)

	docs, err := (&MarkdownParser{}).Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	doc := docs[0]
	if strings.Contains(doc.Text, "title: Test") {
		t.Error("front matter should be stripped")
	}
	if strings.Contains(doc.Text, "```") {
		t.Error("code fence markers should be stripped")
	}
	if !strings.Contains(doc.Text, "Some prose here.") {
		t.Error("prose should be preserved")
	}
	if doc.Metadata["headings"] != "2" {
		t.Errorf("expected 2 headings, got %s", doc.Metadata["headings"])
	}
}

func TestRegistry_DispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "a.txt", "text content")

	r := DefaultRegistry()
	docs, err := r.Parse(txt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Format != "txt" {
		t.Errorf("expected one txt document, got %+v", docs)
	}
}

func TestRegistry_UnknownExtension(t *testing.T) {
	r := DefaultRegistry()
	if _, err := r.Parse("/tmp/file.xyz"); err == nil {
		t.Fatal("expected an error for an unregistered extension")
	}
}

func TestGenerateDocID_StablePerPath(t *testing.T) {
	a := generateDocID("/data/a.txt")
	b := generateDocID("/data/b.txt")
	if a == b {
		t.Error("different paths should produce different IDs")
	}
	if a != generateDocID("/data/a.txt") {
		t.Error("same path should produce the same ID")
	}
}
