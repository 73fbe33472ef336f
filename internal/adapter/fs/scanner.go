package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Scanner enumerates ingestable files in a directory by extension.
// Matching is a case-sensitive exact match on the extension string, and
// results are sorted by path so runs are deterministic.
type Scanner struct {
	patterns []string
}

type FileInfo struct {
	Path string
	Ext  string
	Size int64
}

// NewScanner builds a scanner for the given extensions (without the
// leading dot, e.g. "txt").
func NewScanner(extensions []string) *Scanner {
	patterns := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		patterns = append(patterns, "*."+ext)
	}
	return &Scanner{patterns: patterns}
}

// Scan lists matching files at the top level of dir. The caller is
// expected to have checked that dir exists; any filesystem error during
// enumeration propagates.
func (s *Scanner) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !s.matches(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}

		ext := filepath.Ext(entry.Name())
		if len(ext) > 0 {
			ext = ext[1:]
		}

		files = append(files, FileInfo{
			Path: filepath.Join(dir, entry.Name()),
			Ext:  ext,
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

func (s *Scanner) matches(name string) bool {
	for _, pattern := range s.patterns {
		matched, err := doublestar.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
