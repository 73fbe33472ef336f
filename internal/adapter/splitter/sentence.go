// Package splitter turns document text into overlapping passages sized
// for embedding.
package splitter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"docindex/internal/domain"
)

// SentenceSplitter packs whole sentences into chunks of at most
// chunkSize characters, with neighbouring chunks sharing trailing
// sentences worth at least chunkOverlap characters. Sentences longer
// than chunkSize are hard-split.
type SentenceSplitter struct {
	chunkSize    int
	chunkOverlap int
}

func NewSentenceSplitter(chunkSize, chunkOverlap int) *SentenceSplitter {
	return &SentenceSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

func (s *SentenceSplitter) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, nil
	}

	sentences := s.splitOversized(splitSentences(doc.Text))
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []domain.Chunk
	start := 0
	seq := 0

	for start < len(sentences) {
		end := start
		currentLen := 0
		var chunkText strings.Builder

		for end < len(sentences) {
			l := utf8.RuneCountInString(sentences[end])
			if currentLen > 0 && currentLen+l > s.chunkSize {
				break
			}
			chunkText.WriteString(sentences[end])
			currentLen += l
			end++
		}

		chunks = append(chunks, domain.Chunk{
			ID:       generateChunkID(doc.ID, seq),
			DocID:    doc.ID,
			Seq:      seq,
			Text:     chunkText.String(),
			Metadata: chunkMetadata(doc, seq),
		})
		seq++

		if end >= len(sentences) {
			break
		}

		overlapSents := s.overlapSentences(sentences, start, end)
		newStart := end - overlapSents
		if newStart <= start {
			newStart = start + 1
		}
		start = newStart
	}

	return chunks, nil
}

// overlapSentences counts how many trailing sentences of the chunk
// [start, end) are needed to cover the configured overlap.
func (s *SentenceSplitter) overlapSentences(sentences []string, start, end int) int {
	if s.chunkOverlap == 0 {
		return 0
	}

	count := 0
	total := 0
	for i := end - 1; i > start && total < s.chunkOverlap; i-- {
		total += utf8.RuneCountInString(sentences[i])
		count++
	}
	return count
}

// splitOversized hard-splits any sentence longer than the chunk size so
// packing always makes progress.
func (s *SentenceSplitter) splitOversized(sentences []string) []string {
	var out []string
	for _, sent := range sentences {
		r := []rune(sent)
		for len(r) > s.chunkSize {
			out = append(out, string(r[:s.chunkSize]))
			r = r[s.chunkSize:]
		}
		if len(r) > 0 {
			out = append(out, string(r))
		}
	}
	return out
}

// splitSentences cuts text after sentence-ending punctuation or a blank
// line. Trailing whitespace belongs to the preceding sentence, so the
// concatenation of all spans reproduces the input exactly.
func splitSentences(text string) []string {
	var spans []string
	start := 0

	for i := 0; i < len(text); i++ {
		boundary := false
		switch text[i] {
		case '.', '!', '?':
			if i+1 >= len(text) || isSpace(text[i+1]) {
				boundary = true
			}
		case '\n':
			if i+1 < len(text) && text[i+1] == '\n' {
				boundary = true
			}
		}
		if !boundary {
			continue
		}

		end := i + 1
		for end < len(text) && isSpace(text[end]) {
			end++
		}
		spans = append(spans, text[start:end])
		start = end
		i = end - 1
	}

	if start < len(text) {
		spans = append(spans, text[start:])
	}
	return spans
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func chunkMetadata(doc domain.Document, seq int) map[string]string {
	meta := make(map[string]string, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	meta["chunk"] = strconv.Itoa(seq)
	return meta
}

func generateChunkID(docID string, seq int) string {
	data := fmt.Sprintf("%s:%d", docID, seq)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
