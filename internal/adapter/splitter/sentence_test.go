package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"docindex/internal/domain"
)

func testDoc(text string) domain.Document {
	return domain.Document{
		ID:       "doc1",
		Path:     "/data/file.txt",
		Format:   "txt",
		Text:     text,
		Metadata: map[string]string{"source": "/data/file.txt"},
	}
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	s := NewSentenceSplitter(500, 50)

	chunks, err := s.Chunk(testDoc("One sentence. Another sentence."))
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "One sentence. Another sentence." {
		t.Errorf("unexpected chunk text: %q", chunks[0].Text)
	}
}

func TestChunk_RespectsChunkSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		b.WriteString("This is a short sentence for the splitter test. ")
	}

	s := NewSentenceSplitter(500, 50)
	chunks, err := s.Chunk(testDoc(b.String()))
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range chunks {
		if n := utf8.RuneCountInString(c.Text); n > 500 {
			t.Errorf("chunk %d exceeds chunk size: %d chars", c.Seq, n)
		}
		if c.Text == "" {
			t.Errorf("chunk %d is empty", c.Seq)
		}
	}
}

func TestChunk_MinimumChunkCount(t *testing.T) {
	// 2000 characters with no sentence punctuation at all: the splitter
	// must still produce at least ceil(2000/(500-50)) = 5 or, via
	// hard-splitting, ceil(2000/500) = 4 chunks.
	text := strings.Repeat("x", 2000)

	s := NewSentenceSplitter(500, 50)
	chunks, err := s.Chunk(testDoc(text))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) < 4 {
		t.Errorf("expected at least 4 chunks for 2000 chars at size 500, got %d", len(chunks))
	}

	var total int
	for _, c := range chunks {
		total += utf8.RuneCountInString(c.Text)
	}
	if total < 2000 {
		t.Errorf("chunks cover %d chars, expected at least 2000", total)
	}
}

func TestChunk_OverlapSharesTrailingSentences(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Sentence number fills some space here. ")
	}

	s := NewSentenceSplitter(200, 60)
	chunks, err := s.Chunk(testDoc(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		cur := chunks[i].Text
		// The start of each chunk repeats the tail of its predecessor.
		head := cur[:40]
		if !strings.Contains(prev, head) {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func TestChunk_NoOverlapWhenZero(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("A sentence that is repeated to pad. ")
	}

	s := NewSentenceSplitter(100, 0)
	chunks, err := s.Chunk(testDoc(b.String()))
	if err != nil {
		t.Fatal(err)
	}

	var total int
	for _, c := range chunks {
		total += utf8.RuneCountInString(c.Text)
	}
	if want := utf8.RuneCountInString(b.String()); total != want {
		t.Errorf("without overlap chunks should cover the text exactly once: got %d chars, want %d", total, want)
	}
}

func TestChunk_EmptyText(t *testing.T) {
	s := NewSentenceSplitter(500, 50)

	chunks, err := s.Chunk(testDoc("   \n\n  "))
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for blank text, got %d", len(chunks))
	}
}

func TestChunk_MetadataAndIDs(t *testing.T) {
	text := strings.Repeat("Words words words words words. ", 40)

	s := NewSentenceSplitter(200, 20)
	chunks, err := s.Chunk(testDoc(text))
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]bool)
	for i, c := range chunks {
		if c.Seq != i {
			t.Errorf("expected seq %d, got %d", i, c.Seq)
		}
		if c.DocID != "doc1" {
			t.Errorf("expected doc ID doc1, got %s", c.DocID)
		}
		if c.Metadata["source"] != "/data/file.txt" {
			t.Errorf("chunk %d missing inherited source metadata", i)
		}
		if c.Metadata["chunk"] == "" {
			t.Errorf("chunk %d missing chunk sequence metadata", i)
		}
		if seen[c.ID] {
			t.Errorf("duplicate chunk ID %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestSplitSentences_CoverageIsExact(t *testing.T) {
	text := "First sentence. Second one!\n\nA new paragraph? Yes.\nTrailing line without punctuation"
	spans := splitSentences(text)

	if strings.Join(spans, "") != text {
		t.Error("concatenated spans should reproduce the input exactly")
	}
	if len(spans) < 4 {
		t.Errorf("expected at least 4 spans, got %d", len(spans))
	}
}
