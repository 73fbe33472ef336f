package embedding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGeminiEmbedder_MissingAPIKey(t *testing.T) {
	t.Setenv("DOCINDEX_TEST_EMPTY_KEY", "")

	_, err := NewGeminiEmbedder("DOCINDEX_TEST_EMPTY_KEY", "text-embedding-004")
	if err == nil {
		t.Fatal("expected an error when the API key env var is unset")
	}
	if !strings.Contains(err.Error(), "DOCINDEX_TEST_EMPTY_KEY") {
		t.Errorf("error should name the env var, got: %v", err)
	}
}

func TestGeminiEmbedder_Embed(t *testing.T) {
	var gotPath, gotQuery, gotKeyHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKeyHeader = r.Header.Get("x-goog-api-key")

		var req batchEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		resp := batchEmbedResponse{
			Embeddings: make([]contentEmbedding, len(req.Requests)),
		}
		for i := range req.Requests {
			resp.Embeddings[i] = contentEmbedding{Values: []float32{float32(i), 1, 2}}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e := newGeminiEmbedder("test-key", "text-embedding-004", server.URL)

	embeddings, err := e.Embed([]string{"first passage", "second passage"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}
	if embeddings[1][0] != 1 {
		t.Errorf("embeddings out of order: %v", embeddings[1])
	}
	if !strings.Contains(gotPath, "text-embedding-004:batchEmbedContents") {
		t.Errorf("unexpected request path: %s", gotPath)
	}
	if gotKeyHeader != "test-key" {
		t.Errorf("expected API key in x-goog-api-key header, got %q", gotKeyHeader)
	}
	if strings.Contains(gotQuery, "test-key") {
		t.Errorf("API key must not appear in the request URL, got query %q", gotQuery)
	}
}

func TestGeminiEmbedder_TransportErrorOmitsAPIKey(t *testing.T) {
	// Transport failures wrap the request URL into the error message;
	// the key must not be part of it.
	e := newGeminiEmbedder("sekrit-key", "text-embedding-004", "http://127.0.0.1:1")

	_, err := e.Embed([]string{"some text"})
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if strings.Contains(err.Error(), "sekrit-key") {
		t.Errorf("error message leaks the API key: %v", err)
	}
}

func TestGeminiEmbedder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(batchEmbedResponse{
			Error: &apiError{Code: 400, Message: "invalid model", Status: "INVALID_ARGUMENT"},
		})
	}))
	defer server.Close()

	e := newGeminiEmbedder("test-key", "text-embedding-004", server.URL)

	_, err := e.Embed([]string{"some text"})
	if err == nil {
		t.Fatal("expected an error for an API error response")
	}
	if !strings.Contains(err.Error(), "invalid model") {
		t.Errorf("error should carry the API message, got: %v", err)
	}
}

func TestGeminiEmbedder_EmptyInput(t *testing.T) {
	e := newGeminiEmbedder("test-key", "text-embedding-004", "http://unused")

	embeddings, err := e.Embed(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embeddings != nil {
		t.Errorf("expected nil embeddings for empty input, got %v", embeddings)
	}
}

func TestGeminiEmbedder_Dimension(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"text-embedding-004", 768},
		{"models/text-embedding-004", 768},
		{"gemini-embedding-001", 3072},
		{"unknown-model", 768},
	}

	for _, tt := range tests {
		e := newGeminiEmbedder("k", tt.model, "http://unused")
		if got := e.Dimension(); got != tt.want {
			t.Errorf("Dimension(%s) = %d, want %d", tt.model, got, tt.want)
		}
	}
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(16)

	a, err := e.Embed([]string{"hello world"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed([]string{"hello world"})
	if err != nil {
		t.Fatal(err)
	}

	if len(a[0]) != 16 {
		t.Fatalf("expected dimension 16, got %d", len(a[0]))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatal("mock embeddings should be deterministic")
		}
	}
}
