package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"docindex/internal/port"
)

// ChromaClient talks to a Chroma server over its REST API. Selected
// when the configured host is anything other than localhost.
type ChromaClient struct {
	baseURL string
	client  *http.Client
}

func NewChromaClient(host string, port int) *ChromaClient {
	return &ChromaClient{
		baseURL: fmt.Sprintf("http://%s:%d/api/v1", host, port),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("chroma status %d: %s", e.code, e.body)
}

func (c *ChromaClient) GetOrCreateCollection(name string) (port.VectorStore, error) {
	req := map[string]any{
		"name":          name,
		"get_or_create": true,
	}
	data, err := c.doRequest(http.MethodPost, "/collections", req)
	if err != nil {
		return nil, fmt.Errorf("get or create collection %s: %w", name, err)
	}

	var parsed struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse collection response: %w", err)
	}

	return &ChromaCollection{client: c, id: parsed.ID, name: parsed.Name}, nil
}

func (c *ChromaClient) DeleteCollection(name string) error {
	_, err := c.doRequest(http.MethodDelete, "/collections/"+name, nil)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return port.ErrCollectionNotFound
	}
	return err
}

func (c *ChromaClient) Close() error {
	return nil
}

func (c *ChromaClient) doRequest(method, path string, body any) ([]byte, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// ChromaCollection is a handle to one remote collection.
type ChromaCollection struct {
	client *ChromaClient
	id     string
	name   string
}

func (s *ChromaCollection) Upsert(items []port.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	embeddings := make([][]float32, len(items))
	documents := make([]string, len(items))
	metadatas := make([]map[string]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
		embeddings[i] = item.Vector
		documents[i] = item.Text
		metadatas[i] = item.Metadata
	}

	req := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
		"documents":  documents,
		"metadatas":  metadatas,
	}
	_, err := s.client.doRequest(http.MethodPost, "/collections/"+s.id+"/upsert", req)
	if err != nil {
		return fmt.Errorf("upsert into %s: %w", s.name, err)
	}
	return nil
}

func (s *ChromaCollection) Search(query []float32, k int) ([]port.VectorResult, error) {
	if k <= 0 {
		k = 10
	}

	req := map[string]any{
		"query_embeddings": [][]float32{query},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	data, err := s.client.doRequest(http.MethodPost, "/collections/"+s.id+"/query", req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.name, err)
	}

	var parsed struct {
		IDs       [][]string            `json:"ids"`
		Distances [][]float64           `json:"distances"`
		Documents [][]string            `json:"documents"`
		Metadatas [][]map[string]string `json:"metadatas"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse query response: %w", err)
	}
	if len(parsed.IDs) == 0 {
		return nil, nil
	}

	results := make([]port.VectorResult, 0, len(parsed.IDs[0]))
	for i, id := range parsed.IDs[0] {
		r := port.VectorResult{ID: id}
		if len(parsed.Distances) > 0 && i < len(parsed.Distances[0]) {
			// Chroma returns distances; lower is closer.
			r.Score = 1 / (1 + parsed.Distances[0][i])
		}
		if len(parsed.Documents) > 0 && i < len(parsed.Documents[0]) {
			r.Text = parsed.Documents[0][i]
		}
		if len(parsed.Metadatas) > 0 && i < len(parsed.Metadatas[0]) {
			r.Metadata = parsed.Metadatas[0][i]
		}
		results = append(results, r)
	}

	return results, nil
}

func (s *ChromaCollection) Count() (int, error) {
	data, err := s.client.doRequest(http.MethodGet, "/collections/"+s.id+"/count", nil)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.name, err)
	}

	count, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse count response %q: %w", string(data), err)
	}
	return count, nil
}
