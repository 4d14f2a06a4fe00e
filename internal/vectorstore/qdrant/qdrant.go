package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dreytengan/futurepaths/internal/vectorstore"
)

// Storage is a minimal REST client to Qdrant.
// The collection uses dot-product distance and point ids equal to insertion
// positions, so search hits map straight back to label positions.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	count      int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     client,
	}
}

// Init recreates the collection for vectors of the given size.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	if err := s.Clear(); err != nil {
		return err
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Dot",
		},
	}
	return s.do(http.MethodPut, s.collectionURL(""), body, nil)
}

func (s *Storage) Add(vectors [][]float64) error {
	if len(vectors) == 0 {
		return nil
	}
	points := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		if len(v) != s.dimension {
			return fmt.Errorf("vector %d has %d dims, collection has %d: %w", i, len(v), s.dimension, vectorstore.ErrDimensionMismatch)
		}
		points[i] = map[string]any{
			"id":     s.count + i,
			"vector": v,
		}
	}
	body := map[string]any{"points": points}
	if err := s.do(http.MethodPut, s.collectionURL("/points?wait=true"), body, nil); err != nil {
		return err
	}
	s.count += len(vectors)
	return nil
}

// Search issues one batch request for all queries. Qdrant breaks score ties
// arbitrarily, so every stored point is fetched, re-sorted into position order
// on ties and cut to topK here.
func (s *Storage) Search(queries [][]float64, topK int) ([][]vectorstore.Match, error) {
	if topK <= 0 {
		return nil, errors.New("topK must be positive")
	}
	limit := topK
	if s.count > 0 {
		limit = s.count
	}
	searches := make([]map[string]any, len(queries))
	for i, q := range queries {
		if len(q) != s.dimension {
			return nil, fmt.Errorf("query %d has %d dims, collection has %d: %w", i, len(q), s.dimension, vectorstore.ErrDimensionMismatch)
		}
		searches[i] = map[string]any{
			"vector":       q,
			"limit":        limit,
			"with_payload": false,
		}
	}
	var resp struct {
		Result [][]struct {
			ID    int     `json:"id"`
			Score float64 `json:"score"`
		} `json:"result"`
	}
	if err := s.do(http.MethodPost, s.collectionURL("/points/search/batch"), map[string]any{"searches": searches}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Result) != len(queries) {
		return nil, fmt.Errorf("qdrant returned %d result sets for %d queries", len(resp.Result), len(queries))
	}
	out := make([][]vectorstore.Match, len(queries))
	for i, hits := range resp.Result {
		matches := make([]vectorstore.Match, len(hits))
		for j, h := range hits {
			matches[j] = vectorstore.Match{Index: h.ID, Score: h.Score}
		}
		vectorstore.SortMatches(matches)
		out[i] = matches[:min(topK, len(matches))]
	}
	return out, nil
}

func (s *Storage) Len() int { return s.count }

func (s *Storage) Dimension() int { return s.dimension }

// Clear drops the collection. A missing collection is not an error.
func (s *Storage) Clear() error {
	req, err := s.newRequest(http.MethodDelete, s.collectionURL(""), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("qdrant DELETE collection %s failed: %s", s.collection, resp.Status)
	}
	s.count = 0
	return nil
}

func (s *Storage) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

func (s *Storage) newRequest(method, url string, body any) (*http.Request, error) {
	var buf *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(data)
	} else {
		buf = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	return req, nil
}

func (s *Storage) do(method, url string, body, out any) error {
	req, err := s.newRequest(method, url, body)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
