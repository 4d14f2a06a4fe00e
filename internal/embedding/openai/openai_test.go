package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/embedding/openai"
)

var _ domain.Fingerprinter = (*openai.Client)(nil)

// newFakeServer answers /embeddings with one vector per input. Items are
// returned in reverse order so index handling is exercised.
func newFakeServer(t *testing.T, dim int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type item struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]item, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			vec := make([]float64, dim)
			vec[0] = float64(len(req.Input[i]))
			data = append(data, item{Object: "embedding", Index: i, Embedding: vec})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func TestEncodeBatches(t *testing.T) {
	var calls atomic.Int32
	srv := newFakeServer(t, 3, &calls)
	defer srv.Close()
	t.Setenv("TEST_OPENAI_KEY", "sk-test")

	c, err := openai.NewClient(openai.Config{
		BaseURL:   srv.URL,
		APIKeyEnv: "TEST_OPENAI_KEY",
		BatchSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Dimension())

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vecs, err := c.Encode(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	for i, v := range vecs {
		assert.Equal(t, float64(len(texts[i])), v[0])
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, c.Dimension())
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "")
	_, err := openai.NewClient(openai.Config{APIKeyEnv: "TEST_OPENAI_KEY"})
	assert.Error(t, err)
}

func TestProviderErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()
	t.Setenv("TEST_OPENAI_KEY", "sk-test")

	c, err := openai.NewClient(openai.Config{BaseURL: srv.URL, APIKeyEnv: "TEST_OPENAI_KEY"})
	require.NoError(t, err)
	_, err = c.Encode(context.Background(), []string{"x"})
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	c, err := openai.NewClient(openai.Config{APIKeyEnv: "TEST_OPENAI_KEY", Model: "m", Dimensions: 64})
	require.NoError(t, err)
	assert.Equal(t, "m/64", c.Fingerprint())
	assert.Equal(t, 64, c.Dimension())
}
