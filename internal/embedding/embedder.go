// Package embedding holds the text embedders and a caching wrapper around them.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/kv"
)

// Cached memoizes an embedder's vectors in a kv store. Texts already in the
// store are served from it; the rest are encoded in one call and written
// back in a single batch.
type Cached struct {
	inner  domain.Embedder
	store  kv.Store
	logger *slog.Logger
}

var (
	_ domain.Embedder      = (*Cached)(nil)
	_ domain.Fingerprinter = (*Cached)(nil)
)

func NewCached(inner domain.Embedder, store kv.Store, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{inner: inner, store: store, logger: logger}
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) Prepare(corpus []string) error { return c.inner.Prepare(corpus) }

func (c *Cached) Dimension() int { return c.inner.Dimension() }

func (c *Cached) Fingerprint() string { return fingerprint(c.inner) }

func (c *Cached) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	keys := make([]string, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		keys[i] = c.key(t)
		data, err := c.store.Get(ctx, keys[i])
		if errors.Is(err, kv.ErrNotFound) {
			missIdx = append(missIdx, i)
			missTexts = append(missTexts, t)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("embedding cache get: %w", err)
		}
		var v []float64
		if err := msgpack.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("embedding cache decode: %w", err)
		}
		out[i] = v
	}
	c.logger.Debug("embedding cache", "hits", len(texts)-len(missIdx), "misses", len(missIdx))
	if len(missTexts) == 0 {
		return out, nil
	}
	vecs, err := c.inner.Encode(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(missTexts))
	}
	entries := make([]kv.Entry, len(vecs))
	for j, v := range vecs {
		data, err := msgpack.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("embedding cache encode: %w", err)
		}
		i := missIdx[j]
		out[i] = v
		entries[j] = kv.Entry{Key: keys[i], Value: data}
	}
	if err := c.store.BatchSet(ctx, entries); err != nil {
		c.logger.Warn("embedding cache write failed", "error", err)
	}
	return out, nil
}

func (c *Cached) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + c.inner.Name() + ":" + fingerprint(c.inner) + ":" + hex.EncodeToString(sum[:])
}

func fingerprint(e domain.Embedder) string {
	if f, ok := e.(domain.Fingerprinter); ok {
		return f.Fingerprint()
	}
	return ""
}
