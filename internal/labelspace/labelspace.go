// Package labelspace holds the fixed set of candidate labels together with
// their unit-normalized embeddings and a flat inner-product index over them.
// A Space is read-only after construction and safe for concurrent lookups.
package labelspace

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dreytengan/futurepaths/internal/artifact"
	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/vectorstore"
	"github.com/dreytengan/futurepaths/internal/vectorstore/memory"
)

// DefaultTopK is the number of labels returned when callers do not choose.
const DefaultTopK = 10

var (
	ErrEmptyLabels = errors.New("labelspace: empty label set")
	ErrZeroVector  = errors.New("labelspace: zero-norm vector")
	ErrInvalidTopK = errors.New("labelspace: topK must be positive")
)

// Space pairs labels 1:1 with positions in the index.
type Space struct {
	labels      []string
	vectors     [][]float64
	index       vectorstore.Storage
	embedder    string
	fingerprint string
}

// Option customizes construction.
type Option func(*options)

type options struct {
	index vectorstore.Storage
}

// WithIndex uses the given index instead of a fresh in-memory one.
// The index is re-initialized.
func WithIndex(s vectorstore.Storage) Option {
	return func(o *options) { o.index = s }
}

// New encodes every label with emb, normalizes each vector and indexes them.
func New(ctx context.Context, emb domain.Embedder, labels []string, opts ...Option) (*Space, error) {
	if len(labels) == 0 {
		return nil, ErrEmptyLabels
	}
	raw, err := emb.Encode(ctx, labels)
	if err != nil {
		return nil, fmt.Errorf("encode labels: %w", err)
	}
	if len(raw) != len(labels) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d labels", len(raw), len(labels))
	}
	vectors, err := NormalizeAll(raw)
	if err != nil {
		return nil, err
	}
	fp := ""
	if f, ok := emb.(domain.Fingerprinter); ok {
		fp = f.Fingerprint()
	}
	return build(labels, vectors, emb.Name(), fp, opts)
}

// FromArtifact rebuilds a space from persisted labels and vectors without
// calling an embedder. Vectors are re-normalized.
func FromArtifact(a *artifact.LabelSpace, opts ...Option) (*Space, error) {
	if len(a.Labels) == 0 {
		return nil, ErrEmptyLabels
	}
	if len(a.Labels) != len(a.Vectors) {
		return nil, fmt.Errorf("%w: %d labels, %d vectors", artifact.ErrCorrupt, len(a.Labels), len(a.Vectors))
	}
	vectors, err := NormalizeAll(a.Vectors)
	if err != nil {
		return nil, err
	}
	return build(append([]string(nil), a.Labels...), vectors, a.Embedder, a.Fingerprint, opts)
}

func build(labels []string, vectors [][]float64, embedder, fp string, opts []Option) (*Space, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.index == nil {
		o.index = memory.NewStorage()
	}
	if err := o.index.Init(len(vectors[0])); err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	if err := o.index.Add(vectors); err != nil {
		return nil, fmt.Errorf("index labels: %w", err)
	}
	return &Space{
		labels:      labels,
		vectors:     vectors,
		index:       o.index,
		embedder:    embedder,
		fingerprint: fp,
	}, nil
}

// Artifact returns the persistable form of the space.
func (s *Space) Artifact() *artifact.LabelSpace {
	return &artifact.LabelSpace{
		Embedder:    s.embedder,
		Fingerprint: s.fingerprint,
		Dimension:   s.Dimension(),
		Labels:      s.labels,
		Vectors:     s.vectors,
	}
}

// Lookup normalizes each query and returns up to topK matches per query,
// best first. topK larger than the label count is truncated.
func (s *Space) Lookup(queries [][]float64, topK int) ([][]vectorstore.Match, error) {
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}
	dim := s.Dimension()
	for i, q := range queries {
		if len(q) != dim {
			return nil, fmt.Errorf("query %d has %d dims, space has %d: %w", i, len(q), dim, vectorstore.ErrDimensionMismatch)
		}
	}
	normed, err := NormalizeAll(queries)
	if err != nil {
		return nil, err
	}
	return s.index.Search(normed, min(topK, len(s.labels)))
}

// Label returns the label stored at position i.
func (s *Space) Label(i int) string { return s.labels[i] }

// Labels returns the labels in index order. The slice must not be modified.
func (s *Space) Labels() []string { return s.labels }

func (s *Space) Len() int { return len(s.labels) }

func (s *Space) Dimension() int { return len(s.vectors[0]) }

// Embedder names the provider the label vectors came from.
func (s *Space) Embedder() string { return s.embedder }

// Fingerprint identifies the provider state the label vectors came from.
func (s *Space) Fingerprint() string { return s.fingerprint }

// Normalize returns v scaled to unit L2 norm. The input is not modified.
func Normalize(v []float64) ([]float64, error) {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) {
		return nil, ErrZeroVector
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out, nil
}

// NormalizeAll normalizes every row, reporting the first zero row by position.
func NormalizeAll(vs [][]float64) ([][]float64, error) {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		n, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
