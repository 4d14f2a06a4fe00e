package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dreytengan/futurepaths/internal/vectorstore"
)

// Storage is an in-memory flat index using brute-force inner product.
// It is safe for concurrent readers once built.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	return nil
}

func (s *Storage) Add(vectors [][]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range vectors {
		if len(v) != s.dimension {
			return fmt.Errorf("vector %d has %d dims, index has %d: %w", i, len(v), s.dimension, vectorstore.ErrDimensionMismatch)
		}
	}
	for _, v := range vectors {
		s.vectors = append(s.vectors, append([]float64(nil), v...))
	}
	return nil
}

func (s *Storage) Search(queries [][]float64, topK int) ([][]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		return nil, errors.New("topK must be positive")
	}
	if topK > len(s.vectors) {
		topK = len(s.vectors)
	}
	out := make([][]vectorstore.Match, len(queries))
	for qi, q := range queries {
		if len(q) != s.dimension {
			return nil, fmt.Errorf("query %d has %d dims, index has %d: %w", qi, len(q), s.dimension, vectorstore.ErrDimensionMismatch)
		}
		all := make([]vectorstore.Match, len(s.vectors))
		for i := range s.vectors {
			all[i] = vectorstore.Match{Index: i, Score: dot(s.vectors[i], q)}
		}
		vectorstore.SortMatches(all)
		out[qi] = all[:topK]
	}
	return out, nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

func (s *Storage) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	return nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
