// Package vectorstore defines the flat inner-product index used by the label
// space. Entries are addressed by insertion position.
package vectorstore

import (
	"errors"
	"sort"
)

// ErrDimensionMismatch is returned when a vector's length differs from the
// dimension the index was initialized with.
var ErrDimensionMismatch = errors.New("vectorstore: dimension mismatch")

// Match is a single search hit: the position of the stored vector and its
// inner product with the query.
type Match struct {
	Index int
	Score float64
}

// Storage holds vectors and answers top-k inner-product queries.
// Results are ordered by descending score; equal scores are ordered by
// ascending Index.
type Storage interface {
	Init(dimension int) error
	Add(vectors [][]float64) error
	Search(queries [][]float64, topK int) ([][]Match, error)
	Len() int
	Dimension() int
	Clear() error
}

// SortMatches orders matches by descending score, then ascending index.
func SortMatches(m []Match) {
	sort.Slice(m, func(i, j int) bool {
		if m[i].Score != m[j].Score {
			return m[i].Score > m[j].Score
		}
		return m[i].Index < m[j].Index
	})
}
