// Package kv is a small byte-oriented key-value store used to memoize
// embeddings between runs. Keys are flat strings; callers namespace them.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Entry is a key-value pair written by BatchSet.
type Entry struct {
	Key   string
	Value []byte
}

// Store is the interface implemented by the Badger and in-memory backends.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// BatchSet stores multiple pairs in one write batch.
	BatchSet(ctx context.Context, entries []Entry) error

	Close() error
}
