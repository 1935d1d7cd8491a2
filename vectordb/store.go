package vectordb

import (
	"context"
	"errors"
)

// ErrClosed is returned when the store has been closed.
var ErrClosed = errors.New("vectordb: store closed")

// Store persists label embeddings between catalog loads.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the record for key; ok is false on a miss.
	Get(ctx context.Context, key string) (record *Record, ok bool, err error)

	// Put stores or replaces the record for key.
	Put(ctx context.Context, key string, record *Record) error

	// Close releases resources.
	Close() error
}
