package db

import (
	"context"
	"time"
)

// Store is everything the redis driver offers. Repositories depend on the
// narrow interfaces below or declare their own.
type Store interface {
	Pinger
	HashStore
	JSONStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore backs small per-app dictionaries (tag names).
type HashStore interface {
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// JSONStore provides JSON document operations.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	// JSONGet returns ErrKeyNotFound for a missing key.
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	// JSONGetMulti returns one document per key; missing keys yield nil.
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// IndexManager creates and inspects FT indexes.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	// IndexInfo returns ErrIndexNotFound when the index does not exist.
	IndexInfo(ctx context.Context, name string) (*IndexInfo, error)
}

// Searcher runs FT.SEARCH.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
}
