package db

import (
	"context"
	"time"
)

// Store is the key-value facade the document source reads through.
type Store interface {
	Pinger
	KVReader
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Value is the outcome of reading one key in a pipelined batch.
type Value struct {
	Key  string
	Data []byte
	Err  error
}

// KVReader provides read-only key-value operations.
type KVReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) []Value
	Scan(ctx context.Context, pattern string) ([]string, error)
}
