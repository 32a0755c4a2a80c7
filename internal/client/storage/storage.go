// Package storage is the durable key/value store behind the session. Only
// the session store writes to it.
package storage

import "context"

// KV is a string key/value store. Get reports ok=false for a missing key.
// SetAll and DeleteAll apply all keys atomically.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetAll(ctx context.Context, values map[string]string) error
	DeleteAll(ctx context.Context, keys ...string) error
}

// Store is a KV that owns resources.
type Store interface {
	KV
	Close() error
}

// OpenStore opens the SQLite database at path, or an in-memory store that
// forgets the session on exit when path is empty.
func OpenStore(ctx context.Context, path string) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	s, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
