package storage

import "context"

// KeyValueStore persists opaque values under string keys. Put replaces the
// whole value; there are no partial writes.
type KeyValueStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}
