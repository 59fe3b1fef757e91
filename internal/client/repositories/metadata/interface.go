// Package metadata provides the key/value backends the credential store
// persists into: SQLite (durable, per device), Redis (shared) and memory.
package metadata

import (
	"context"
)

// Repository is a small key/value store.
//
// Get returns (nil, nil) for an absent key. Delete removes all given keys
// as one operation, so readers never observe a partial delete, and is
// idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
