// Package securestore implements the on-device encrypted key/value store
// that backs every authentication record.
//
// The contract is deliberately small: per-key Get/Set/Delete, each atomic on
// its own. Implementations that can write several keys atomically also
// implement Batcher.
package securestore

import "context"

// Store is an encrypted key/value store. Get reports absence with
// ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Batcher writes several keys in one atomic step.
type Batcher interface {
	SetMany(ctx context.Context, items map[string]string) error
}
