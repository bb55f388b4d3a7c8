// Package store holds the space address dedup table: a string to string
// mapping where each key is written at most once.
package store

import "context"

// Store is a write-once key value store. SetIfAbsent reports whether this call
// wrote the value; a key that is already present is left untouched and is not
// an error. Implementations must make the check and the write atomic.
type Store interface {
	SetIfAbsent(ctx context.Context, key, value string) (bool, error)
	Close() error
}

// Backend names used in logs and metric labels.
const (
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
)
