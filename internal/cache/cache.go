// Package cache provides string-keyed blob stores used as the ledger's local cache.
package cache

import "context"

// Store is a minimal key/value store for serialized ledger data.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
