// Package kvstore provides the local persisted key-value capability the
// session manager stores its artifacts in.
package kvstore

import "context"

// Repo is a flat string key-value store.
type Repo interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Batch is implemented by repos that can apply several writes as one unit,
// so that readers never observe a mix of old and new values.
type Batch interface {
	Repo
	SetAll(ctx context.Context, values map[string]string) error
	RemoveAll(ctx context.Context, keys ...string) error
}
