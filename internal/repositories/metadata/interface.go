// Package metadata is a small key/value store used for session state
// persisted between runs (auth token, user id).
package metadata

import "context"

type Repository interface {
	// Get returns the stored value, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
