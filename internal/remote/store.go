package remote

import "context"

// Store is the remote store contract consumed by the reconciler. All
// operations require a live session; implementations report
// common.ErrNetwork on transport failure and common.ErrAuth when the bearer
// token is rejected.
type Store interface {
	// ListAll returns the full snapshot of the user's journal collection,
	// tombstoned documents included. No pagination: re-reading the whole
	// collection per pass is an accepted tradeoff at personal-journal
	// volumes.
	ListAll(ctx context.Context, userID string) ([]Keyed, error)

	// Create inserts a record; the store assigns and returns the key.
	Create(ctx context.Context, userID string, rec Record) (string, error)

	// Replace fully overwrites the record stored under key.
	Replace(ctx context.Context, userID, key string, rec Record) error

	// Delete removes the record stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, userID, key string) error

	// GetProfile fetches the profile document, or common.ErrNotFound.
	GetProfile(ctx context.Context, userID string) (*ProfileRecord, error)

	// PutProfile overwrites the profile document wholesale.
	PutProfile(ctx context.Context, userID string, p ProfileRecord) error
}
