// Package entries implements the local store adapter for journal entries.
// It exposes the soft-delete semantics the synchronizer relies on: tombstoned
// rows stay in the table until the reconciler confirms the deletion remotely
// and hard-deletes them.
package entries

import (
	"context"

	"github.com/ntarasova/moodlog/internal/models"
)

// Repository is the contract consumed by the UI layer and the reconciler.
type Repository interface {
	// ListActive returns all non-tombstoned entries for the user, newest
	// OccurredAt first. This is the normal read surface.
	ListActive(ctx context.Context, userID string) ([]models.Entry, error)

	// ListAll returns every entry for the user, tombstoned or not. The
	// reconciler's pull pass matches against this snapshot.
	ListAll(ctx context.Context, userID string) ([]models.Entry, error)

	// ListDirty returns all entries with the dirty flag set, tombstoned or
	// not. This is the reconciler's push queue; order is unspecified.
	ListDirty(ctx context.Context, userID string) ([]models.Entry, error)

	// GetBySyncID fetches a single entry by its client-assigned sync id.
	// Returns common.ErrNotFound when absent.
	GetBySyncID(ctx context.Context, syncID string) (*models.Entry, error)

	// Upsert inserts when LocalID is unset (and assigns it), otherwise
	// overwrites the row identified by LocalID.
	Upsert(ctx context.Context, e *models.Entry) error

	// SoftDelete tombstones the entry: sets the tombstone and dirty flags
	// and refreshes LastUpdated. The row is not removed.
	SoftDelete(ctx context.Context, e *models.Entry) error

	// HardDelete physically removes the row. Only the reconciler calls
	// this, after the remote deletion is confirmed or confirmed
	// unnecessary.
	HardDelete(ctx context.Context, e *models.Entry) error
}
