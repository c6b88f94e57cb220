// Package profiles implements the local read-through cache for user
// profiles. Unlike journal entries, the cache carries no dirty or tombstone
// state: a successful remote fetch always overwrites it wholesale.
package profiles

import (
	"context"

	"github.com/ntarasova/moodlog/internal/models"
)

// Repository is the contract for the profile cache.
type Repository interface {
	// Get returns the cached profile for the user, or common.ErrNotFound.
	Get(ctx context.Context, userID string) (*models.Profile, error)

	// Put overwrites the cached profile wholesale.
	Put(ctx context.Context, p *models.Profile) error

	// Delete drops the cache row, e.g. on sign-out.
	Delete(ctx context.Context, userID string) error
}
