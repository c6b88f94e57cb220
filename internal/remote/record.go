// Package remote implements the adapter for the network journal store: a
// JSON document store that assigns its own opaque keys on insert, laid out
// as users/{userId}/journal/{key} plus a single users/{userId}/profile
// document.
package remote

import (
	"time"

	"github.com/ntarasova/moodlog/internal/models"
)

// Record is the wire form of a journal entry. The local surrogate key and
// the dirty/tombstone flags never travel; deletions travel as the deletedAt
// marker so other devices can honor them.
type Record struct {
	SyncID      string     `json:"syncId,omitempty"`
	UserID      string     `json:"userId"`
	OccurredAt  time.Time  `json:"occurredAt"`
	Mood        int        `json:"mood"`
	Note        string     `json:"note,omitempty"`
	ImageRef    string     `json:"imageRef,omitempty"`
	LastUpdated time.Time  `json:"lastUpdated"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// Deleted reports whether the record is a remote tombstone.
func (r Record) Deleted() bool { return r.DeletedAt != nil }

// Keyed pairs a record with the store-assigned key it lives under.
type Keyed struct {
	Key    string
	Record Record
}

// ProfileRecord is the wire form of the per-user profile document.
type ProfileRecord struct {
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	AvatarRef   string `json:"avatarRef,omitempty"`
}

// FromEntry builds the wire record for a local entry.
func FromEntry(e *models.Entry) Record {
	return Record{
		SyncID:      e.SyncID,
		UserID:      e.UserID,
		OccurredAt:  e.OccurredAt.UTC(),
		Mood:        int(e.Mood),
		Note:        e.Note,
		ImageRef:    e.ImageRef,
		LastUpdated: e.LastUpdated.UTC(),
		DeletedAt:   e.DeletedAt,
	}
}

// ToEntry builds a local entry from a pulled record. The result carries no
// LocalID; callers preserve the existing one when overwriting in place.
func (r Record) ToEntry(userID, remoteKey string) models.Entry {
	return models.Entry{
		SyncID:      r.SyncID,
		UserID:      userID,
		RemoteKey:   remoteKey,
		OccurredAt:  r.OccurredAt.UTC(),
		Mood:        models.Mood(r.Mood),
		Note:        r.Note,
		ImageRef:    r.ImageRef,
		LastUpdated: r.LastUpdated.UTC(),
		Dirty:       false,
		Tombstoned:  r.Deleted(),
		DeletedAt:   r.DeletedAt,
	}
}
