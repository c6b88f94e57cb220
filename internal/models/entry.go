// Package models defines the records moved between the local and remote
// stores, together with the dirty/tombstone metadata that drives sync.
package models

import "time"

// Mood is the five-step mood scale recorded with every journal entry.
type Mood int

const (
	MoodAwful Mood = iota + 1
	MoodBad
	MoodMeh
	MoodGood
	MoodRad
)

func (m Mood) String() string {
	switch m {
	case MoodAwful:
		return "awful"
	case MoodBad:
		return "bad"
	case MoodMeh:
		return "meh"
	case MoodGood:
		return "good"
	case MoodRad:
		return "rad"
	default:
		return "unknown"
	}
}

// Score returns the numeric value used by mood charts.
func (m Mood) Score() int { return int(m) }

// Entry is the unit of synchronization.
//
// LocalID is the surrogate key assigned by the local store and is never
// transmitted. SyncID is a client-assigned UUID stamped at creation and
// carried in both stores; it is the primary cross-store correlation key.
// RemoteKey is the opaque key the remote store assigns on first push and is
// empty until then.
type Entry struct {
	LocalID  int64
	SyncID   string
	UserID   string
	RemoteKey string

	// OccurredAt is the moment the entry is about (when the mood was
	// logged), not when the row was written. Kept as the fallback
	// correlation signal for records that predate SyncID stamping.
	OccurredAt time.Time

	Mood     Mood
	Note     string
	ImageRef string

	// LastUpdated moves together with Dirty: every content or tombstone
	// mutation refreshes it. It drives last-write-wins conflict resolution.
	LastUpdated time.Time

	// Dirty is true whenever local content differs from the last known
	// synced state. Cleared only after a confirmed remote write.
	Dirty bool

	// Tombstoned marks a user deletion. The row is hidden from normal reads
	// but kept locally until the deletion is confirmed propagated.
	Tombstoned bool

	// DeletedAt is set when the entry is tombstoned and travels to the
	// remote store so other devices can honor the deletion.
	DeletedAt *time.Time
}

// Touch refreshes the mutation metadata. Dirty and LastUpdated always move
// together.
func (e *Entry) Touch(now time.Time) {
	e.LastUpdated = now.UTC()
	e.Dirty = true
}

// Tombstone marks the entry deleted and dirty so the next push propagates
// the deletion.
func (e *Entry) Tombstone(now time.Time) {
	now = now.UTC()
	e.Tombstoned = true
	e.DeletedAt = &now
	e.Touch(now)
}

// Profile is the singleton-per-user record synchronized independently of
// journal entries. The local copy is a read-through cache: a successful
// remote fetch always overwrites it.
type Profile struct {
	UserID      string
	DisplayName string
	Email       string
	AvatarRef   string

	// FetchedAt records when the cache row was last refreshed from the
	// remote store.
	FetchedAt time.Time
}
