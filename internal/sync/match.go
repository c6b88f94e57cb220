package sync

import (
	"time"

	"github.com/ntarasova/moodlog/internal/models"
	"github.com/ntarasova/moodlog/internal/remote"
)

// MatchTolerance is the OccurredAt proximity window used when one side has
// no sync id. The comparison is strict: a difference of exactly one second
// is already two distinct entries.
const MatchTolerance = time.Second

func withinTolerance(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < MatchTolerance
}

// sameEntry decides whether a local entry and a remote record denote the
// same logical entry. Sync id equality is authoritative in both directions.
// The timestamp window applies only when either side predates sync-id
// stamping; two records that both carry ids are never merged on proximity.
func sameEntry(localSyncID string, localOccurredAt time.Time, r remote.Record) bool {
	if localSyncID != "" && r.SyncID != "" {
		return localSyncID == r.SyncID
	}
	return withinTolerance(localOccurredAt, r.OccurredAt)
}

// matchRemote finds e's counterpart in the remote snapshot.
func matchRemote(e *models.Entry, snapshot []remote.Keyed) (remote.Keyed, bool) {
	for _, k := range snapshot {
		if e.SyncID != "" && k.Record.SyncID == e.SyncID {
			return k, true
		}
	}
	for _, k := range snapshot {
		if e.SyncID != "" && k.Record.SyncID != "" {
			continue
		}
		if withinTolerance(e.OccurredAt, k.Record.OccurredAt) {
			return k, true
		}
	}
	return remote.Keyed{}, false
}

// matchLocal finds the local counterpart of a pulled record. Returns the
// index into locals, or -1.
func matchLocal(r remote.Record, locals []models.Entry) int {
	for i := range locals {
		if r.SyncID != "" && locals[i].SyncID == r.SyncID {
			return i
		}
	}
	for i := range locals {
		if r.SyncID != "" && locals[i].SyncID != "" {
			continue
		}
		if withinTolerance(locals[i].OccurredAt, r.OccurredAt) {
			return i
		}
	}
	return -1
}
