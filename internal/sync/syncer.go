// Package sync implements the reconciler that keeps the on-device store and
// the remote journal store convergent: a push pass that drains dirty local
// entries (tombstones included) and a pull pass that applies remote changes
// with last-write-wins conflict resolution.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ntarasova/moodlog/internal/connectivity"
	"github.com/ntarasova/moodlog/internal/logging"
	"github.com/ntarasova/moodlog/internal/models"
	"github.com/ntarasova/moodlog/internal/remote"
	"github.com/ntarasova/moodlog/internal/repositories/entries"
	"github.com/ntarasova/moodlog/internal/repositories/profiles"
	"github.com/ntarasova/moodlog/internal/session"
)

// Syncer orchestrates push and pull passes. Passes are serialized behind a
// mutex so concurrent triggers can never interleave per-record
// read/modify/write sequences for the same user.
type Syncer struct {
	entries  entries.Repository
	profiles profiles.Repository
	store    remote.Store
	session  session.Session
	oracle   connectivity.Oracle
	log      logging.Logger
	now      func() time.Time

	mu sync.Mutex
}

// New wires a Syncer. The logger may be nil.
func New(
	entryRepo entries.Repository,
	profileRepo profiles.Repository,
	store remote.Store,
	sess session.Session,
	oracle connectivity.Oracle,
	log logging.Logger,
) *Syncer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Syncer{
		entries:  entryRepo,
		profiles: profileRepo,
		store:    store,
		session:  sess,
		oracle:   oracle,
		log:      log,
		now:      time.Now,
	}
}

// ready gates a pass: without a session or without connectivity there is
// nothing to reconcile and the pass is a successful no-op.
func (s *Syncer) ready(ctx context.Context) (string, bool) {
	userID, ok := s.session.UserID()
	if !ok {
		return "", false
	}
	if !s.oracle.Online(ctx) {
		return "", false
	}
	return userID, true
}

// PushAll drains the dirty queue. Each record is pushed independently: a
// failure is logged, the record stays dirty for the next pass, and the loop
// moves on. Only the initial queries abort the whole pass.
func (s *Syncer) PushAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.ready(ctx)
	if !ok {
		return nil
	}
	log := s.log.With("user_id", userID, "pass", "push")

	dirty, err := s.entries.ListDirty(ctx, userID)
	if err != nil {
		return fmt.Errorf("list dirty entries: %w", err)
	}
	if len(dirty) == 0 {
		return nil
	}

	snapshot, err := s.store.ListAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch remote snapshot: %w", err)
	}

	var pushed, failed int
	for i := range dirty {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e := &dirty[i]
		if err := s.pushOne(ctx, userID, e, snapshot); err != nil {
			log.Warn(ctx, "push failed, will retry next pass", "sync_id", e.SyncID, "error", err)
			failed++
			continue
		}
		pushed++
	}

	log.Info(ctx, "push pass finished", "pushed", pushed, "failed", failed)
	return nil
}

func (s *Syncer) pushOne(ctx context.Context, userID string, e *models.Entry, snapshot []remote.Keyed) error {
	match, found := matchRemote(e, snapshot)

	if e.Tombstoned {
		if found {
			if match.Record.SyncID == "" {
				// legacy row no other device can correlate: just remove it
				if err := s.store.Delete(ctx, userID, match.Key); err != nil {
					return err
				}
			} else {
				// leave a tombstone marker so other devices pull the deletion
				if err := s.store.Replace(ctx, userID, match.Key, remote.FromEntry(e)); err != nil {
					return err
				}
			}
		}
		// whether or not a remote copy existed, the deletion is now
		// propagated (or confirmed unnecessary): drop the local row
		return s.entries.HardDelete(ctx, e)
	}

	if found {
		if err := s.store.Replace(ctx, userID, match.Key, remote.FromEntry(e)); err != nil {
			return err
		}
		e.RemoteKey = match.Key
	} else {
		key, err := s.store.Create(ctx, userID, remote.FromEntry(e))
		if err != nil {
			return err
		}
		e.RemoteKey = key
	}

	e.Dirty = false
	return s.entries.Upsert(ctx, e)
}

// PullAll applies the remote snapshot to the local store. A snapshot fetch
// failure aborts the pass with local data untouched; per-record apply
// failures are logged and skipped.
func (s *Syncer) PullAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.ready(ctx)
	if !ok {
		return nil
	}
	log := s.log.With("user_id", userID, "pass", "pull")

	snapshot, err := s.store.ListAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch remote snapshot: %w", err)
	}

	locals, err := s.entries.ListAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("list local entries: %w", err)
	}

	var applied, failed int
	for _, keyed := range snapshot {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		changed, err := s.pullOne(ctx, userID, keyed, locals)
		if err != nil {
			log.Warn(ctx, "pull apply failed", "remote_key", keyed.Key, "error", err)
			failed++
			continue
		}
		if changed {
			applied++
		}
	}

	log.Info(ctx, "pull pass finished", "applied", applied, "failed", failed)
	return nil
}

func (s *Syncer) pullOne(ctx context.Context, userID string, keyed remote.Keyed, locals []models.Entry) (bool, error) {
	rec := keyed.Record
	idx := matchLocal(rec, locals)

	if rec.Deleted() {
		if idx < 0 {
			// deletion of something we never had
			return false, nil
		}
		local := &locals[idx]
		if local.LastUpdated.After(rec.LastUpdated) {
			// the local edit is newer than the deletion: local wins, a
			// later push resurrects the entry
			return false, nil
		}
		return true, s.entries.HardDelete(ctx, local)
	}

	if idx < 0 {
		e := rec.ToEntry(userID, keyed.Key)
		if e.SyncID == "" {
			// records from before sync-id stamping get one on arrival
			e.SyncID = uuid.NewString()
		}
		return true, s.entries.Upsert(ctx, &e)
	}

	local := &locals[idx]
	if !rec.LastUpdated.After(local.LastUpdated) {
		// the local copy is authoritative and stays as is; if it is still
		// dirty, the next push pass sends it
		return false, nil
	}

	// remote wins: overwrite the payload in place, keeping the local
	// surrogate key (and the local sync id when the remote lacks one)
	e := rec.ToEntry(userID, keyed.Key)
	e.LocalID = local.LocalID
	if e.SyncID == "" {
		e.SyncID = local.SyncID
	}
	return true, s.entries.Upsert(ctx, &e)
}
