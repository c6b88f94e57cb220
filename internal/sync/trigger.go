package sync

import (
	"context"
	"sync"
)

// Trigger is the fire-and-forget entry point the UI layer and the
// connectivity watcher invoke after local mutations, on app start and when
// the network comes back. Requests arriving while a cycle is already
// running are coalesced into one trailing cycle instead of piling up.
type Trigger struct {
	syncer *Syncer

	mu      sync.Mutex
	running bool
	pending bool
}

func NewTrigger(s *Syncer) *Trigger {
	return &Trigger{syncer: s}
}

// Request schedules a push+pull cycle without blocking the caller. Safe to
// call with no session or no connectivity; the passes no-op.
func (t *Trigger) Request(ctx context.Context) {
	t.mu.Lock()
	if t.running {
		t.pending = true
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	// the cycle must outlive the caller's request-scoped context
	go t.run(context.WithoutCancel(ctx))
}

func (t *Trigger) run(ctx context.Context) {
	for {
		if err := t.syncer.PushAll(ctx); err != nil {
			t.syncer.log.Error(ctx, "push pass aborted", "error", err)
		}
		if err := t.syncer.PullAll(ctx); err != nil {
			t.syncer.log.Error(ctx, "pull pass aborted", "error", err)
		}

		t.mu.Lock()
		if !t.pending {
			t.running = false
			t.mu.Unlock()
			return
		}
		t.pending = false
		t.mu.Unlock()
	}
}

// Idle reports whether no cycle is in flight.
func (t *Trigger) Idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.running
}
