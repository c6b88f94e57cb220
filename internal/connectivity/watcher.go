package connectivity

import (
	"context"
	"time"
)

// Watcher polls an Oracle and invokes onRestore every time connectivity
// transitions from offline to online. The first successful probe after
// start also fires, so a sync happens on app start when the network is up.
type Watcher struct {
	oracle   Oracle
	interval time.Duration
}

func NewWatcher(oracle Oracle, interval time.Duration) *Watcher {
	return &Watcher{oracle: oracle, interval: interval}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onRestore func(ctx context.Context)) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	online := false
	check := func() {
		probeCtx, cancel := context.WithTimeout(ctx, w.interval)
		defer cancel()

		now := w.oracle.Online(probeCtx)
		if now && !online {
			onRestore(ctx)
		}
		online = now
	}

	check()
	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}
