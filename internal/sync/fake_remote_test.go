package sync

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ntarasova/moodlog/internal/common"
	"github.com/ntarasova/moodlog/internal/remote"
)

// fakeRemote is an in-memory remote.Store with per-operation fault
// injection and call counting.
type fakeRemote struct {
	mu      sync.Mutex
	seq     int
	journal map[string]map[string]remote.Record
	profile map[string]remote.ProfileRecord

	calls int

	listErr error
	// failSyncIDs makes Create/Replace fail for records with these ids
	failSyncIDs map[string]bool
	// onList, when set, runs at the top of ListAll outside the lock
	onList func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		journal: map[string]map[string]remote.Record{},
		profile: map[string]remote.ProfileRecord{},
	}
}

func (f *fakeRemote) userJournal(userID string) map[string]remote.Record {
	if f.journal[userID] == nil {
		f.journal[userID] = map[string]remote.Record{}
	}
	return f.journal[userID]
}

func (f *fakeRemote) ListAll(ctx context.Context, userID string) ([]remote.Keyed, error) {
	if f.onList != nil {
		f.onList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	j := f.userJournal(userID)
	keys := make([]string, 0, len(j))
	for k := range j {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]remote.Keyed, 0, len(keys))
	for _, k := range keys {
		out = append(out, remote.Keyed{Key: k, Record: j[k]})
	}
	return out, nil
}

func (f *fakeRemote) Create(ctx context.Context, userID string, rec remote.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failSyncIDs[rec.SyncID] {
		return "", fmt.Errorf("%w: injected create fault", common.ErrNetwork)
	}
	f.seq++
	key := fmt.Sprintf("-k%03d", f.seq)
	f.userJournal(userID)[key] = rec
	return key, nil
}

func (f *fakeRemote) Replace(ctx context.Context, userID, key string, rec remote.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failSyncIDs[rec.SyncID] {
		return fmt.Errorf("%w: injected replace fault", common.ErrNetwork)
	}
	f.userJournal(userID)[key] = rec
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, userID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	delete(f.userJournal(userID), key)
	return nil
}

func (f *fakeRemote) GetProfile(ctx context.Context, userID string) (*remote.ProfileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.profile[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (f *fakeRemote) PutProfile(ctx context.Context, userID string, p remote.ProfileRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.profile[userID] = p
	return nil
}

// live returns the non-tombstoned records for the user.
func (f *fakeRemote) live(userID string) []remote.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []remote.Record
	for _, r := range f.journal[userID] {
		if !r.Deleted() {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
