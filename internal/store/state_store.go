package store

import (
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

// Snapshot is one successfully polled state document. It must not be
// modified after it is stored.
type Snapshot struct {
	State      jsonval.Value
	ReceivedAt time.Time
	Seq        uint64
}

// StateStore keeps the latest polled snapshot. The poller is the only writer;
// any number of readers may call Current concurrently and always observe a
// whole snapshot.
type StateStore struct {
	current atomic.Pointer[Snapshot]
	seq     atomic.Uint64
	now     func() time.Time
}

// NewStateStore constructs an empty StateStore.
func NewStateStore() *StateStore {
	return &StateStore{now: time.Now}
}

// Set replaces the current snapshot in a single atomic store.
func (s *StateStore) Set(state jsonval.Value) Snapshot {
	snap := &Snapshot{
		State:      state,
		ReceivedAt: s.now(),
		Seq:        s.seq.Add(1),
	}
	s.current.Store(snap)
	return *snap
}

// Current returns the latest snapshot, or false if nothing was stored yet.
func (s *StateStore) Current() (Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}
