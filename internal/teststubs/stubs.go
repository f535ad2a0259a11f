package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
	"github.com/preston-bernstein/scoreboard-overlay/internal/store"
)

// StubProvider is a test double for providers.StateProvider.
type StubProvider struct {
	mu     sync.Mutex
	State  jsonval.Value
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}
}

// FetchState returns the configured state and error while tracking calls.
func (s *StubProvider) FetchState(ctx context.Context) (jsonval.Value, error) {
	_ = ctx
	s.mu.Lock()
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	state, err := s.State, s.Err
	s.mu.Unlock()
	s.Calls.Add(1)
	return state, err
}

// SetResult swaps the state and error returned by later calls.
func (s *StubProvider) SetResult(state jsonval.Value, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = state
	s.Err = err
}

// StubStateSink is a test double for poller.StateSink.
type StubStateSink struct {
	mu      sync.Mutex
	Written []jsonval.Value
}

// Set records the state for verification in tests.
func (w *StubStateSink) Set(state jsonval.Value) store.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Written = append(w.Written, state)
	return store.Snapshot{State: state, Seq: uint64(len(w.Written))}
}

// Count returns how many states were written.
func (w *StubStateSink) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Written)
}

// Last returns the most recent state, or Undefined.
func (w *StubStateSink) Last() jsonval.Value {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.Written) == 0 {
		return jsonval.Undefined
	}
	return w.Written[len(w.Written)-1]
}
