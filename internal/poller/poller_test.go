package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
	"github.com/preston-bernstein/scoreboard-overlay/internal/metrics"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers"
	"github.com/preston-bernstein/scoreboard-overlay/internal/store"
	"github.com/preston-bernstein/scoreboard-overlay/internal/teststubs"
)

func sampleState(score int) jsonval.Value {
	return jsonval.MustFromAny(map[string]any{
		"home": map[string]any{"title": "Home", "score": score},
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func TestPollerFetchesImmediatelyAndStoresState(t *testing.T) {
	provider := &teststubs.StubProvider{
		State:  sampleState(3),
		Notify: make(chan struct{}),
	}
	states := store.NewStateStore()

	p := New(provider, states, nil, nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial fetch")
	}
	waitFor(t, func() bool { _, ok := states.Current(); return ok })

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}

	snap, _ := states.Current()
	if got := snap.State.Get("home").Get("score").String(); got != "3" {
		t.Fatalf("unexpected stored score %q", got)
	}
	if p.Status().LastSeq != snap.Seq {
		t.Fatalf("expected status seq %d, got %d", snap.Seq, p.Status().LastSeq)
	}
}

func TestPollerKeepsPollingOnInterval(t *testing.T) {
	provider := &teststubs.StubProvider{State: sampleState(1)}
	sink := &teststubs.StubStateSink{}

	p := New(provider, sink, nil, nil, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	waitFor(t, func() bool { return sink.Count() >= 3 })
	_ = p.Stop(context.Background())
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	provider := &teststubs.StubProvider{
		State:  sampleState(0),
		Notify: make(chan struct{}),
	}

	p := New(provider, &teststubs.StubStateSink{}, nil, nil, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial fetch")
	}

	cancel()
	waitFor(t, func() bool {
		p.startMu.Lock()
		defer p.startMu.Unlock()
		return p.stopped
	})
	time.Sleep(20 * time.Millisecond) // let an in-flight run drain

	callsAfterStop := provider.Calls.Load()
	time.Sleep(30 * time.Millisecond)
	if provider.Calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional fetches after stop; before=%d after=%d", callsAfterStop, provider.Calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubProvider{}, &teststubs.StubStateSink{}, nil, nil, time.Hour)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubProvider{}, &teststubs.StubStateSink{}, nil, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	first := p.scheduler
	p.Start(ctx) // should no-op
	if p.scheduler != first {
		t.Fatal("expected second start to keep the scheduler")
	}

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerStartAfterStopIsNoop(t *testing.T) {
	provider := &teststubs.StubProvider{}
	p := New(provider, &teststubs.StubStateSink{}, nil, nil, time.Millisecond)
	_ = p.Stop(context.Background())

	p.Start(context.Background())
	if p.scheduler != nil {
		t.Fatal("expected no scheduler after stop")
	}
	time.Sleep(10 * time.Millisecond)
	if provider.Calls.Load() != 0 {
		t.Fatalf("expected no fetches, got %d", provider.Calls.Load())
	}
}

func TestPollerDefaultsInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		p := New(&teststubs.StubProvider{}, &teststubs.StubStateSink{}, nil, nil, interval)
		if p.Interval() != defaultInterval {
			t.Fatalf("expected default interval %s, got %s", defaultInterval, p.Interval())
		}
	}
}

func TestPollerFailureRetainsPreviousState(t *testing.T) {
	provider := &teststubs.StubProvider{State: sampleState(7)}
	states := store.NewStateStore()
	rec := metrics.NewRecorder()

	p := New(provider, states, nil, rec, time.Second)
	ctx := context.Background()

	p.fetchOnce(ctx)
	before, ok := states.Current()
	if !ok {
		t.Fatal("expected state after first fetch")
	}

	provider.SetResult(jsonval.Undefined, errors.New("network down"))
	p.fetchOnce(ctx)
	p.fetchOnce(ctx)

	after, _ := states.Current()
	if after.Seq != before.Seq {
		t.Fatalf("expected previous snapshot retained, seq %d -> %d", before.Seq, after.Seq)
	}
	if got := after.State.Get("home").Get("score").String(); got != "7" {
		t.Fatalf("expected score 7 retained, got %q", got)
	}
	if p.Status().ConsecutiveFailures != 2 {
		t.Fatalf("expected 2 failures, got %d", p.Status().ConsecutiveFailures)
	}
}

func TestPollerStatusTracksFailuresAndSuccess(t *testing.T) {
	provider := &teststubs.StubProvider{Err: errors.New("boom")}

	p := New(provider, &teststubs.StubStateSink{}, nil, nil, time.Millisecond)
	ctx := context.Background()

	p.fetchOnce(ctx)
	status := p.Status()
	if status.ConsecutiveFailures != 1 {
		t.Fatalf("expected 1 failure, got %d", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Fatalf("expected last error recorded")
	}
	if !status.LastSuccess.IsZero() {
		t.Fatalf("expected no success recorded yet")
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	provider.SetResult(sampleState(1), nil)
	p.fetchOnce(ctx)
	status = p.Status()
	if status.ConsecutiveFailures != 0 || status.LastError != "" {
		t.Fatalf("expected failures reset, got %+v", status)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestStatusIsReadyThreshold(t *testing.T) {
	ok := Status{LastSuccess: time.Now(), ConsecutiveFailures: 2}
	if !ok.IsReady() {
		t.Fatal("expected ready below failure threshold")
	}
	failing := Status{LastSuccess: time.Now(), ConsecutiveFailures: 3}
	if failing.IsReady() {
		t.Fatal("expected not ready at failure threshold")
	}
}

func TestPollerRecordsMetricsAndLogs(t *testing.T) {
	provider := &teststubs.StubProvider{Err: errors.New("fail")}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := New(provider, &teststubs.StubStateSink{}, logger, metrics.NewRecorder(), time.Second)
	p.fetchOnce(context.Background())

	provider.SetResult(sampleState(2), nil)
	p.fetchOnce(context.Background())
}

func TestPollerNilProviderAndSink(t *testing.T) {
	p := New(nil, nil, nil, nil, time.Minute)
	p.fetchOnce(context.Background())
	if p.Status().LastError != providers.ErrProviderUnavailable.Error() {
		t.Fatalf("expected unavailable error, got %q", p.Status().LastError)
	}

	p = New(&teststubs.StubProvider{State: sampleState(1)}, nil, nil, nil, time.Minute)
	p.fetchOnce(context.Background())
	if !p.Status().IsReady() {
		t.Fatal("expected success without a sink")
	}
}

func TestPollerProviderExposesWrappedProvider(t *testing.T) {
	provider := &teststubs.StubProvider{}
	p := New(provider, &teststubs.StubStateSink{}, nil, nil, time.Minute)

	if got := p.Provider(); got != provider {
		t.Fatalf("expected provider returned")
	}
}

func BenchmarkPollerFetchOnce(b *testing.B) {
	provider := &teststubs.StubProvider{State: sampleState(100)}
	p := New(provider, store.NewStateStore(), nil, nil, time.Second)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.fetchOnce(ctx)
	}
}

func TestPollerStopHonorsContextWhileFetchBlocks(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	provider := providers.StateProviderFunc(func(ctx context.Context) (jsonval.Value, error) {
		_ = ctx
		once.Do(func() { close(entered) })
		<-release
		return sampleState(1), nil
	})
	defer close(release)

	p := New(provider, store.NewStateStore(), nil, nil, time.Hour)
	p.Start(context.Background())

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch to start")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Stop(stopCtx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("stop ignored its context, took %s", elapsed)
	}
}
