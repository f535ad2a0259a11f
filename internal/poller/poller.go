package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
	"github.com/preston-bernstein/scoreboard-overlay/internal/logging"
	"github.com/preston-bernstein/scoreboard-overlay/internal/metrics"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers"
	"github.com/preston-bernstein/scoreboard-overlay/internal/store"
)

const (
	defaultInterval = time.Second
	jobName         = "state-poll"
	readyFailures   = 3
)

// StateSink receives each successfully fetched state document.
type StateSink interface {
	Set(state jsonval.Value) store.Snapshot
}

// Poller fetches the state document on an interval and hands every good
// document to its sink. A failed fetch leaves the sink untouched; the next
// run happens one interval later with no backoff.
type Poller struct {
	provider providers.StateProvider
	sink     StateSink
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	startMu   sync.Mutex
	started   bool
	stopped   bool
	scheduler gocron.Scheduler
	cancel    context.CancelFunc

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poll loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastSeq             uint64
}

// IsReady reports whether the poller has had a success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailures
}

// New constructs a Poller. A non-positive interval falls back to one second.
func New(provider providers.StateProvider, sink StateSink, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		provider: provider,
		sink:     sink,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
	}
}

// Interval returns the configured poll interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start schedules polling until ctx is cancelled or Stop is called. The
// first fetch runs immediately. Runs never overlap: a fetch slower than the
// interval pushes the next run back.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	s, err := gocron.NewScheduler()
	if err != nil {
		logging.Error(p.logger, "poller scheduler init failed", err)
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	_, err = s.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(func() { p.fetchOnce(runCtx) }),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = s.Shutdown()
		logging.Error(p.logger, "poller job registration failed", err)
		return
	}
	p.scheduler = s
	p.cancel = cancel
	s.Start()
	logging.Info(p.logger, "poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))

	go func() {
		<-runCtx.Done()
		_ = p.Stop(context.Background())
	}()
}

// Stop halts the poll loop and waits for an in-flight fetch to finish, or
// until ctx is done. A stopped Poller cannot be started again.
func (p *Poller) Stop(ctx context.Context) error {
	p.startMu.Lock()
	p.stopped = true
	s, cancel := p.scheduler, p.cancel
	p.scheduler, p.cancel = nil, nil
	p.startMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if s == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- s.Shutdown() }()
	select {
	case err := <-done:
		logging.Info(p.logger, "poller stopped")
		return err
	case <-ctx.Done():
		logging.Warn(p.logger, "poller stop timed out waiting for in-flight fetch")
		return ctx.Err()
	}
}

func (p *Poller) fetchOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := p.now()
	p.recordAttempt(start)
	if p.provider == nil {
		p.recordFailure(providers.ErrProviderUnavailable, start)
		logging.Warn(p.logger, "poller has no provider")
		return
	}
	state, err := p.provider.FetchState(ctx)
	elapsed := p.now().Sub(start)
	p.metrics.RecordPollerCycle(elapsed, err)
	if err != nil {
		p.recordFailure(err, start)
		logging.Warn(p.logger, "poller fetch failed",
			"error", err,
			slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
		)
		return
	}

	var seq uint64
	if p.sink != nil {
		seq = p.sink.Set(state).Seq
	}
	p.recordSuccess(start, seq)
	logging.Debug(p.logger, "poller refreshed state",
		slog.Uint64(logging.FieldSeq, seq),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, seq uint64) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.LastSeq = seq
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// Provider exposes the underlying provider.
func (p *Poller) Provider() providers.StateProvider {
	return p.provider
}
