// Package render drives the overlay frame loop: every tick it derives a view
// from the latest state snapshot, applies the compiled bindings to the
// template tree and serializes the result.
package render

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/scoreboard-overlay/internal/binding"
	"github.com/preston-bernstein/scoreboard-overlay/internal/dom"
	"github.com/preston-bernstein/scoreboard-overlay/internal/frames"
	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
	"github.com/preston-bernstein/scoreboard-overlay/internal/logging"
	"github.com/preston-bernstein/scoreboard-overlay/internal/metrics"
	"github.com/preston-bernstein/scoreboard-overlay/internal/store"
	"github.com/preston-bernstein/scoreboard-overlay/internal/viewmodel"
)

const (
	defaultInterval = 16 * time.Millisecond
	scoreboardID    = "scoreboard"
	hiddenClass     = "is-hidden"
)

// StateSource exposes the latest polled snapshot.
type StateSource interface {
	Current() (store.Snapshot, bool)
}

// Publisher receives frames whose HTML changed.
type Publisher interface {
	Publish(f frames.Frame)
}

// Document is a template tree that can be serialized.
type Document interface {
	dom.Tree
	HTML() (string, error)
}

// Options configures a Loop. Builder, Interval and Now have defaults.
type Options struct {
	Document  Document
	States    StateSource
	Builder   *viewmodel.Builder
	Publisher Publisher
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	Interval  time.Duration
	Now       func() time.Time
}

// Loop renders frames on a fixed ticker. Bindings are compiled once at
// construction; the tree is only touched by RenderFrame, under mu.
type Loop struct {
	doc        Document
	bindings   *binding.Set
	scoreboard dom.Element
	states     StateSource
	builder    *viewmodel.Builder
	publisher  Publisher
	logger     *slog.Logger
	metrics    *metrics.Recorder
	interval   time.Duration
	now        func() time.Time

	mu       sync.Mutex
	lastHTML string
	seq      uint64
	latest   atomic.Pointer[frames.Frame]

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	exited   chan struct{}
}

// ErrNoDocument is returned when a Loop is built without a template.
var ErrNoDocument = errors.New("render: no template document")

// New compiles the document's bindings and returns a stopped Loop.
func New(opts Options) (*Loop, error) {
	if opts.Document == nil {
		return nil, ErrNoDocument
	}
	if opts.Builder == nil {
		opts.Builder = viewmodel.NewBuilder()
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	l := &Loop{
		doc:       opts.Document,
		bindings:  binding.Compile(opts.Document),
		states:    opts.States,
		builder:   opts.Builder,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		interval:  opts.Interval,
		now:       opts.Now,
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
	if el, ok := opts.Document.ElementByID(scoreboardID); ok {
		l.scoreboard = el
	}
	logging.Info(l.logger, "template compiled", slog.Int(logging.FieldBindings, l.bindings.Len()))
	return l, nil
}

// Bindings returns the number of compiled bindings.
func (l *Loop) Bindings() int {
	return l.bindings.Len()
}

// Interval returns the frame interval.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Start runs the frame loop until ctx is cancelled or Stop is called.
func (l *Loop) Start(ctx context.Context) {
	l.startMu.Lock()
	if l.started {
		l.startMu.Unlock()
		return
	}
	l.started = true
	l.ticker = time.NewTicker(l.interval)
	l.startMu.Unlock()

	go func() {
		defer close(l.exited)
		logging.Info(l.logger, "render loop started", slog.Int64(logging.FieldDurationMS, l.interval.Milliseconds()))
		for {
			select {
			case <-ctx.Done():
				l.ticker.Stop()
				logging.Info(l.logger, "render loop stopped")
				return
			case <-l.done:
				l.ticker.Stop()
				logging.Info(l.logger, "render loop stopped")
				return
			case <-l.ticker.C:
				l.RenderFrame()
			}
		}
	}()
}

// Stop halts the frame loop and waits for the current frame to finish.
func (l *Loop) Stop(ctx context.Context) error {
	l.stopOnce.Do(func() { close(l.done) })

	l.startMu.Lock()
	started := l.started
	l.startMu.Unlock()
	if !started {
		return nil
	}
	select {
	case <-l.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RenderFrame renders one frame from the current snapshot. It reports false
// when no state has been polled yet or serialization failed; the previous
// frame then stays current.
func (l *Loop) RenderFrame() (frames.Frame, bool) {
	snap, ok := l.snapshot()
	if !ok {
		return frames.Frame{}, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	start := l.now()
	view := l.builder.Build(snap.State)
	l.bindings.Apply(view)
	l.applyScoreboard(view)
	out, err := l.doc.HTML()
	if err != nil {
		logging.Error(l.logger, "frame serialization failed", err)
		return frames.Frame{}, false
	}

	changed := out != l.lastHTML
	if changed {
		l.lastHTML = out
		l.seq++
		f := &frames.Frame{
			Seq:        l.seq,
			StateSeq:   snap.Seq,
			RenderedAt: start,
			HTML:       out,
		}
		l.latest.Store(f)
		if l.publisher != nil {
			l.publisher.Publish(*f)
		}
	}
	l.metrics.RecordFrame(l.now().Sub(start), changed)
	f, _ := l.Latest()
	return f, true
}

// Latest returns the most recent frame.
func (l *Loop) Latest() (frames.Frame, bool) {
	f := l.latest.Load()
	if f == nil {
		return frames.Frame{}, false
	}
	return *f, true
}

// View builds the view model for the current snapshot without touching the
// template.
func (l *Loop) View() (jsonval.Value, bool) {
	snap, ok := l.snapshot()
	if !ok {
		return jsonval.Undefined, false
	}
	return l.builder.Build(snap.State), true
}

func (l *Loop) snapshot() (store.Snapshot, bool) {
	if l.states == nil {
		return store.Snapshot{}, false
	}
	return l.states.Current()
}

// applyScoreboard shows or hides the #scoreboard root from show_scoreboard.
func (l *Loop) applyScoreboard(view jsonval.Value) {
	if l.scoreboard == nil {
		return
	}
	if view.Get("show_scoreboard").Truthy() {
		dom.RemoveClass(l.scoreboard, hiddenClass)
		l.scoreboard.SetAttr("aria-hidden", "false")
		return
	}
	dom.AddClass(l.scoreboard, hiddenClass)
	l.scoreboard.SetAttr("aria-hidden", "true")
}
