package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/scoreboard-overlay/internal/providers"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	if MustParseRFC3339(now.Format(time.RFC3339)) != now {
		t.Fatalf("expected parse round trip")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on invalid RFC3339")
		}
	}()
	MustParseRFC3339("not-a-time")
}

func TestFixturesHelper(t *testing.T) {
	state := SampleState(42)
	if got := state.Get("timers").Index(0).Get("last_tick_ms").String(); got != "42" {
		t.Fatalf("expected tick 42, got %q", got)
	}
	if got := state.Get("home").Get("title").String(); got != "Home" {
		t.Fatalf("unexpected home title %q", got)
	}
	if !strings.Contains(SampleTemplate, `id="scoreboard"`) {
		t.Fatalf("expected scoreboard root in template")
	}
}

func TestProviderHelpers(t *testing.T) {
	ctx := context.Background()
	good := GoodProvider{State: SampleState(1)}
	got, err := good.FetchState(ctx)
	if err != nil || got.Get("time_label").String() != "First Half" {
		t.Fatalf("unexpected good provider result %v %v", got, err)
	}

	boom := errors.New("boom")
	if _, err := (ErrProvider{Err: boom}).FetchState(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := (UnavailableProvider{}).FetchState(ctx); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	n := &NotifyingProvider{State: SampleState(1), Notify: make(chan struct{})}
	_, _ = n.FetchState(ctx)
	_, _ = n.FetchState(ctx)
	select {
	case <-n.Notify:
	default:
		t.Fatalf("expected notify closed after fetch")
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestBufferLogger(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected buffered log line, got %q", buf.String())
	}
}
