package httpsource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/preston-bernstein/scoreboard-overlay/internal/providers"
)

func TestFetchStateSendsNoCacheRequest(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 19, 30, 0, 0, time.UTC)
	var captured *http.Request

	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		body := `{"time_label":"First Half","home":{"title":"Home","score":3},"timers":[{"remaining_ms":"600000"}]}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	})

	client := NewClient(Config{
		URL:        "http://example.com/plugin.json",
		HTTPClient: &http.Client{Transport: rt},
	})
	client.now = func() time.Time { return fixed }

	state, err := client.FetchState(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.URL.Path != "/plugin.json" {
		t.Fatalf("expected /plugin.json path, got %s", captured.URL.Path)
	}
	if got := captured.URL.Query().Get("_"); got != "1710012600000" {
		t.Fatalf("expected cache-busting param, got %q", got)
	}
	if got := captured.Header.Get("Cache-Control"); got != "no-store" {
		t.Fatalf("expected no-store, got %q", got)
	}
	if got := captured.Header.Get("Pragma"); got != "no-cache" {
		t.Fatalf("expected pragma no-cache, got %q", got)
	}

	want := map[string]any{
		"time_label": "First Half",
		"home":       map[string]any{"title": "Home", "score": 3.0},
		"timers":     []any{map[string]any{"remaining_ms": "600000"}},
	}
	if diff := cmp.Diff(want, state.Interface()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchStateKeepsExistingQuery(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL + "/state?room=a"})
	if _, err := client.FetchState(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(query, "room=a") || !strings.Contains(query, "_=") {
		t.Fatalf("expected original and cache-busting params, got %q", query)
	}
}

func TestFetchStateHandlesNon2xx(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		_ = req
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("missing")),
			Header:     make(http.Header),
		}, nil
	})

	client := NewClient(Config{
		URL:        "http://example.com/plugin.json",
		HTTPClient: &http.Client{Transport: rt},
	})

	_, err := client.FetchState(context.Background())
	se, ok := providers.AsStatusError(err)
	if !ok {
		t.Fatalf("expected status error, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Provider != "http" {
		t.Fatalf("unexpected status error %+v", se)
	}
	if !strings.Contains(se.Error(), "missing") {
		t.Fatalf("expected body in message, got %q", se.Error())
	}
}

func TestFetchStateHandlesDecodeError(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		_ = req
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("{bad json")),
			Header:     make(http.Header),
		}, nil
	})

	client := NewClient(Config{
		URL:        "http://example.com/plugin.json",
		HTTPClient: &http.Client{Transport: rt},
	})

	if _, err := client.FetchState(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetchStatePropagatesTransportError(t *testing.T) {
	boom := errors.New("dial failed")
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		_ = req
		return nil, boom
	})
	client := NewClient(Config{HTTPClient: &http.Client{Transport: rt}})

	if _, err := client.FetchState(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestFetchStateRejectsBadURL(t *testing.T) {
	client := NewClient(Config{URL: "://bad"})
	if _, err := client.FetchState(context.Background()); err == nil {
		t.Fatal("expected request build error")
	}
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
