package filesource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFetchStateDecodesJSON(t *testing.T) {
	path := writeFile(t, "plugin.json", `{"home":{"title":"Home","score":2},"swap_sides":true}`)

	state, err := New(path).FetchState(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := map[string]any{
		"home":       map[string]any{"title": "Home", "score": 2.0},
		"swap_sides": true,
	}
	if diff := cmp.Diff(want, state.Interface()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchStateDecodesYAML(t *testing.T) {
	body := `
home:
  title: Home
  score: 2
timers:
  - mode: countup
    running: true
    remaining_ms: "1500"
`
	for _, name := range []string{"state.yaml", "state.YML"} {
		t.Run(name, func(t *testing.T) {
			state, err := New(writeFile(t, name, body)).FetchState(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			want := map[string]any{
				"home":   map[string]any{"title": "Home", "score": 2.0},
				"timers": []any{map[string]any{"mode": "countup", "running": true, "remaining_ms": "1500"}},
			}
			if diff := cmp.Diff(want, state.Interface()); diff != "" {
				t.Fatalf("state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchStateErrors(t *testing.T) {
	if _, err := New("").FetchState(context.Background()); !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	if _, err := New(missing).FetchState(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	bad := writeFile(t, "bad.json", "{nope")
	if _, err := New(bad).FetchState(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}

	badYAML := writeFile(t, "bad.yaml", "a: [1, 2")
	if _, err := New(badYAML).FetchState(context.Background()); err == nil {
		t.Fatal("expected yaml decode error")
	}
}

func TestFetchStateHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New("ignored.json")
	p.readFile = func(string) ([]byte, error) {
		t.Fatal("read should not happen after cancel")
		return nil, nil
	}
	if _, err := p.FetchState(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
