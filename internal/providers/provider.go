package providers

import (
	"context"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

// StateProvider fetches the current scoreboard state document.
// Implementations return the whole document on every call; callers treat the
// result as an immutable snapshot.
type StateProvider interface {
	FetchState(ctx context.Context) (jsonval.Value, error)
}

// StateProviderFunc adapts a function to StateProvider.
type StateProviderFunc func(ctx context.Context) (jsonval.Value, error)

func (f StateProviderFunc) FetchState(ctx context.Context) (jsonval.Value, error) {
	return f(ctx)
}
