package testutil

import (
	"context"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers"
)

// GoodProvider returns a copy of State with no error.
type GoodProvider struct {
	State jsonval.Value
}

func (p GoodProvider) FetchState(ctx context.Context) (jsonval.Value, error) {
	_ = ctx
	return p.State.Clone(), nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchState(ctx context.Context) (jsonval.Value, error) {
	_ = ctx
	return jsonval.Undefined, p.Err
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) FetchState(ctx context.Context) (jsonval.Value, error) {
	_ = ctx
	return jsonval.Undefined, providers.ErrProviderUnavailable
}

// NotifyingProvider returns State and closes Notify on first fetch.
type NotifyingProvider struct {
	State  jsonval.Value
	Notify chan struct{}
}

func (p *NotifyingProvider) FetchState(ctx context.Context) (jsonval.Value, error) {
	_ = ctx
	if p.Notify != nil {
		select {
		case <-p.Notify:
		default:
			close(p.Notify)
		}
	}
	return p.State.Clone(), nil
}
