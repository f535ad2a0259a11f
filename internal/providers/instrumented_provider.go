package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
	"github.com/preston-bernstein/scoreboard-overlay/internal/logging"
	"github.com/preston-bernstein/scoreboard-overlay/internal/metrics"
)

// instrumentedProvider wraps a StateProvider with per-attempt metrics and
// logs. It never retries: the poll interval is the only retry policy.
type instrumentedProvider struct {
	inner        StateProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	now          func() time.Time
}

// NewInstrumentedProvider wraps inner. An empty name falls back to "provider".
func NewInstrumentedProvider(inner StateProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string) StateProvider {
	if providerName == "" {
		providerName = "provider"
	}
	return &instrumentedProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		now:          time.Now,
	}
}

func (p *instrumentedProvider) FetchState(ctx context.Context) (jsonval.Value, error) {
	if p.inner == nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "provider unavailable")
		return jsonval.Undefined, ErrProviderUnavailable
	}
	start := p.now()
	state, err := p.inner.FetchState(ctx)
	elapsed := p.now().Sub(start)
	p.metrics.RecordProviderAttempt(p.providerName, elapsed, err)
	if err != nil {
		args := []any{slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()), "error", err}
		if se, ok := AsStatusError(err); ok {
			args = append(args, slog.Int(logging.FieldStatusCode, se.StatusCode))
		}
		logWithProvider(ctx, p.logger, slog.LevelDebug, p.providerName, "state fetch failed", args...)
		return jsonval.Undefined, err
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, p.providerName, "state fetched",
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()))
	return state, nil
}
