package server

import (
	"log/slog"

	"github.com/preston-bernstein/scoreboard-overlay/internal/config"
	"github.com/preston-bernstein/scoreboard-overlay/internal/metrics"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers"
)

// providerFactory assembles the configured provider with shared instrumentation.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providers.StateProvider {
	base := selectProvider(cfg, f.logger)
	return f.wrap(cfg, base)
}

func (f providerFactory) wrap(cfg config.Config, base providers.StateProvider) providers.StateProvider {
	return providers.NewInstrumentedProvider(base, f.logger, f.metrics, normalizeProviderName(cfg.State.Source, base))
}
