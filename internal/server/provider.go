package server

import (
	"log/slog"

	"github.com/preston-bernstein/scoreboard-overlay/internal/config"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers/filesource"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers/fixture"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers/httpsource"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.StateProvider {
	switch cfg.State.Source {
	case config.SourceFixture, "":
		return fixture.New()
	case config.SourceHTTP:
		return httpsource.NewClient(httpsource.Config{URL: cfg.State.URL})
	case config.SourceFile:
		return filesource.New(cfg.State.File)
	default:
		if logger != nil {
			logger.Warn("unknown state source, falling back to fixture", slog.String("source", cfg.State.Source))
		}
		return fixture.New()
	}
}
