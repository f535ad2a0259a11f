package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server. Nested structs read
// prefixed variables, e.g. State.URL comes from STATE_URL.
type Config struct {
	Port          string        `default:"8089"`
	PollInterval  time.Duration `split_words:"true" default:"1s"`
	FrameInterval time.Duration `split_words:"true" default:"16ms"`
	State         StateConfig
	Overlay       OverlayConfig
	Log           LogConfig
	Metrics       MetricsConfig
	Otel          OtelConfig
}

// StateConfig selects where the scoreboard state is polled from.
type StateConfig struct {
	Source string `default:"fixture"`
	URL    string
	File   string
}

// OverlayConfig locates the overlay directory and its template.
type OverlayConfig struct {
	Dir      string `default:"overlay"`
	Template string `default:"index.html"`
}

// TemplatePath returns the template file inside the overlay directory.
func (o OverlayConfig) TemplatePath() string {
	if filepath.IsAbs(o.Template) {
		return o.Template
	}
	return filepath.Join(o.Dir, o.Template)
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `default:"info"`
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// normalize applies defaults to values that parsed but are unusable.
func (c *Config) normalize() {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = defaultFrameInterval
	}
	c.State.Source = strings.ToLower(strings.TrimSpace(c.State.Source))
	if c.State.Source == "" {
		c.State.Source = SourceFixture
	}
	if strings.TrimSpace(c.Port) == "" {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Metrics.Port) == "" {
		c.Metrics.Port = defaultMetricsPort
	}
	if strings.TrimSpace(c.Otel.ServiceName) == "" {
		c.Otel.ServiceName = defaultServiceName
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if err := validatePort("PORT", c.Port); err != nil {
		return err
	}
	if c.Metrics.Enabled {
		if err := validatePort("METRICS_PORT", c.Metrics.Port); err != nil {
			return err
		}
	}
	switch c.State.Source {
	case SourceFixture, SourceHTTP:
	case SourceFile:
		if strings.TrimSpace(c.State.File) == "" {
			return fmt.Errorf("config: STATE_FILE is required when STATE_SOURCE=%s", SourceFile)
		}
	default:
		return fmt.Errorf("config: unknown STATE_SOURCE %q", c.State.Source)
	}
	return nil
}

func validatePort(name, raw string) error {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("config: invalid %s %q", name, raw)
	}
	return nil
}
