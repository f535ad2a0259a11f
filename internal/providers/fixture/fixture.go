// Package fixture serves the seeded default scoreboard, useful for local
// testing and for bringing the overlay up without a desktop plugin.
package fixture

import (
	"context"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

const (
	defaultPort      = 8089
	defaultTimeLabel = "First Half"
	defaultHome      = "Home"
	defaultAway      = "Guests"
)

// Provider returns a copy of the same seeded state on every call.
type Provider struct {
	state jsonval.Value
}

// New creates a fixture provider seeded with the default scoreboard.
func New() *Provider {
	return &Provider{state: DefaultState()}
}

// FetchState returns a fresh copy of the seeded state.
func (p *Provider) FetchState(ctx context.Context) (jsonval.Value, error) {
	_ = ctx
	return p.state.Clone(), nil
}

// DefaultState builds the document a fresh desktop install writes: both teams
// named, one stopped countdown timer, two custom fields and the scoreboard
// shown. Timer millisecond fields are strings, matching the plugin's output.
func DefaultState() jsonval.Value {
	return jsonval.MustFromAny(map[string]any{
		"version":         3,
		"server":          map[string]any{"port": defaultPort},
		"time_label":      defaultTimeLabel,
		"home":            team(defaultHome),
		"away":            team(defaultAway),
		"swap_sides":      false,
		"show_scoreboard": true,
		"show_rounds":     true,
		"custom_fields": []any{
			customField("Points"),
			customField("Score"),
		},
		"timers": []any{
			map[string]any{
				"label":        defaultTimeLabel,
				"mode":         "countdown",
				"running":      false,
				"initial_ms":   "0",
				"remaining_ms": "0",
				"last_tick_ms": "0",
			},
		},
	})
}

func team(title string) map[string]any {
	return map[string]any{
		"title":    title,
		"subtitle": "",
		"logo":     "",
		"score":    0,
		"rounds":   0,
	}
}

func customField(label string) map[string]any {
	return map[string]any{
		"label":   label,
		"home":    0,
		"away":    0,
		"visible": true,
	}
}
