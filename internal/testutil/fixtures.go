package testutil

import (
	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

// SampleState returns a small scoreboard state with a running countdown
// that last ticked at tickMS.
func SampleState(tickMS int64) jsonval.Value {
	return jsonval.MustFromAny(map[string]any{
		"time_label":      "First Half",
		"show_scoreboard": true,
		"swap_sides":      false,
		"home":            map[string]any{"title": "Home", "score": 2},
		"away":            map[string]any{"title": "Guests", "score": 1},
		"custom_fields": []any{
			map[string]any{"label": "Fouls", "home": 3, "away": 4, "visible": true},
		},
		"timers": []any{
			map[string]any{
				"label":        "First Half",
				"mode":         "countdown",
				"running":      true,
				"remaining_ms": 600000,
				"last_tick_ms": tickMS,
			},
		},
	})
}

// SampleTemplate is a minimal overlay document exercising text, attribute
// and conditional bindings.
const SampleTemplate = `<!doctype html>
<html><head><title>overlay</title></head><body>
<div id="scoreboard" class="board is-hidden" aria-hidden="true">
  <span class="home">{{ team_x.title }} {{ team_x.score }}</span>
  <span class="away {{ swap_sides ? 'left' : 'right' }}">{{ team_y.title }} {{ team_y.score }}</span>
  <span class="clock" data-fs-if="timers[0].running">{{ timers[0].mmss }}</span>
</div>
</body></html>`
