// Package viewmodel derives the per-frame render view from raw scoreboard
// state.
package viewmodel

import (
	"time"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

// Builder turns polled state into a view model. It holds no state besides
// its clock and may be shared.
type Builder struct {
	now func() time.Time
}

// NewBuilder returns a Builder on the wall clock.
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// NewBuilderWithClock returns a Builder reading time from now.
func NewBuilderWithClock(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

// Build derives a fresh view from state. state is never modified.
//
// On top of the original fields the view carries:
//
//	timers[i].live_ms, timers[i].mmss   extrapolated timer values
//	swap_sides                          normalized to a bool
//	team_x, team_y                      home/away, reversed when swapped
//	fields_xy[i].x, fields_xy[i].y      custom field home/away, same rule
func (b *Builder) Build(state jsonval.Value) jsonval.Value {
	view := state.Clone()
	if !view.IsObject() {
		view = jsonval.Object(nil)
	}
	now := b.now()

	view.Set("timers", buildTimers(view.Get("timers"), now))

	swapped := view.Get("swap_sides").Truthy()
	view.Set("swap_sides", jsonval.Bool(swapped))

	home, away := view.Get("home"), view.Get("away")
	if swapped {
		home, away = away, home
	}
	view.Set("team_x", home)
	view.Set("team_y", away)

	view.Set("fields_xy", buildFields(view.Get("custom_fields"), swapped))
	return view
}

func buildTimers(raw jsonval.Value, now time.Time) jsonval.Value {
	if !raw.IsArray() {
		return jsonval.Array()
	}
	for i, t := range raw.Elems() {
		if !t.IsObject() {
			t = jsonval.Object(nil)
			raw.SetIndex(i, t)
		}
		ms := LiveMS(t, now)
		t.Set("live_ms", jsonval.Number(ms))
		t.Set("mmss", jsonval.String(FormatMMSS(ms)))
	}
	return raw
}

func buildFields(raw jsonval.Value, swapped bool) jsonval.Value {
	if !raw.IsArray() {
		return jsonval.Array()
	}
	out := make([]jsonval.Value, 0, raw.Len())
	for _, f := range raw.Elems() {
		entry := f.Clone()
		if !entry.IsObject() {
			entry = jsonval.Object(nil)
		}
		x, y := f.Get("home"), f.Get("away")
		if swapped {
			x, y = y, x
		}
		entry.Set("x", x)
		entry.Set("y", y)
		out = append(out, entry)
	}
	return jsonval.Array(out...)
}
