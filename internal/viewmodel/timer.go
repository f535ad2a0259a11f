package viewmodel

import (
	"fmt"
	"math"
	"time"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

const (
	ModeCountdown = "countdown"
	ModeCountup   = "countup"
)

// LiveMS extrapolates a timer's value at now.
//
// remaining_ms is authoritative only at last_tick_ms, so a running timer
// moves by the wall-clock delta since that tick: countup grows without bound,
// countdown floors at zero. Stopped timers, and timers that never ticked,
// report remaining_ms unchanged.
func LiveMS(timer jsonval.Value, now time.Time) float64 {
	if timer.IsNullish() {
		return 0
	}
	remaining := finiteOrZero(timer.Get("remaining_ms").ToNumber())
	lastTick := finiteOrZero(timer.Get("last_tick_ms").ToNumber())
	if !timer.Get("running").Truthy() || lastTick == 0 {
		return remaining
	}
	delta := float64(now.UnixMilli()) - lastTick
	if mode(timer) == ModeCountup {
		return remaining + delta
	}
	return math.Max(0, remaining-delta)
}

// FormatMMSS renders milliseconds as zero-padded minutes and seconds.
// Negative input clamps to "00:00", values past the int64 range clamp to
// its maximum, and minutes never roll over into hours.
func FormatMMSS(ms float64) string {
	if math.IsNaN(ms) || ms < 0 {
		ms = 0
	}
	var total int64
	if ms >= math.MaxInt64 {
		total = math.MaxInt64
	} else {
		total = int64(ms)
	}
	m := total / 60000
	s := (total % 60000) / 1000
	return fmt.Sprintf("%02d:%02d", m, s)
}

func mode(timer jsonval.Value) string {
	if m, ok := timer.Get("mode").AsString(); ok && m != "" {
		return m
	}
	return ModeCountdown
}

func finiteOrZero(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
