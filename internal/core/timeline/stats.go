package timeline

import (
	"math"

	"github.com/penwyp/go-funscripter/internal/core/model"
)

// Stats describes the stroke around a playback position.
type Stats struct {
	Behind    model.Action
	Ahead     model.Action
	HasBehind bool
	HasAhead  bool

	// IntervalMs is the time since the action behind.
	IntervalMs float64
	// DurationMs and Length span behind to ahead; Length is signed.
	DurationMs int64
	Length     int32
	// Speed is the absolute position change in units per second.
	Speed float64
}

// StatsAt computes the stroke statistics at ms. An action exactly at ms
// counts as the one behind.
func (t *Timeline) StatsAt(ms float64) Stats {
	var s Stats
	if a, ok := t.GetActionAtTime(ms, 0); ok {
		s.Behind, s.HasBehind = a, true
		s.Ahead, s.HasAhead = t.GetNextActionAhead(ms)
	} else {
		s.Behind, s.HasBehind = t.GetPreviousActionBehind(ms)
		s.Ahead, s.HasAhead = t.GetNextActionAhead(ms)
	}

	if !s.HasBehind {
		return s
	}
	s.IntervalMs = ms - float64(s.Behind.At)
	if s.HasAhead {
		s.DurationMs = s.Ahead.At - s.Behind.At
		s.Length = s.Ahead.Pos - s.Behind.Pos
		if s.DurationMs > 0 {
			s.Speed = math.Abs(float64(s.Length)) / (float64(s.DurationMs) / 1000.0)
		}
	}
	return s
}
