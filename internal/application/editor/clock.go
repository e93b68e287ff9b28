package editor

import "math"

// Clock is the playback position the editor works against.
type Clock interface {
	CurrentPositionMs() float64
	DurationMs() float64
	FrameTimeMs() float64
}

// Seeker is implemented by clocks the editor may move, e.g. to the last
// pasted action.
type Seeker interface {
	Seek(ms float64)
}

// ManualClock is a clock moved by explicit commands.
type ManualClock struct {
	positionMs  float64
	durationMs  float64
	frameTimeMs float64
}

// NewManualClock creates a clock at 0. A duration of 0 means unbounded.
func NewManualClock(durationMs, frameTimeMs float64) *ManualClock {
	return &ManualClock{durationMs: durationMs, frameTimeMs: frameTimeMs}
}

func (c *ManualClock) CurrentPositionMs() float64 { return c.positionMs }
func (c *ManualClock) DurationMs() float64        { return c.durationMs }
func (c *ManualClock) FrameTimeMs() float64       { return c.frameTimeMs }

// Seek moves to ms, clamped to [0, duration].
func (c *ManualClock) Seek(ms float64) {
	ms = math.Max(0, ms)
	if c.durationMs > 0 {
		ms = math.Min(ms, c.durationMs)
	}
	c.positionMs = ms
}

// StepFrames moves n frames forward (negative: backward).
func (c *ManualClock) StepFrames(n int) {
	c.Seek(c.positionMs + float64(n)*c.frameTimeMs)
}

// SetDuration changes the length; the position is clamped into it.
func (c *ManualClock) SetDuration(ms float64) {
	c.durationMs = math.Max(0, ms)
	c.Seek(c.positionMs)
}
