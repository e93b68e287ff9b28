package heatmap

import "github.com/penwyp/go-funscripter/internal/core/model"

// Source is a change-tracked action sequence.
type Source interface {
	Actions() []model.Action
	Changed() bool
	ClearChanged()
}

// Cache recomputes the gradient only when the source changed or the
// duration differs from the last computation.
type Cache struct {
	src          Source
	durationMs   float64
	grad         *Gradient
	computations int
}

func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

// Gradient returns the current gradient for durationMs.
func (c *Cache) Gradient(durationMs float64) *Gradient {
	if c.grad == nil || c.src.Changed() || durationMs != c.durationMs {
		c.grad = Compute(c.src.Actions(), durationMs)
		c.durationMs = durationMs
		c.src.ClearChanged()
		c.computations++
	}
	return c.grad
}

// Invalidate forces a recompute on the next Gradient call.
func (c *Cache) Invalidate() {
	c.grad = nil
}

// SetSource rebinds the cache, e.g. after a new script is opened.
func (c *Cache) SetSource(src Source) {
	c.src = src
	c.grad = nil
}

// Computations counts recomputes so far.
func (c *Cache) Computations() int { return c.computations }
