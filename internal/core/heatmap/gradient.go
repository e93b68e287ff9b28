// Package heatmap derives a colour gradient from action density.
package heatmap

import (
	"fmt"
	"math"
	"sort"
)

// Color is an 8-bit RGBA colour.
type Color struct {
	R, G, B, A uint8
}

// Hex renders the colour as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Common colours
var (
	Black      = Color{0x00, 0x00, 0x00, 0xFF}
	DodgerBlue = Color{0x1E, 0x90, 0xFF, 0xFF}
	Cyan       = Color{0x00, 0xFF, 0xFF, 0xFF}
	Green      = Color{0x00, 0xFF, 0x00, 0xFF}
	Yellow     = Color{0xFF, 0xFF, 0x00, 0xFF}
	Red        = Color{0xFF, 0x00, 0x00, 0xFF}
)

// Mark is a colour stop at a normalized position in [0,1].
type Mark struct {
	Pos   float64
	Color Color
}

// Gradient is an ordered list of colour stops.
type Gradient struct {
	marks []Mark
}

// NewGradient creates an empty gradient.
func NewGradient() *Gradient {
	return &Gradient{}
}

// AddMark inserts a stop, keeping stops ordered by position. A stop at an
// existing position goes after it.
func (g *Gradient) AddMark(pos float64, c Color) {
	i := sort.Search(len(g.marks), func(i int) bool { return g.marks[i].Pos > pos })
	g.marks = append(g.marks, Mark{})
	copy(g.marks[i+1:], g.marks[i:])
	g.marks[i] = Mark{Pos: pos, Color: c}
}

// Marks returns a copy of the stops.
func (g *Gradient) Marks() []Mark {
	return append([]Mark(nil), g.marks...)
}

func (g *Gradient) Len() int { return len(g.marks) }

// ColorAt interpolates linearly between the stops around p. Outside the
// stops the nearest one is used; an empty gradient is black.
func (g *Gradient) ColorAt(p float64) Color {
	n := len(g.marks)
	if n == 0 {
		return Black
	}
	if p <= g.marks[0].Pos {
		return g.marks[0].Color
	}
	if p >= g.marks[n-1].Pos {
		return g.marks[n-1].Color
	}

	i := sort.Search(n, func(i int) bool { return g.marks[i].Pos >= p })
	lo, hi := g.marks[i-1], g.marks[i]
	span := hi.Pos - lo.Pos
	if span <= 0 {
		return hi.Color
	}
	return lerp(lo.Color, hi.Color, (p-lo.Pos)/span)
}

func lerp(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Color{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// HeatRamp is the density ramp from idle (black) to intense (red), with
// evenly spaced stops.
func HeatRamp() *Gradient {
	colors := []Color{Black, DodgerBlue, Cyan, Green, Yellow, Red}
	g := NewGradient()
	step := 1.0 / float64(len(colors)-1)
	for i, c := range colors {
		g.AddMark(float64(i)*step, c)
	}
	return g
}
