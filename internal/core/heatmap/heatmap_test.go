package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-funscripter/internal/core/model"
)

func TestGradientAddMarkKeepsOrder(t *testing.T) {
	g := NewGradient()
	g.AddMark(0.5, Red)
	g.AddMark(0, Black)
	g.AddMark(1, Green)
	g.AddMark(0.5, Yellow)

	marks := g.Marks()
	require.Len(t, marks, 4)
	assert.Equal(t, []float64{0, 0.5, 0.5, 1}, []float64{marks[0].Pos, marks[1].Pos, marks[2].Pos, marks[3].Pos})
	assert.Equal(t, Red, marks[1].Color)
	assert.Equal(t, Yellow, marks[2].Color)
}

func TestHeatRamp(t *testing.T) {
	ramp := HeatRamp()
	require.Equal(t, 6, ramp.Len())

	tests := []struct {
		name string
		p    float64
		want Color
	}{
		{name: "idle", p: 0, want: Black},
		{name: "below range", p: -1, want: Black},
		{name: "blue stop", p: 0.2, want: DodgerBlue},
		{name: "half way to blue", p: 0.1, want: Color{15, 72, 128, 255}},
		{name: "yellow stop", p: 0.8, want: Yellow},
		{name: "max", p: 1, want: Red},
		{name: "above range", p: 3, want: Red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ramp.ColorAt(tt.p))
		})
	}

	assert.Equal(t, "#1e90ff", DodgerBlue.Hex())
	assert.Equal(t, Black, NewGradient().ColorAt(0.3))
}

func burst(from int64, n int, stepMs int64) []model.Action {
	out := make([]model.Action, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Action{At: from + int64(i)*stepMs, Pos: int32(i % 2 * 100)})
	}
	return out
}

func TestComputeEmpty(t *testing.T) {
	for _, g := range []*Gradient{Compute(nil, 10000), Compute(burst(0, 3, 10), 0)} {
		assert.Equal(t, []Mark{{Pos: 0, Color: Black}, {Pos: 1, Color: Black}}, g.Marks())
	}
}

func TestComputeKernels(t *testing.T) {
	actions := burst(0, 25, 200) // 0..4800 ms, denser than the maximum
	g := Compute(actions, 10000)

	assert.Equal(t, []Mark{
		{Pos: 0, Color: Black},
		{Pos: 0.25, Color: Red},
		{Pos: 0.75, Color: Black},
		{Pos: 1, Color: Black},
	}, g.Marks())
}

func TestComputeDensityScales(t *testing.T) {
	// 5 actions in the first kernel out of an expected maximum of 24.5.
	actions := burst(0, 5, 1000)
	actions = append(actions, model.Action{At: 20000, Pos: 50})
	g := Compute(actions, 20000)

	marks := g.Marks()
	require.Len(t, marks, 6)
	assert.Equal(t, 0.125, marks[1].Pos)
	assert.Equal(t, HeatRamp().ColorAt(5/24.5), marks[1].Color)
	assert.Equal(t, Black, marks[2].Color)
	// An action on the closing edge of a kernel counts in it.
	assert.Equal(t, HeatRamp().ColorAt(1/24.5), marks[4].Color)
}

func TestComputeIsDeterministic(t *testing.T) {
	actions := burst(100, 300, 137)
	assert.Equal(t, Compute(actions, 60000).Marks(), Compute(actions, 60000).Marks())
}

type fakeSource struct {
	actions []model.Action
	changed bool
}

func (f *fakeSource) Actions() []model.Action { return f.actions }
func (f *fakeSource) Changed() bool           { return f.changed }
func (f *fakeSource) ClearChanged()           { f.changed = false }

func TestCacheRecomputesLazily(t *testing.T) {
	src := &fakeSource{actions: burst(0, 10, 100), changed: true}
	c := NewCache(src)

	first := c.Gradient(10000)
	assert.Equal(t, 1, c.Computations())
	assert.False(t, src.changed)

	assert.Same(t, first, c.Gradient(10000))
	assert.Equal(t, 1, c.Computations())

	src.changed = true
	c.Gradient(10000)
	assert.Equal(t, 2, c.Computations())

	c.Gradient(20000)
	assert.Equal(t, 3, c.Computations())

	c.Invalidate()
	c.Gradient(20000)
	assert.Equal(t, 4, c.Computations())

	c.SetSource(&fakeSource{})
	g := c.Gradient(20000)
	assert.Equal(t, 2, g.Len())
}
