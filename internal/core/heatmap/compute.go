package heatmap

import (
	"github.com/penwyp/go-funscripter/internal/core/constants"
	"github.com/penwyp/go-funscripter/internal/core/model"
)

var heatRamp = HeatRamp()

// Compute builds the heat gradient of a sorted action sequence over a
// script of durationMs. The duration is split into fixed kernels; each
// kernel's action count, relative to the busiest expected kernel, picks a
// colour from the heat ramp at the kernel midpoint. The result depends only
// on its inputs.
func Compute(actions []model.Action, durationMs float64) *Gradient {
	g := NewGradient()
	g.AddMark(0, Black)
	g.AddMark(1, Black)
	if len(actions) == 0 || durationMs <= 0 {
		return g
	}

	kernel := float64(constants.HeatmapKernelMs)
	last := float64(actions[len(actions)-1].At)
	offset := 0.0
	for {
		start, end := offset, offset+kernel
		count := 0
		if offset < last {
			for _, a := range actions {
				at := float64(a.At)
				if at > end {
					break
				}
				if at >= start {
					count++
				}
			}
		}

		density := clamp01(float64(count) / constants.HeatmapMaxActions)
		g.AddMark(clamp01((start+kernel/2)/durationMs), heatRamp.ColorAt(density))

		offset += kernel
		if offset >= durationMs {
			break
		}
	}
	return g
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
