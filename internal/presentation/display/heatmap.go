// Package display renders editor state for a true-colour terminal.
package display

import (
	"math"
	"strings"

	"github.com/penwyp/go-funscripter/internal/core/heatmap"
	"github.com/penwyp/go-funscripter/internal/util"
)

const cell = " "

// HeatmapBar renders grad as width coloured cells. Each cell takes the
// colour at its centre.
func HeatmapBar(grad *heatmap.Gradient, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	var last heatmap.Color
	for i := 0; i < width; i++ {
		c := grad.ColorAt((float64(i) + 0.5) / float64(width))
		if i == 0 || c != last {
			sb.WriteString(util.TrueColorBackground(c.R, c.G, c.B))
			last = c
		}
		sb.WriteString(cell)
	}
	sb.WriteString(util.ColorReset)
	return sb.String()
}

// CursorLine puts a caret under the cell of posMs in a bar of width cells.
func CursorLine(posMs, durationMs float64, width int) string {
	if width <= 0 {
		return ""
	}
	col := 0
	if durationMs > 0 {
		col = int(math.Floor(posMs / durationMs * float64(width)))
	}
	if col < 0 {
		col = 0
	}
	if col >= width {
		col = width - 1
	}
	return strings.Repeat(" ", col) + "^"
}

// TimeAxis labels the start and end of a bar of width cells.
func TimeAxis(durationMs float64, width int) string {
	start := util.FormatTimestampMs(0)
	end := util.FormatTimestampMs(durationMs)
	gap := width - util.GetDisplayWidth(start) - util.GetDisplayWidth(end)
	if gap < 1 {
		return start + " " + end
	}
	return start + strings.Repeat(" ", gap) + end
}
