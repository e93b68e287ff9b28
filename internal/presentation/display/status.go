package display

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-funscripter/internal/core/timeline"
	"github.com/penwyp/go-funscripter/internal/util"
)

// StatusLine summarizes the cursor for the line editor prompt.
func StatusLine(posMs float64, actions, selected int, dirty bool) string {
	mark := ""
	if dirty {
		mark = "*"
	}
	return fmt.Sprintf("%s%s [%d actions, %d selected]",
		util.FormatTimestampMs(posMs), mark, actions, selected)
}

// StatsBlock renders the stroke around the cursor.
func StatsBlock(s timeline.Stats) string {
	var sb strings.Builder
	sb.WriteString(util.FormatDataTitle("Statistics"))
	sb.WriteString("\n")
	if !s.HasBehind {
		sb.WriteString("  no action behind the cursor\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "  Interval: %.0f ms\n", s.IntervalMs)
	if s.HasAhead {
		fmt.Fprintf(&sb, "  Duration: %d ms\n", s.DurationMs)
		fmt.Fprintf(&sb, "  Length:   %d\n", s.Length)
		fmt.Fprintf(&sb, "  Speed:    %s\n", util.FormatSpeed(s.Speed))
	}
	return sb.String()
}
