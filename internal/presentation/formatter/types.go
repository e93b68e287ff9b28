// Package formatter renders script summaries and the undo history.
package formatter

import (
	"fmt"
	"io"
	"math"

	"github.com/penwyp/go-funscripter/internal/core/model"
)

// ScriptSummary describes one script for the info report.
type ScriptSummary struct {
	Path       string  `json:"path"`
	Title      string  `json:"title,omitempty"`
	Actions    int     `json:"actions"`
	DurationMs int64   `json:"duration_ms"`
	Inverted   bool    `json:"inverted"`
	Range      int     `json:"range"`
	AvgSpeed   float64 `json:"avg_speed"`
	MaxSpeed   float64 `json:"max_speed"`
	Missing    int     `json:"missing_fields"`
	Error      string  `json:"error,omitempty"`
}

// Summarize computes the summary of a loaded script. Speeds are in
// position units per second over every stroke with a positive duration.
func Summarize(path string, script *model.Funscript) ScriptSummary {
	s := ScriptSummary{Path: path}
	if script == nil {
		return s
	}
	s.Title = script.Metadata.Title
	s.Actions = len(script.Actions)
	s.Inverted = script.Inverted
	s.Range = script.Range
	if n := len(script.Actions); n > 0 {
		s.DurationMs = script.Actions[n-1].At
	}

	var totalDist, totalTime float64
	for i := 1; i < len(script.Actions); i++ {
		prev, cur := script.Actions[i-1], script.Actions[i]
		dt := float64(cur.At - prev.At)
		if dt <= 0 {
			continue
		}
		dist := math.Abs(float64(cur.Pos - prev.Pos))
		totalDist += dist
		totalTime += dt
		s.MaxSpeed = math.Max(s.MaxSpeed, dist/(dt/1000))
	}
	if totalTime > 0 {
		s.AvgSpeed = totalDist / (totalTime / 1000)
	}
	return s
}

// Formatter writes summaries in one output format.
type Formatter interface {
	Format(w io.Writer, data []ScriptSummary) error
}

// New returns the formatter for an output name: table, json or csv.
func New(output string) (Formatter, error) {
	switch output {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	}
	return nil, fmt.Errorf("unknown output format %q", output)
}

func formatSpeed(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
