package formatter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-funscripter/internal/presentation/layout"
	"github.com/penwyp/go-funscripter/internal/util"
)

const maxNameWidth = 40

type TableFormatter struct {
	headers []string
	sizer   layout.Sizer
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Script", "Actions", "Duration", "Avg Speed", "Max Speed", "Notes"},
	}
}

func (f *TableFormatter) Format(w io.Writer, data []ScriptSummary) error {
	rows := make([][]string, 0, len(data)+1)
	var totalActions int
	var totalDuration int64
	for _, row := range data {
		rows = append(rows, f.rowValues(row))
		totalActions += row.Actions
		totalDuration += row.DurationMs
	}
	total := []string{
		fmt.Sprintf("Total (%d)", len(data)),
		util.FormatNumber(totalActions),
		util.FormatTimestampMs(float64(totalDuration)),
		"", "", "",
	}

	widths := f.columnWidths(append(rows, total))

	var sb strings.Builder
	f.writeBorder(&sb, widths, "top")
	f.writeRow(&sb, f.headers, widths)
	f.writeBorder(&sb, widths, "middle")
	for _, row := range rows {
		f.writeRow(&sb, row, widths)
	}
	f.writeBorder(&sb, widths, "middle")
	f.writeRow(&sb, total, widths)
	f.writeBorder(&sb, widths, "bottom")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *TableFormatter) rowValues(row ScriptSummary) []string {
	notes := row.Error
	switch {
	case notes != "":
	case row.Missing > 0:
		notes = fmt.Sprintf("%d fields missing", row.Missing)
	case row.Inverted:
		notes = "inverted"
	}
	return []string{
		f.sizer.Truncate(filepath.Base(row.Path), maxNameWidth),
		util.FormatNumber(row.Actions),
		util.FormatTimestampMs(float64(row.DurationMs)),
		formatSpeed(row.AvgSpeed),
		formatSpeed(row.MaxSpeed),
		notes,
	}
}

// columnWidths determines the width of each column based on content
func (f *TableFormatter) columnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// writeBorder writes table borders (top, middle, bottom)
func (f *TableFormatter) writeBorder(sb *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			sb.WriteString(middle)
		}
	}
	sb.WriteString(right)
	sb.WriteString("\n")
}

// writeRow writes a row; the first and last columns are left-aligned,
// numbers right-aligned.
func (f *TableFormatter) writeRow(sb *strings.Builder, values []string, widths []int) {
	sb.WriteString("│")
	for i, value := range values {
		leftAlign := i == 0 || i == len(values)-1
		sb.WriteString(" ")
		sb.WriteString(f.sizer.PadString(value, widths[i], leftAlign))
		sb.WriteString(" │")
	}
	sb.WriteString("\n")
}
