package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-funscripter/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, data []ScriptSummary) error {
	cw := csv.NewWriter(w)

	headers := []string{
		"Path", "Title", "Actions", "Duration", "Inverted", "Range",
		"Avg Speed", "Max Speed", "Error",
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range data {
		record := []string{
			row.Path,
			row.Title,
			strconv.Itoa(row.Actions),
			util.FormatTimestampMs(float64(row.DurationMs)),
			strconv.FormatBool(row.Inverted),
			strconv.Itoa(row.Range),
			formatSpeed(row.AvgSpeed),
			formatSpeed(row.MaxSpeed),
			row.Error,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
