// Package layout measures the terminal and pads text for it.
package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-funscripter/internal/util"
)

const (
	// DefaultWidth is used when stdout is not a terminal.
	DefaultWidth = 80
	minWidth     = 20
	maxWidth     = 200
	margin       = 2
)

// Sizer reports the usable width of a terminal.
type Sizer struct {
	fd       int
	override int
}

// NewSizer measures stdout.
func NewSizer() *Sizer {
	return &Sizer{fd: int(os.Stdout.Fd())}
}

// FixedSizer always reports width, e.g. when the user passed --width.
func FixedSizer(width int) *Sizer {
	return &Sizer{fd: -1, override: width}
}

// displayWidth calculates the display width of a string with wide runes
func (s Sizer) displayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// PadString pads str to a display width.
func (s Sizer) PadString(str string, width int, leftAlign bool) string {
	actual := s.displayWidth(str)
	if actual >= width {
		return str
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return str + padding
	}
	return padding + str
}

// Truncate cuts str to width display cells, marking the cut with "...".
func (s Sizer) Truncate(str string, width int) string {
	if s.displayWidth(str) <= width {
		return str
	}
	return runewidth.Truncate(str, width, "...")
}

// Width returns the usable width, clamped to a sane range.
func (s Sizer) Width() int {
	width := s.override
	if width <= 0 {
		termWidth, _, err := term.GetSize(s.fd)
		if err != nil || termWidth <= 0 {
			termWidth = DefaultWidth
		}
		width = termWidth - margin
	}
	if width < minWidth {
		width = minWidth
	}
	if width > maxWidth {
		width = maxWidth
	}
	util.LogDebugf("layout width %d", width)
	return width
}
