package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-funscripter/internal/core/history"
	"github.com/penwyp/go-funscripter/internal/util"
)

// FormatHistory lists the undo and redo stacks, newest first. Runs of
// equal labels are collapsed with a count; the ID undoes the whole run.
func FormatHistory(w io.Writer, s history.Summary) error {
	var sb strings.Builder
	writeGroups(&sb, "Undo", s.Undo)
	writeGroups(&sb, "Redo", s.Redo)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeGroups(sb *strings.Builder, title string, groups []history.Group) {
	sb.WriteString(util.FormatDataTitle(title))
	sb.WriteString("\n")
	if len(groups) == 0 {
		sb.WriteString("  (empty)\n")
		return
	}
	for _, g := range groups {
		label := g.Label
		if g.Count > 1 {
			label = fmt.Sprintf("%s (%d)", label, g.Count)
		}
		fmt.Fprintf(sb, "  %s  %s\n", g.Oldest, label)
	}
}
