package history

import "github.com/google/uuid"

// Group is a run of consecutive entries sharing a label.
type Group struct {
	Label string
	Count int
	// Oldest is the earliest entry of the run; UndoTo(Oldest) undoes the
	// whole run.
	Oldest uuid.UUID
}

// Summary groups both stacks, newest first.
type Summary struct {
	Undo []Group
	Redo []Group
}

// Summary collapses consecutive entries with equal labels.
func (l *Log) Summary() Summary {
	return Summary{
		Undo: group(l.undo),
		Redo: group(l.redo),
	}
}

func group(entries []Entry) []Group {
	var groups []Group
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if n := len(groups); n > 0 && groups[n-1].Label == e.Label {
			groups[n-1].Count++
			groups[n-1].Oldest = e.ID
			continue
		}
		groups = append(groups, Group{Label: e.Label, Count: 1, Oldest: e.ID})
	}
	return groups
}
