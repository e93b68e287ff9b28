// Package history keeps the undo and redo stacks of an action sequence.
//
// Entries hold deep copies of the sequence taken before a mutation; the live
// sequence is never aliased. Entries are immutable once pushed.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/penwyp/go-funscripter/internal/core/constants"
	"github.com/penwyp/go-funscripter/internal/core/model"
)

// Target is the state the log snapshots and restores.
type Target interface {
	Actions() []model.Action
	ReplaceActions([]model.Action)
}

// Entry is one stored state.
type Entry struct {
	ID      uuid.UUID
	Label   string
	Actions []model.Action
	Created time.Time
}

// Log is a linear undo/redo history.
type Log struct {
	target     Target
	undo       []Entry
	redo       []Entry
	maxEntries int
	now        func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithMaxEntries bounds the undo stack; the oldest entries are dropped.
// Values below 1 keep the default.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// WithClock sets the time source for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates an empty log for target.
func New(target Target, opts ...Option) *Log {
	l := &Log{
		target:     target,
		maxEntries: constants.DefaultMaxUndoEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) capture(label string) Entry {
	return Entry{
		ID:      uuid.New(),
		Label:   label,
		Actions: l.target.Actions(),
		Created: l.now(),
	}
}

func (l *Log) pushUndo(e Entry) {
	l.undo = append(l.undo, e)
	if over := len(l.undo) - l.maxEntries; over > 0 {
		l.undo = append(l.undo[:0:0], l.undo[over:]...)
	}
}

// Snapshot records the current state under label and clears the redo
// stack. Call it before every mutation.
func (l *Log) Snapshot(label string) Entry {
	e := l.capture(label)
	l.pushUndo(e)
	l.redo = nil
	return e
}

// Undo restores the newest undo entry, keeping the current state for Redo.
func (l *Log) Undo() bool {
	if len(l.undo) == 0 {
		return false
	}
	top := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, l.capture(top.Label))
	l.target.ReplaceActions(top.Actions)
	return true
}

// Redo restores the newest redo entry, keeping the current state for Undo.
func (l *Log) Redo() bool {
	if len(l.redo) == 0 {
		return false
	}
	top := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.pushUndo(l.capture(top.Label))
	l.target.ReplaceActions(top.Actions)
	return true
}

// UndoTo undoes until the undo entry with id has been restored. It returns
// the number of steps taken, or 0 when id is not on the undo stack.
func (l *Log) UndoTo(id uuid.UUID) int {
	depth := -1
	for i := len(l.undo) - 1; i >= 0; i-- {
		if l.undo[i].ID == id {
			depth = len(l.undo) - i
			break
		}
	}
	if depth < 0 {
		return 0
	}
	for i := 0; i < depth; i++ {
		l.Undo()
	}
	return depth
}

// ClearHistory empties both stacks.
func (l *Log) ClearHistory() {
	l.undo = nil
	l.redo = nil
}

func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// UndoEntries returns the undo stack, oldest first.
func (l *Log) UndoEntries() []Entry {
	return append([]Entry(nil), l.undo...)
}

// RedoEntries returns the redo stack, oldest first.
func (l *Log) RedoEntries() []Entry {
	return append([]Entry(nil), l.redo...)
}
