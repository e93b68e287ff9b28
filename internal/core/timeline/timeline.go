// Package timeline holds the ordered action sequence of one script and the
// selection over it.
//
// A Timeline is owned by a single goroutine and has no internal locking.
// Actions are kept sorted strictly ascending by At; the selection is always
// a subset of the actions.
package timeline

import (
	"sort"

	"github.com/penwyp/go-funscripter/internal/core/model"
)

// Timeline is the editable action sequence of a loaded script.
type Timeline struct {
	actions  []model.Action
	selected map[int64]struct{}
	path     string
	changed  bool
}

// New creates an empty timeline.
func New() *Timeline {
	return &Timeline{selected: make(map[int64]struct{})}
}

// FromActions creates a timeline from an unordered action list. Positions are
// clamped, negative times dropped, and of several actions sharing a time the
// last one wins.
func FromActions(actions []model.Action) *Timeline {
	t := New()
	t.actions = normalize(actions)
	t.changed = true
	return t
}

func normalize(in []model.Action) []model.Action {
	out := make([]model.Action, 0, len(in))
	for _, a := range in {
		if a.At < 0 {
			continue
		}
		out = append(out, a.Clamp())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })

	w := 0
	for i := range out {
		if w > 0 && out[w-1].At == out[i].At {
			out[w-1] = out[i]
			continue
		}
		out[w] = out[i]
		w++
	}
	return out[:w]
}

// Actions returns a copy of the action sequence.
func (t *Timeline) Actions() []model.Action {
	out := make([]model.Action, len(t.actions))
	copy(out, t.actions)
	return out
}

// ReplaceActions swaps the whole sequence. Selected actions that no longer
// exist are dropped from the selection.
func (t *Timeline) ReplaceActions(actions []model.Action) {
	t.actions = normalize(actions)
	t.resolveSelection()
	t.changed = true
}

func (t *Timeline) Len() int { return len(t.actions) }

func (t *Timeline) Path() string { return t.path }

func (t *Timeline) SetPath(path string) { t.path = path }

// Changed reports whether the sequence mutated since the last ClearChanged.
func (t *Timeline) Changed() bool { return t.changed }

func (t *Timeline) ClearChanged() { t.changed = false }

// search returns the index of the first action with At >= at and whether
// that action has exactly at.
func (t *Timeline) search(at int64) (int, bool) {
	i := sort.Search(len(t.actions), func(i int) bool { return t.actions[i].At >= at })
	return i, i < len(t.actions) && t.actions[i].At == at
}

// AddOrUpdateAction overwrites the position of the action at the given time
// or inserts a new one. Negative times are rejected.
func (t *Timeline) AddOrUpdateAction(at int64, pos int32) bool {
	if at < 0 {
		return false
	}
	pos = model.ClampPos(pos)
	i, found := t.search(at)
	if found {
		t.actions[i].Pos = pos
	} else {
		t.actions = append(t.actions, model.Action{})
		copy(t.actions[i+1:], t.actions[i:])
		t.actions[i] = model.Action{At: at, Pos: pos}
	}
	t.changed = true
	return true
}

// RemoveAction removes the action with a.At, deselecting it.
func (t *Timeline) RemoveAction(a model.Action) bool {
	i, found := t.search(a.At)
	if !found {
		return false
	}
	t.removeAt(i)
	t.changed = true
	return true
}

func (t *Timeline) removeAt(i int) {
	delete(t.selected, t.actions[i].At)
	t.actions = append(t.actions[:i], t.actions[i+1:]...)
}

// RemoveActions removes every listed action and returns how many existed.
func (t *Timeline) RemoveActions(actions []model.Action) int {
	if len(actions) == 0 {
		return 0
	}
	drop := make(map[int64]struct{}, len(actions))
	for _, a := range actions {
		drop[a.At] = struct{}{}
	}
	return t.removeWhere(func(a model.Action) bool {
		_, ok := drop[a.At]
		return ok
	})
}

// RemoveSelectedActions removes the selection and returns its size.
func (t *Timeline) RemoveSelectedActions() int {
	if len(t.selected) == 0 {
		return 0
	}
	return t.removeWhere(t.IsSelected)
}

func (t *Timeline) removeWhere(match func(model.Action) bool) int {
	kept := t.actions[:0]
	removed := 0
	for _, a := range t.actions {
		if match(a) {
			delete(t.selected, a.At)
			removed++
			continue
		}
		kept = append(kept, a)
	}
	t.actions = kept
	if removed > 0 {
		t.changed = true
	}
	return removed
}

// MoveSelectionTime shifts every selected action by deltaMs and returns the
// delta actually applied. The shift is clamped so no action moves before 0.
// A moved action replaces any unselected action it lands on.
func (t *Timeline) MoveSelectionTime(deltaMs int64) int64 {
	if len(t.selected) == 0 || deltaMs == 0 {
		return 0
	}
	moving := t.Selection()
	if earliest := moving[0].At; earliest+deltaMs < 0 {
		deltaMs = -earliest
	}
	if deltaMs == 0 {
		return 0
	}

	t.removeWhere(t.IsSelected)
	for _, a := range moving {
		a.At += deltaMs
		t.AddOrUpdateAction(a.At, a.Pos)
		t.selected[a.At] = struct{}{}
	}
	t.changed = true
	return deltaMs
}

// MoveSelectionPosition shifts every selected position by delta, clamped.
func (t *Timeline) MoveSelectionPosition(delta int32) int {
	if len(t.selected) == 0 || delta == 0 {
		return 0
	}
	moved := 0
	for i := range t.actions {
		if _, ok := t.selected[t.actions[i].At]; ok {
			t.actions[i].Pos = model.ClampPos64(int64(t.actions[i].Pos) + int64(delta))
			moved++
		}
	}
	t.changed = true
	return moved
}

// PasteAction inserts a, first removing the existing action closest to
// a.At within toleranceMs so pasting next to a point does not leave a
// near duplicate.
func (t *Timeline) PasteAction(a model.Action, toleranceMs float64) bool {
	if a.At < 0 {
		return false
	}
	if near, ok := t.GetActionAtTime(float64(a.At), toleranceMs); ok {
		t.RemoveAction(near)
	}
	return t.AddOrUpdateAction(a.At, a.Pos)
}
