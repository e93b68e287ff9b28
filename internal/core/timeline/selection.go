package timeline

import "github.com/penwyp/go-funscripter/internal/core/model"

func (t *Timeline) IsSelected(a model.Action) bool {
	_, ok := t.selected[a.At]
	return ok
}

func (t *Timeline) HasSelection() bool { return len(t.selected) > 0 }

func (t *Timeline) SelectionLen() int { return len(t.selected) }

// Selection returns the selected actions in time order.
func (t *Timeline) Selection() []model.Action {
	out := make([]model.Action, 0, len(t.selected))
	if len(t.selected) == 0 {
		return out
	}
	for _, a := range t.actions {
		if _, ok := t.selected[a.At]; ok {
			out = append(out, a)
		}
	}
	return out
}

// SelectAction toggles the selection state of a and returns the new state.
// Actions not on the timeline are ignored.
func (t *Timeline) SelectAction(a model.Action) bool {
	if _, found := t.search(a.At); !found {
		return false
	}
	if t.IsSelected(a) {
		delete(t.selected, a.At)
		return false
	}
	t.selected[a.At] = struct{}{}
	return true
}

// SetSelected selects or deselects a.
func (t *Timeline) SetSelected(a model.Action, selected bool) {
	if !selected {
		delete(t.selected, a.At)
		return
	}
	if _, found := t.search(a.At); found {
		t.selected[a.At] = struct{}{}
	}
}

func (t *Timeline) SelectAll() {
	for _, a := range t.actions {
		t.selected[a.At] = struct{}{}
	}
}

func (t *Timeline) ClearSelection() {
	t.selected = make(map[int64]struct{})
}

// SelectTime replaces the selection with the actions in [fromMs, toMs].
func (t *Timeline) SelectTime(fromMs, toMs int64) int {
	if fromMs > toMs {
		fromMs, toMs = toMs, fromMs
	}
	t.ClearSelection()
	i, _ := t.search(fromMs)
	for ; i < len(t.actions) && t.actions[i].At <= toMs; i++ {
		t.selected[t.actions[i].At] = struct{}{}
	}
	return len(t.selected)
}

// resolveSelection drops selected times that no longer have an action.
func (t *Timeline) resolveSelection() {
	for at := range t.selected {
		if _, found := t.search(at); !found {
			delete(t.selected, at)
		}
	}
}

// SelectTopActions replaces the selection with the local maxima of the
// current selection, or of all actions when nothing is selected.
//
// Runs of equal positions count as one point; of a qualifying run only
// its first action is selected. Boundary runs compare with their single
// neighbour, and a lone run qualifies.
func (t *Timeline) SelectTopActions() int {
	return t.selectExtremes(func(neighbour, run int32) bool { return neighbour < run })
}

// SelectBottomActions is SelectTopActions for local minima.
func (t *Timeline) SelectBottomActions() int {
	return t.selectExtremes(func(neighbour, run int32) bool { return neighbour > run })
}

type run struct {
	first model.Action
	pos   int32
}

func (t *Timeline) selectExtremes(beats func(neighbour, run int32) bool) int {
	candidates := t.Selection()
	if len(candidates) == 0 {
		candidates = t.actions
	}

	var runs []run
	for _, a := range candidates {
		if len(runs) > 0 && runs[len(runs)-1].pos == a.Pos {
			continue
		}
		runs = append(runs, run{first: a, pos: a.Pos})
	}

	picked := make(map[int64]struct{}, len(runs))
	for i, r := range runs {
		if i > 0 && !beats(runs[i-1].pos, r.pos) {
			continue
		}
		if i < len(runs)-1 && !beats(runs[i+1].pos, r.pos) {
			continue
		}
		picked[r.first.At] = struct{}{}
	}
	t.selected = picked
	return len(picked)
}
