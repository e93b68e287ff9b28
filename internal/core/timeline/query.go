package timeline

import (
	"math"
	"sort"

	"github.com/penwyp/go-funscripter/internal/core/model"
)

// firstAtOrAfter returns the index of the first action with At >= ms.
func (t *Timeline) firstAtOrAfter(ms float64) int {
	return sort.Search(len(t.actions), func(i int) bool { return float64(t.actions[i].At) >= ms })
}

// GetActionAtTime returns the action closest to ms within toleranceMs.
// On a tie the earlier action is returned.
func (t *Timeline) GetActionAtTime(ms, toleranceMs float64) (model.Action, bool) {
	if len(t.actions) == 0 || toleranceMs < 0 {
		return model.Action{}, false
	}
	i := t.firstAtOrAfter(ms)

	best, bestDist := -1, math.Inf(1)
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(t.actions) {
			continue
		}
		d := math.Abs(float64(t.actions[j].At) - ms)
		if d <= toleranceMs && d < bestDist {
			best, bestDist = j, d
		}
	}
	if best < 0 {
		return model.Action{}, false
	}
	return t.actions[best], true
}

// GetPreviousActionBehind returns the nearest action strictly before ms.
func (t *Timeline) GetPreviousActionBehind(ms float64) (model.Action, bool) {
	i := t.firstAtOrAfter(ms)
	if i == 0 {
		return model.Action{}, false
	}
	return t.actions[i-1], true
}

// GetNextActionAhead returns the nearest action strictly after ms.
func (t *Timeline) GetNextActionAhead(ms float64) (model.Action, bool) {
	i := sort.Search(len(t.actions), func(i int) bool { return float64(t.actions[i].At) > ms })
	if i == len(t.actions) {
		return model.Action{}, false
	}
	return t.actions[i], true
}

// GetPositionAtTime interpolates linearly between the actions around ms.
// Outside the sequence the nearest boundary position is returned; an empty
// timeline yields 0.
func (t *Timeline) GetPositionAtTime(ms float64) float64 {
	n := len(t.actions)
	if n == 0 {
		return 0
	}
	if ms <= float64(t.actions[0].At) {
		return float64(t.actions[0].Pos)
	}
	if ms >= float64(t.actions[n-1].At) {
		return float64(t.actions[n-1].Pos)
	}

	i := t.firstAtOrAfter(ms)
	next, prev := t.actions[i], t.actions[i-1]
	if float64(next.At) == ms {
		return float64(next.Pos)
	}
	progress := (ms - float64(prev.At)) / float64(next.At-prev.At)
	return float64(prev.Pos) + progress*float64(next.Pos-prev.Pos)
}
