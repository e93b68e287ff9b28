package timeline

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-funscripter/internal/core/model"
)

func acts(pairs ...int64) []model.Action {
	out := make([]model.Action, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.Action{At: pairs[i], Pos: int32(pairs[i+1])})
	}
	return out
}

func assertInvariants(t *testing.T, tl *Timeline) {
	t.Helper()
	actions := tl.Actions()
	for i := 1; i < len(actions); i++ {
		require.Less(t, actions[i-1].At, actions[i].At, "actions must be strictly ascending: %v", actions)
	}
	for _, a := range actions {
		require.GreaterOrEqual(t, a.Pos, int32(model.MinPos))
		require.LessOrEqual(t, a.Pos, int32(model.MaxPos))
	}
	present := make(map[int64]bool, len(actions))
	for _, a := range actions {
		present[a.At] = true
	}
	for at := range tl.selected {
		require.True(t, present[at], "selected time %d has no action", at)
	}
}

func TestFromActionsNormalizes(t *testing.T) {
	tl := FromActions(acts(500, 10, 0, 120, 500, 70, -5, 50))
	assert.Equal(t, acts(0, 100, 500, 70), tl.Actions())
	assert.True(t, tl.Changed())
	tl.ClearChanged()
	assert.False(t, tl.Changed())
}

func TestAddOrUpdateAction(t *testing.T) {
	tl := New()
	require.True(t, tl.AddOrUpdateAction(1000, 50))
	require.True(t, tl.AddOrUpdateAction(1000, 80))
	assert.Equal(t, acts(1000, 80), tl.Actions())

	tl.AddOrUpdateAction(0, 10)
	tl.AddOrUpdateAction(500, 200)
	assert.Equal(t, acts(0, 10, 500, 100, 1000, 80), tl.Actions())

	assert.False(t, tl.AddOrUpdateAction(-1, 10))
	assert.Equal(t, 3, tl.Len())
}

func TestActionsReturnsCopy(t *testing.T) {
	tl := FromActions(acts(0, 10))
	got := tl.Actions()
	got[0].Pos = 99
	assert.Equal(t, acts(0, 10), tl.Actions())
}

func TestRemoveKeepsSelectionConsistent(t *testing.T) {
	tl := FromActions(acts(0, 0, 100, 50, 200, 100, 300, 0))
	tl.SelectAll()

	assert.True(t, tl.RemoveAction(model.Action{At: 100}))
	assert.False(t, tl.RemoveAction(model.Action{At: 100}))
	assert.False(t, tl.IsSelected(model.Action{At: 100}))
	assertInvariants(t, tl)

	assert.Equal(t, 1, tl.RemoveActions(acts(200, 0, 999, 0)))
	assert.Equal(t, acts(0, 0, 300, 0), tl.Selection())

	tl.SetSelected(model.Action{At: 0}, false)
	assert.Equal(t, 1, tl.RemoveSelectedActions())
	assert.Equal(t, acts(0, 0), tl.Actions())
	assert.False(t, tl.HasSelection())
	assert.Equal(t, 0, tl.RemoveSelectedActions())
}

func TestReplaceActionsResolvesSelection(t *testing.T) {
	tl := FromActions(acts(0, 0, 100, 50))
	tl.SelectAll()
	tl.ClearChanged()

	tl.ReplaceActions(acts(100, 20, 200, 30))
	assert.Equal(t, acts(100, 20), tl.Selection())
	assert.True(t, tl.Changed())
	assertInvariants(t, tl)
}

func TestMoveSelectionTime(t *testing.T) {
	tests := []struct {
		name      string
		actions   []model.Action
		selectAt  []int64
		delta     int64
		applied   int64
		expected  []model.Action
		selection []model.Action
	}{
		{
			name:      "shift forward",
			actions:   acts(0, 0, 100, 50, 200, 100),
			selectAt:  []int64{100},
			delta:     50,
			applied:   50,
			expected:  acts(0, 0, 150, 50, 200, 100),
			selection: acts(150, 50),
		},
		{
			name:      "moved action wins collision",
			actions:   acts(0, 0, 100, 50, 200, 100),
			selectAt:  []int64{100},
			delta:     100,
			applied:   100,
			expected:  acts(0, 0, 200, 50),
			selection: acts(200, 50),
		},
		{
			name:      "reorders past neighbour",
			actions:   acts(0, 0, 100, 50, 200, 100),
			selectAt:  []int64{100},
			delta:     150,
			applied:   150,
			expected:  acts(0, 0, 200, 100, 250, 50),
			selection: acts(250, 50),
		},
		{
			name:      "clamped at zero",
			actions:   acts(100, 10, 300, 20, 400, 30),
			selectAt:  []int64{100, 300},
			delta:     -250,
			applied:   -100,
			expected:  acts(0, 10, 200, 20, 400, 30),
			selection: acts(0, 10, 200, 20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := FromActions(tt.actions)
			for _, at := range tt.selectAt {
				tl.SetSelected(model.Action{At: at}, true)
			}
			assert.Equal(t, tt.applied, tl.MoveSelectionTime(tt.delta))
			assert.Equal(t, tt.expected, tl.Actions())
			assert.Equal(t, tt.selection, tl.Selection())
			assertInvariants(t, tl)
		})
	}
}

func TestMoveSelectionTimeWithoutSelection(t *testing.T) {
	tl := FromActions(acts(0, 0))
	tl.ClearChanged()
	assert.Equal(t, int64(0), tl.MoveSelectionTime(100))
	assert.False(t, tl.Changed())
}

func TestMoveSelectionPosition(t *testing.T) {
	tl := FromActions(acts(0, 95, 100, 50, 200, 3))
	tl.SelectAll()
	tl.SetSelected(model.Action{At: 100}, false)

	assert.Equal(t, 2, tl.MoveSelectionPosition(10))
	assert.Equal(t, acts(0, 100, 100, 50, 200, 13), tl.Actions())

	tl.MoveSelectionPosition(-50)
	assert.Equal(t, acts(0, 50, 100, 50, 200, 0), tl.Actions())

	tests := []struct {
		name  string
		delta int32
		want  int32
	}{
		{name: "max delta", delta: math.MaxInt32, want: 100},
		{name: "min delta", delta: math.MinInt32, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := FromActions(acts(0, 50))
			tl.SelectAll()
			tl.MoveSelectionPosition(tt.delta)
			assert.Equal(t, acts(0, int64(tt.want)), tl.Actions())
		})
	}
}

func TestPasteAction(t *testing.T) {
	tl := FromActions(acts(0, 0, 1000, 50, 2000, 100))
	tl.SelectAll()

	require.True(t, tl.PasteAction(model.Action{At: 1010, Pos: 80}, 16))
	assert.Equal(t, acts(0, 0, 1010, 80, 2000, 100), tl.Actions())
	assertInvariants(t, tl)

	require.True(t, tl.PasteAction(model.Action{At: 1500, Pos: 30}, 16))
	assert.Equal(t, acts(0, 0, 1010, 80, 1500, 30, 2000, 100), tl.Actions())

	assert.False(t, tl.PasteAction(model.Action{At: -3, Pos: 30}, 16))
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tl := New()
	for i := 0; i < 2000; i++ {
		at := rng.Int63n(5000)
		switch rng.Intn(8) {
		case 0, 1:
			tl.AddOrUpdateAction(at, int32(rng.Intn(140)-20))
		case 2:
			tl.RemoveAction(model.Action{At: at})
		case 3:
			tl.SelectTime(at, at+rng.Int63n(1000))
		case 4:
			tl.MoveSelectionTime(rng.Int63n(600) - 300)
		case 5:
			tl.PasteAction(model.Action{At: at, Pos: int32(rng.Intn(101))}, 20)
		case 6:
			tl.SelectTopActions()
		case 7:
			tl.MoveSelectionPosition(int32(rng.Intn(40) - 20))
		}
		assertInvariants(t, tl)
	}
}
