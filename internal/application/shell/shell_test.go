package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-funscripter/internal/application/editor"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/core/settings"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/presentation/layout"
	"github.com/penwyp/go-funscripter/internal/util"
)

func newTestShell(t *testing.T, input string) (*Shell, *editor.Editor, *bytes.Buffer) {
	t.Helper()
	clock := editor.NewManualClock(0, 20)
	s := settings.Default()
	s.RollingBackup = false
	ed := editor.New(
		editor.WithLogger(util.NewNopLogger()),
		editor.WithClock(clock),
		editor.WithSettings(s, ""),
	)
	out := &bytes.Buffer{}
	sh := New(ed, clock, strings.NewReader(input), out,
		WithLogger(util.NewNopLogger()),
		WithSizer(layout.FixedSizer(40)))
	return sh, ed, out
}

func writeScript(t *testing.T, actions []model.Action) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.funscript")
	script := model.NewFunscript()
	script.Actions = actions
	_, err := store.New(util.NewNopLogger()).SaveFunscript(path, script)
	require.NoError(t, err)
	return path
}

func TestRunEditSession(t *testing.T) {
	path := writeScript(t, []model.Action{{At: 0, Pos: 0}, {At: 1000, Pos: 100}})
	input := strings.Join([]string{
		"open " + path,
		"seek 500",
		"add 50",
		"select 0 600",
		"copy",
		"seek 2000",
		"paste",
		"save",
		"quit",
		"add 10",
	}, "\n")

	sh, ed, out := newTestShell(t, input)
	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, out.String(), "opened "+path+" (2 actions)")
	assert.Contains(t, out.String(), "pasted 2")
	assert.False(t, ed.Dirty())

	_, err := ed.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Action{
		{At: 0, Pos: 0}, {At: 500, Pos: 50}, {At: 1000, Pos: 100},
		{At: 2000, Pos: 0}, {At: 2500, Pos: 50},
	}, ed.Timeline().Actions())
}

func TestExecuteEditing(t *testing.T) {
	sh, ed, out := newTestShell(t, "")
	clock := ed.Clock().(*editor.ManualClock)

	for _, line := range []string{"seek 100", "add 20", "step 5", "add 80", "seek 0"} {
		assert.False(t, sh.Execute(line))
	}
	assert.Equal(t, []model.Action{{At: 100, Pos: 20}, {At: 200, Pos: 80}}, ed.Timeline().Actions())

	sh.Execute("next")
	assert.Equal(t, 100.0, clock.CurrentPositionMs())

	sh.Execute("select all")
	sh.Execute("nudge -10")
	sh.Execute("move 2")
	assert.Equal(t, []model.Action{{At: 140, Pos: 10}, {At: 240, Pos: 70}}, ed.Timeline().Actions())

	sh.Execute("undo 2")
	assert.Equal(t, []model.Action{{At: 100, Pos: 20}, {At: 200, Pos: 80}}, ed.Timeline().Actions())
	sh.Execute("redo")
	assert.Equal(t, []model.Action{{At: 100, Pos: 10}, {At: 200, Pos: 70}}, ed.Timeline().Actions())

	sh.Execute("select none")
	sh.Execute("seek 200")
	sh.Execute("rm")
	assert.Equal(t, 1, ed.Timeline().Len())

	out.Reset()
	sh.Execute("history")
	assert.Contains(t, out.String(), editor.LabelRemoveAction)
	assert.Contains(t, out.String(), "Redo")
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{line: "frobnicate", want: `unknown command "frobnicate"`},
		{line: "add 101", want: "invalid action"},
		{line: "add x", want: "error:"},
		{line: "seek", want: "wrong arguments"},
		{line: "move two", want: "wrong arguments"},
		{line: "select 1 2 3", want: "wrong arguments"},
		{line: "undoto not-a-uuid", want: "error:"},
		{line: "save", want: "no script path"},
		{line: "select at", want: "no action at the cursor"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sh, _, out := newTestShell(t, "")
			assert.False(t, sh.Execute(tt.line))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestQuitGuardsUnsavedChanges(t *testing.T) {
	sh, _, out := newTestShell(t, "")
	sh.Execute("add 50")

	assert.False(t, sh.Execute("quit"))
	assert.Contains(t, out.String(), "unsaved changes")
	assert.True(t, sh.Execute("q"))

	sh.Execute("add 40")
	assert.False(t, sh.Execute("quit"))
	sh.Execute("stats")
	assert.False(t, sh.Execute("quit"), "any other command disarms the guard")
}

func TestHeatmapAndListOutput(t *testing.T) {
	sh, _, out := newTestShell(t, "")
	for _, line := range []string{"seek 0", "add 0", "seek 500", "add 100", "select all"} {
		sh.Execute(line)
	}
	out.Reset()
	sh.Execute("list")
	assert.Equal(t, "* 00:00:00.000   0\n* 00:00:00.500 100\n", out.String())

	out.Reset()
	sh.Execute("heatmap")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "\033[48;2;")
	assert.Equal(t, strings.Repeat(" ", 39)+"^", lines[1])
	assert.Len(t, lines[2], 40)

	out.Reset()
	sh.Execute("help")
	assert.Contains(t, out.String(), "undoto ID")
}

func TestRunStopsOnContext(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()
	defer r.Close()

	sh, _, _ := newTestShell(t, "")
	sh.in = r
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, sh.Run(ctx))
}

func TestExternalChangeWarning(t *testing.T) {
	path := writeScript(t, []model.Action{{At: 0, Pos: 0}})
	sh, ed, out := newTestShell(t, "")
	sh.Execute("open " + path)
	defer sh.Close()

	// Another program rewrites the file.
	script := model.NewFunscript()
	script.Actions = []model.Action{{At: 0, Pos: 0}, {At: 10, Pos: 10}}
	_, err := store.New(util.NewNopLogger()).SaveFunscript(path, script)
	require.NoError(t, err)

	ed.Post(editor.FileChangedEvent{FileEvent: model.FileEvent{Path: path, Operation: model.FileWritten}})
	out.Reset()
	sh.Execute("stats")
	assert.Contains(t, out.String(), "changed on disk")

	out.Reset()
	sh.Execute("stats")
	assert.NotContains(t, out.String(), "changed on disk")
}
