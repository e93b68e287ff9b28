package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-funscripter/internal/core/document"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/core/settings"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/presentation/formatter"
	"github.com/penwyp/go-funscripter/internal/util"
)

func resetFlags() {
	debug, logFile, settingsPath = false, "", ""
	infoOutput, infoSortBy, infoLimit, infoConcurrency = "table", "path", 0, runtime.NumCPU()
	heatmapDuration, heatmapWidth, heatmapStops = 0, 0, false
	editDuration, editFrameTime, editNoWatch = 0, 0, false
	convertCompact, convertNormalize = false, false
}

// run executes the root command with a private log file and settings file.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	dir := t.TempDir()
	full := append([]string{
		"--log-file", filepath.Join(dir, "logs", "app.log"),
		"--settings", filepath.Join(dir, "settings.json"),
	}, args...)

	var out bytes.Buffer
	rootCmd.SetArgs(full)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	closeLogger()
	return out.String(), err
}

func closeLogger() {
	if l, ok := util.GetLogger().(*util.Logger); ok {
		_ = l.Close()
	}
	util.SetLogger(nil)
}

func writeScript(t *testing.T, dir, name string, actions []model.Action) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := model.NewFunscript()
	script.Actions = actions
	_, err := store.New(util.NewNopLogger()).SaveFunscript(path, script)
	require.NoError(t, err)
	return path
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	abs, _ := filepath.Abs("relative/path")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "home directory expansion", input: "~/test/path", expected: filepath.Join(home, "test/path")},
		{name: "absolute path unchanged", input: "/absolute/path", expected: "/absolute/path"},
		{name: "relative path converted to absolute", input: "relative/path", expected: abs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test", "nested", "dir")
	require.NoError(t, ensureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, ensureDir(dir))
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"info", "heatmap", "edit", "convert", "settings"} {
		assert.True(t, names[want], want)
	}
}

func TestInfoJSON(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.funscript", []model.Action{{At: 0, Pos: 0}, {At: 1000, Pos: 100}})
	writeScript(t, dir, "b.funscript", []model.Action{{At: 0, Pos: 0}})

	out, err := run(t, "", "info", "-o", "json", dir)
	require.NoError(t, err)

	var summaries []formatter.ScriptSummary
	require.NoError(t, sonic.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].Actions)
	assert.InDelta(t, 100.0, summaries[0].AvgSpeed, 1e-9)
}

func TestInfoRequiresPath(t *testing.T) {
	_, err := run(t, "", "info")
	assert.Error(t, err)
}

func TestHeatmapStops(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "a.funscript", []model.Action{{At: 0, Pos: 0}, {At: 100, Pos: 100}})

	out, err := run(t, "", "heatmap", "--stops", "--duration", "10000", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "0.0000 #000000", lines[0])
	assert.Equal(t, "1.0000 #000000", lines[3])

	out, err = run(t, "", "heatmap", "--width", "30", path)
	require.NoError(t, err)
	assert.Contains(t, out, "\033[48;2;")
}

func TestEditSession(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(video, nil, 0644))

	input := "seek 1000\nadd 30\nseek 2000\nadd 90\nsave\nquit\n"
	out, err := run(t, input, "edit", "--no-watch", video)
	require.NoError(t, err)
	assert.Contains(t, out, "new script "+filepath.Join(dir, "clip.funscript"))
	assert.Contains(t, out, "saved")

	script, _, err := store.New(util.NewNopLogger()).LoadFunscript(filepath.Join(dir, "clip.funscript"))
	require.NoError(t, err)
	assert.Equal(t, []model.Action{{At: 1000, Pos: 30}, {At: 2000, Pos: 90}}, script.Actions)
}

func TestEditReopensLastFile(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	path := writeScript(t, dir, "last.funscript", []model.Action{{At: 5, Pos: 5}})
	settingsFile := filepath.Join(dir, "settings.yaml")

	s := settings.Default()
	s.LastOpenedFile = path
	require.NoError(t, s.Save(settingsFile, util.NewNopLogger()))

	var out bytes.Buffer
	rootCmd.SetArgs([]string{"--log-file", filepath.Join(dir, "app.log"), "--settings", settingsFile, "edit", "--no-watch"})
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("quit\n"))
	err := rootCmd.Execute()
	closeLogger()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "opened "+path+" (1 actions)")
}

func TestEditWithoutFile(t *testing.T) {
	_, err := run(t, "", "edit")
	assert.ErrorContains(t, err, "no file given")
}

func TestConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.funscript")
	require.NoError(t, os.WriteFile(src, []byte(`{"actions":[{"at":0,"pos":150},{"at":10,"pos":20}],"extra":true}`), 0644))

	yamlPath := filepath.Join(dir, "out.yaml")
	_, err := run(t, "", "convert", src, yamlPath)
	require.NoError(t, err)

	back := filepath.Join(dir, "back.json")
	_, err = run(t, "", "convert", "--compact", yamlPath, back)
	require.NoError(t, err)
	data, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.JSONEq(t, `{"actions":[{"at":0,"pos":150},{"at":10,"pos":20}],"extra":true}`, string(data))

	normalized := filepath.Join(dir, "norm.funscript")
	_, err = run(t, "", "convert", "--normalize", src, normalized)
	require.NoError(t, err)
	data, err = os.ReadFile(normalized)
	require.NoError(t, err)
	n, err := document.DecodeJSON(data)
	require.NoError(t, err)
	_, hasExtra := n.Get("extra")
	assert.False(t, hasExtra)
	actions, _ := n.Get("actions")
	pos, _ := actions.Index(0).Get("pos")
	v, err := pos.AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(100), v)
}

func TestConvertUnknownExtension(t *testing.T) {
	_, err := run(t, "", "convert", "a.txt", "b.json")
	assert.ErrorContains(t, err, "no document codec")
}

func TestSettingsPrintsYAML(t *testing.T) {
	out, err := run(t, "", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "rolling_backup: true")
	assert.Contains(t, out, "video_mode: 0")
}
