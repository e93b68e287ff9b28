package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	testFiles := []struct {
		path     string
		isScript bool
	}{
		{"b.funscript", true},
		{"a.FUNSCRIPT", true},
		{"a.mp4", false},
		{"notes.txt", false},
		{"nested/deeper/c.funscript", true},
	}
	var want []string
	for _, f := range testFiles {
		full := filepath.Join(dir, f.path)
		touch(t, full)
		if f.isScript {
			want = append(want, full)
		}
	}

	files, err := NewFileScanner(dir).Scan()
	require.NoError(t, err)
	assert.ElementsMatch(t, want, files)
	assert.IsIncreasing(t, files)
}

func TestScanFilesAndVideos(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "clip.funscript")
	video := filepath.Join(dir, "clip.mkv")
	touch(t, script)
	touch(t, video)

	files, err := NewFileScanner(script, video, dir).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{script}, files)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := NewFileScanner(filepath.Join(t.TempDir(), "missing")).Scan()
	assert.Error(t, err)
}

func TestScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}
