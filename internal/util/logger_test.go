package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	logger := NewNopLogger()
	logger.SetLevel(LevelWarn)
	mem := NewMemoryOutput(0)
	logger.AddOutput(mem)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warnf("field %q was not found", "range")
	logger.Error("boom")

	assert.Equal(t, []string{`field "range" was not found`, "boom"}, mem.Messages(""))
	assert.Equal(t, []string{"boom"}, mem.Messages("ERROR"))
}

func TestLoggerWithSharesOutputs(t *testing.T) {
	logger := NewNopLogger()
	logger.SetLevel(LevelDebug)
	mem := NewMemoryOutput(0)
	logger.AddOutput(mem)

	child := logger.With(F("component", "serializer"))
	child.Info("hello", F("file", "a.funscript"))

	entries := mem.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "serializer", entries[0].Fields["component"])
	assert.Equal(t, "a.funscript", entries[0].Fields["file"])
}

func TestMemoryOutputLimit(t *testing.T) {
	mem := NewMemoryOutput(2)
	logger := NewNopLogger()
	logger.SetLevel(LevelInfo)
	logger.AddOutput(mem)

	logger.Info("a")
	logger.Info("b")
	logger.Info("c")

	assert.Equal(t, []string{"b", "c"}, mem.Messages(""))
	mem.Reset()
	assert.Empty(t, mem.Entries())
}

func TestConsoleOutputFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := NewNopLogger()
	logger.SetLevel(LevelInfo)
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))
	logger.Info("saved", F("b", 2), F("a", 1))

	line := buf.String()
	assert.Contains(t, line, "[INFO] saved a=1 b=2")

	buf.Reset()
	jsonLogger := NewNopLogger()
	jsonLogger.SetLevel(LevelInfo)
	jsonLogger.AddOutput(NewConsoleOutput(&buf, FormatJSON))
	jsonLogger.Info("saved")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"message":"saved"`)
}

func TestNewLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger("debug", path, false)
	require.NoError(t, err)

	logger.Debug("written")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] written")
}

func TestGlobalLoggerFallback(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	SetLogger(nil)
	assert.NotNil(t, GetLogger())

	mem := NewMemoryOutput(0)
	l := NewNopLogger()
	l.SetLevel(LevelInfo)
	l.AddOutput(mem)
	SetLogger(l)

	LogWarnf("x=%d", 1)
	assert.Equal(t, []string{"x=1"}, mem.Messages("WARN"))
	assert.Equal(t, l, OrGlobal(nil))
}
