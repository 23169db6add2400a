package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatEntry(t *testing.T) {
	now := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := formatEntry(now, LevelInfo, CatDiff, "computed", []any{"rows", 3, "added", 1})
	require.Equal(t, "2025-12-06T10:45:00 [INFO] [diff] computed rows=3 added=1\n", got)

	got = formatEntry(now, LevelWarn, CatSched, "orphan", []any{"dangling"})
	require.Equal(t, "2025-12-06T10:45:00 [WARN] [sched] orphan dangling=<missing>\n", got)
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestWriter_RespectsMinLevelAndEnabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Close)

	SetMinLevel(LevelWarn)
	Debug(CatUI, "hidden")
	Warn(CatUI, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [ui] shown")

	SetEnabled(false)
	Error(CatUI, "muted")
	require.NotContains(t, buf.String(), "muted")
}

func TestErrorErr_AppendsError(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Close)

	ErrorErr(CatConfig, "save failed", errors.New("disk full"), "path", "x.yaml")
	ErrorErr(CatConfig, "nil error", nil)

	out := buf.String()
	require.Contains(t, out, "save failed path=x.yaml error=disk full")
	require.Contains(t, out, "nil error error=<nil>")
}

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Info(CatSession, "swap", "left", 3)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "[INFO] [session] swap left=3\n"))

	// Logging after close is a no-op.
	Info(CatSession, "after close")
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	require.Nil(t, NewListener(context.Background()), "no listener without a logger")

	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Debug(CatCache, "hit", "key", "myers:1")

	event, ok := listener.Listen()().(LogEvent)
	require.True(t, ok)
	require.Contains(t, event.Payload, "[cache] hit key=myers:1")
}

func TestEnabled(t *testing.T) {
	t.Setenv(EnvDebug, "")
	require.False(t, Enabled(false))
	require.True(t, Enabled(true))

	t.Setenv(EnvDebug, "1")
	require.True(t, Enabled(false))
}
