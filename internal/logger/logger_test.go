package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// linePattern matches a single "[YYYY-MM-DD HH:MM:SS] message" log line.
var linePattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] (.*)$`)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"panic":   zapcore.PanicLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestNew_LineFormat checks that entries are rendered as "[time] message" without level columns.
func TestNew_LineFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := New(zap.DebugLevel, &buf)
	l.Info("All clear. No pending cases.")
	l.Debugf("Case %d: Device %s at %s", 1, "A1", "12:00")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	m := linePattern.FindStringSubmatch(lines[0])
	require.NotNil(t, m)
	require.Equal(t, "All clear. No pending cases.", m[1])

	m = linePattern.FindStringSubmatch(lines[1])
	require.NotNil(t, m)
	require.Equal(t, "Case 1: Device A1 at 12:00", m[1])
}

// TestNew_RespectsLevel ensures entries below the configured level are dropped.
func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := New(zap.WarnLevel, &buf)
	l.Info("hidden")
	l.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

// TestOpen_AppendsToFile verifies the file sink appends across two logger lifecycles.
func TestOpen_AppendsToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "relay.log")

	l, closeFn, err := Open(zap.InfoLevel, path)
	require.NoError(t, err)
	l.Info("first run")
	closeFn()

	l, closeFn, err = Open(zap.InfoLevel, path)
	require.NoError(t, err)
	l.Info("second run")
	closeFn()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasSuffix(lines[0], "] first run"))
	require.True(t, strings.HasSuffix(lines[1], "] second run"))
	require.Regexp(t, linePattern, lines[1])
}

// TestOpen_BadPath reports an error when the log file cannot be created.
func TestOpen_BadPath(t *testing.T) {
	t.Parallel()

	_, _, err := Open(zap.InfoLevel, filepath.Join(t.TempDir(), "missing", "dir", "relay.log"))
	require.Error(t, err)
}

// TestContextHelpers verifies ToContext/FromContext round-trip and the naming helpers.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "relay")
	ctx = WithKV(ctx, "port", "COM4")

	Infof(ctx, "Case %d", 1)
	WarnKV(ctx, "Multiple connection failures", "failures", 5)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "Case 1", entries[0].Message)
	require.Equal(t, "relay", entries[0].LoggerName)
	require.Equal(t, "COM4", entries[0].ContextMap()["port"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)

	require.NotNil(t, FromContext(context.Background()))
}
