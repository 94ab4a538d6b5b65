package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" Warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithConsole_SplitsByLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer
	logger, closeLogs, err := NewWithConsole(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.LevelInfo, dir)
	require.NoError(t, err)

	logger = logger.With("run_id", "r-1")
	logger.Debug("classified", "participant", "room-a")
	logger.Info("participant remedied", "participant", "room-a")
	logger.Error("fault", "participant", "room-b", "error", "connection refused")
	require.NoError(t, closeLogs())

	runLog, err := os.ReadFile(filepath.Join(dir, RunLogFile))
	require.NoError(t, err)
	errLog, err := os.ReadFile(filepath.Join(dir, ErrorLogFile))
	require.NoError(t, err)

	assert.NotContains(t, string(runLog), "classified")
	assert.Contains(t, string(runLog), `msg="participant remedied" run_id=r-1 participant=room-a`)
	assert.Contains(t, string(runLog), "level=ERROR")

	assert.NotContains(t, string(errLog), "participant remedied")
	assert.Contains(t, string(errLog), `error="connection refused"`)
	assert.Contains(t, string(errLog), "run_id=r-1")

	assert.Contains(t, console.String(), "participant remedied")
	assert.Contains(t, console.String(), "participant=room-b")
}

func TestNewWithConsole_AppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	for _, msg := range []string{"first run", "second run"} {
		logger, closeLogs, err := NewWithConsole(slog.DiscardHandler, slog.LevelInfo, dir)
		require.NoError(t, err)
		logger.Info(msg)
		require.NoError(t, closeLogs())
	}
	data, err := os.ReadFile(filepath.Join(dir, RunLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestNewWithConsole_GroupsReachEveryDestination(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	logger, closeLogs, err := NewWithConsole(slog.NewJSONHandler(&console, nil), slog.LevelInfo, dir)
	require.NoError(t, err)

	logger.WithGroup("mcu").Error("request failed", "method", "participant.status")
	require.NoError(t, closeLogs())

	assert.Contains(t, console.String(), `"mcu":{"method":"participant.status"}`)
	for _, name := range []string{RunLogFile, ErrorLogFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "mcu.method=participant.status", name)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, _, err := New("verbose", t.TempDir())
	assert.Error(t, err)
}
