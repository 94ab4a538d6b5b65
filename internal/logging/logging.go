// Package logging builds the run logger: console output plus two files in
// the log directory, one with every record and one with errors only.
package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mama165/sdk-go/logs"
	slogmulti "github.com/samber/slog-multi"
)

const (
	RunLogFile   = "mcuwatch.log"
	ErrorLogFile = "error.log"
)

// ParseLevel accepts debug, info, warn/warning and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Closer releases the log files.
type Closer func() error

// New returns a logger writing to the console and to dir. The console
// handler is the shared sdk logger at the requested level.
func New(level, dir string) (*slog.Logger, Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	console := logs.GetLoggerFromLevel(lvl).Handler()
	return NewWithConsole(console, lvl, dir)
}

// NewWithConsole is New with the console handler supplied by the caller.
func NewWithConsole(console slog.Handler, level slog.Level, dir string) (*slog.Logger, Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	runFile, err := openAppend(filepath.Join(dir, RunLogFile))
	if err != nil {
		return nil, nil, err
	}
	errFile, err := openAppend(filepath.Join(dir, ErrorLogFile))
	if err != nil {
		_ = runFile.Close()
		return nil, nil, err
	}

	handler := slogmulti.Fanout(
		console,
		slog.NewTextHandler(runFile, &slog.HandlerOptions{Level: level}),
		slog.NewTextHandler(errFile, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	closer := func() error {
		return errors.Join(runFile.Close(), errFile.Close())
	}
	return slog.New(handler), closer, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
