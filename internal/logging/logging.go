// Package logging sets up the process logger. The terminal belongs to the
// TUI, so log lines go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	levelVar slog.LevelVar

	mu      sync.Mutex
	logFile *os.File
)

// ParseLevel converts a config spelling to a slog level. Unknown values
// map to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the level of every logger built by this package.
func SetLevel(raw string) {
	levelVar.Set(ParseLevel(raw))
}

// New builds a text logger writing to w at the shared level.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &levelVar}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Open creates the parent directory of path, opens it for appending and
// returns a logger writing to it. If the file cannot be opened the returned
// logger discards output and the error says why.
func Open(path, level string) (*slog.Logger, error) {
	SetLevel(level)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Discard(), fmt.Errorf("creating log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Discard(), fmt.Errorf("opening log file: %w", err)
	}

	mu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	mu.Unlock()

	return New(f), nil
}

// Close closes the file opened by Open, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
