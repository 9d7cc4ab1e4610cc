// Package logger provides a simple wrapper around slog for structured logging.
package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is the global logger instance. It writes to stderr until InitFile
// redirects it; the TUI owns the terminal, so anything chatty should go to a
// file.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// InitFile redirects the global logger to the given file, creating it if
// needed. The returned closer must be called on shutdown.
func InitFile(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	Logger = slog.New(slog.NewTextHandler(f, nil))
	return f.Close, nil
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
