package vekk

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vekk-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogMigrate logs an inline-to-heap migration.
func (l *Logger) LogMigrate(count, capacity int, err error) {
	if err != nil {
		l.Error("migration failed",
			"count", count,
			"capacity", capacity,
			"error", err,
		)
	} else {
		l.Debug("migrated to heap",
			"count", count,
			"capacity", capacity,
		)
	}
}

// LogGrow logs a heap-buffer growth failure during push or insert.
func (l *Logger) LogGrow(length int, err error) {
	l.Error("heap growth failed",
		"length", length,
		"error", err,
	)
}

// LogRelease logs the release of a heap buffer.
func (l *Logger) LogRelease(length int, err error) {
	if err != nil {
		l.Error("release failed",
			"length", length,
			"error", err,
		)
	} else {
		l.Debug("heap buffer released",
			"length", length,
		)
	}
}
