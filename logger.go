package symgraph

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with symgraph-specific context.
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

// WithModule adds a module name field to the logger.
func (l *Logger) WithModule(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("module", name),
	}
}

// LogLoad logs a module load.
func (l *Logger) LogLoad(ctx context.Context, name string, entities int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "module load failed",
			"module", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "module loaded",
			"module", name,
			"entities", entities,
			"duration", duration,
		)
	}
}

// LogSave logs a module save.
func (l *Logger) LogSave(ctx context.Context, name string, size int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "module save failed",
			"module", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "module saved",
			"module", name,
			"bytes", size,
			"duration", duration,
		)
	}
}
