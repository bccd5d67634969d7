package gate

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with gate-specific context.
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

// WithCategory adds a category field to the logger.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{
		Logger: l.Logger.With("category", category),
	}
}

// WithAmount adds an amount field to the logger.
func (l *Logger) WithAmount(amount int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("amount", amount),
	}
}

// LogSubmit logs a submission, queued or rejected.
func (l *Logger) LogSubmit(ctx context.Context, category string, amount int64, unshift bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "submit rejected",
			"category", category,
			"amount", amount,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "submit queued",
			"category", category,
			"amount", amount,
			"unshift", unshift,
		)
	}
}

// LogAdmit logs the admission of a queued request.
func (l *Logger) LogAdmit(ctx context.Context, category string, amount int64, runIndex uint64) {
	l.DebugContext(ctx, "request admitted",
		"category", category,
		"amount", amount,
		"run_index", runIndex,
	)
}

// LogRelease logs the release or cancellation of a request.
func (l *Logger) LogRelease(ctx context.Context, category string, amount int64, canceled bool) {
	l.DebugContext(ctx, "request released",
		"category", category,
		"amount", amount,
		"canceled", canceled,
	)
}

// LogDrain logs a category becoming fully idle.
func (l *Logger) LogDrain(category string) {
	l.Debug("category drained",
		"category", category,
	)
}
