package pixelsom

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with pixelsom-specific helpers.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithGrid adds the grid shape to the logger.
func (l *Logger) WithGrid(x, y, c int) *Logger {
	return &Logger{
		Logger: l.Logger.With("grid_x", x, "grid_y", y, "channels", c),
	}
}

// WithSamples adds the sample row count to the logger.
func (l *Logger) WithSamples(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("samples", n),
	}
}

// LogTrain logs the end of a training run.
func (l *Logger) LogTrain(ctx context.Context, passes, steps int, seed int64, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training failed",
			"passes", passes,
			"seed", seed,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "training completed",
		"passes", passes,
		"steps", steps,
		"seed", seed,
		"duration", took,
	)
}

// LogProgress logs training progress. step is 1-based.
func (l *Logger) LogProgress(ctx context.Context, step, total int, sigma, learningRate float64) {
	l.InfoContext(ctx, "training progress",
		"step", step,
		"total", total,
		"sigma", sigma,
		"learning_rate", learningRate,
	)
}

// LogAssign logs a cluster assignment.
func (l *Logger) LogAssign(ctx context.Context, clusters int, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "assignment failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "assignment completed",
		"clusters", clusters,
		"duration", took,
	)
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op+" completed",
		"name", name,
		"bytes", bytes,
	)
}
