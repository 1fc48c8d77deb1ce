package euterpe

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with euterpe-specific context.
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

// LogRecommend logs a recommendation operation.
func (l *Logger) LogRecommend(ctx context.Context, strategy string, k, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "recommend failed",
			"strategy", strategy,
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "recommend completed",
			"strategy", strategy,
			"k", k,
			"results", results,
		)
	}
}

// LogNearestTags logs a song-to-tags lookup.
func (l *Logger) LogNearestTags(ctx context.Context, id int64, topn, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "nearest tags failed",
			"id", id,
			"topn", topn,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "nearest tags completed",
			"id", id,
			"topn", topn,
			"results", results,
		)
	}
}
