// internal/logging/logger.go
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger creates a new structured logger
func NewLogger(format string, level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// WithSession returns a logger with the session id attached
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With("session", sessionID)
}

// WithTrigger returns a logger with the trigger's display name attached
func WithTrigger(logger *slog.Logger, trigger string) *slog.Logger {
	return logger.With("trigger", trigger)
}
