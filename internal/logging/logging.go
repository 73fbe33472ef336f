// Package logging builds the structured JSON logger used across the
// tool: one JSON object per line with timestamp, level, message and any
// contextual attributes.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns a logger writing JSON records to w. Records below the
// given minimum level are suppressed by the handler.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// ParseLevel converts a config level string to a slog.Level.
// Unknown or empty values default to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
