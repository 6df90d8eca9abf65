// Package logging builds the slog loggers used by the rigschema CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a logger writing to w. level is one of debug, info, warn or error
// (default info); format "json" selects the JSON handler, anything else text.
// It does not set the global logger.
func New(level, format string, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
