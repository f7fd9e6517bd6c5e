package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init initializes the global slog logger with the specified format and level
func Init(format, level string) *slog.Logger {
	l := New(os.Stdout, format, level)
	slog.SetDefault(l)
	return l
}

// New builds a logger writing to w with the specified format and level
func New(w io.Writer, format, level string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true,
	}

	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "console":
		handler = slog.NewTextHandler(w, opts)
	default:
		// Default to text for development
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "notice":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
