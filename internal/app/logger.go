package app

import (
	"io"
	"log/slog"
)

// newLogger builds the slog.Logger for one build run from the -log-level and
// -log-format flags. The logger is owned by the App rather than installed as
// the global default, so tests can capture a run's output in isolation.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		// cli.Parse validates the flag; anything else means no flag at all.
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	} else {
		handler = slog.NewTextHandler(outW, opts)
	}

	return slog.New(handler)
}
