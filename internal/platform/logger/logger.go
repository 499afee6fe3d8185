package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Text output for dev,
// JSON when LOG_FORMAT=json (what log collectors expect in deployment).
func New() *slog.Logger {
	if os.Getenv("LOG_FORMAT") == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
