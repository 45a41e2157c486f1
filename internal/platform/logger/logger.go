package logger

import (
	"log/slog"
	"os"
)

// New returns the service-wide structured logger. JSON output so the action
// and error lines land in log aggregation unmangled.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
