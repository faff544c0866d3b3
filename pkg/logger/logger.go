package logger

import (
	"log/slog"
	"os"
)

// New builds the process-wide JSON logger and installs it as the slog default
// so package-level slog calls in handlers and stores share one sink.
func New() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
