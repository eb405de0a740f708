package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout)))
}

func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// Attach replaces the default logger with one that writes to stdout and to
// each extra handler.
func Attach(extra ...slog.Handler) {
	handlers := append([]slog.Handler{NewJSONHandler(os.Stdout)}, extra...)
	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
}
