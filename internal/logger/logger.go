package logger

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/fx/fxevent"

	"github.com/polkiloo/cinema/internal/config"
)

// New creates a preconfigured slog.Logger tagged with the service name.
func New(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stdout, cfg.LogLevel).With(slog.String("service", string(cfg.Service)))
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// NewEventLogger routes fx lifecycle events through the application logger.
func NewEventLogger(logger *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: logger}
}
