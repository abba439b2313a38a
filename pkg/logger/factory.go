package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config configures the process logger.
type Config struct {
	Sentry SentryConfig
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// New creates a JSON-formatted stdout logger with optional context extractors.
func New(level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	return NewWriter(os.Stdout, level, extractors...)
}

// NewWriter creates a JSON-formatted logger writing to w.
func NewWriter(w io.Writer, level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(withExtractors(jsonHandler(w, level), extractors...))
}

// FromConfig creates the process logger: stdout, plus Sentry when a DSN is set.
func FromConfig(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return NewWithSentry(cfg.Sentry, cfg.Level, extractors...)
}

func jsonHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
