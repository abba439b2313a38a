package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// sentryFlushTimeout applies when the shutdown context has no deadline.
const sentryFlushTimeout = 2 * time.Second

// SentryConfig enables error reporting to Sentry when DSN is set.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel is the lowest level forwarded as a Sentry log. Error records
	// always become issues.
	MinLevel slog.Level `env:"SENTRY_MIN_LEVEL" envDefault:"WARN"`
}

// NewWithSentry logs JSON to stdout and, with a DSN, to Sentry as well.
// A Sentry init failure is logged and leaves stdout logging in place.
func NewWithSentry(cfg SentryConfig, level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	stdout := jsonHandler(os.Stdout, level)
	if cfg.DSN == "" {
		return slog.New(withExtractors(stdout, extractors...))
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	})
	if err != nil {
		slog.New(stdout).Error("sentry init failed, logging to stdout only", slog.Any("error", err))
		return slog.New(withExtractors(stdout, extractors...))
	}

	toSentry := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   levelsFrom(cfg.MinLevel),
	}.NewSentryHandler(context.Background())

	return slog.New(withExtractors(fanout{stdout, toSentry}, extractors...))
}

// levelsFrom lists the standard levels at or above min.
func levelsFrom(min slog.Level) []slog.Level {
	var out []slog.Level
	for _, l := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l >= min {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		out = []slog.Level{slog.LevelError}
	}
	return out
}

// SentryFlush is a shutdown hook draining buffered Sentry events. It is a
// no-op when Sentry was never initialised.
func SentryFlush() func(context.Context) error {
	return func(ctx context.Context) error {
		timeout := sentryFlushTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		sentry.Flush(timeout)
		return nil
	}
}
