// Package logger builds the process-wide *slog.Logger.
//
// The logger is created once at startup and injected into every component
// constructor. Nothing in the service reads a package-level logger.
//
//	log := logger.FromConfig(cfg.Log, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "subscriber stored", slog.String("email", email))
//	// {"level":"INFO","msg":"subscriber stored","email":"...","request_id":"01J..."}
//
// A [ContextExtractor] pulls one attribute from a context.Context. The
// [LogHandlerDecorator] runs every extractor on each record, so request-scoped
// values such as the request id appear without being passed explicitly.
//
// When SENTRY_DSN is set, records are fanned out to stdout and Sentry:
// errors become Sentry issues and warnings are stored as Sentry logs. With an
// empty DSN the logger writes to stdout only. Register [SentryFlush] as a
// shutdown hook so buffered events are delivered before exit.
//
// [NewNope] returns a logger that discards everything; it is the default for
// components constructed without one.
package logger
