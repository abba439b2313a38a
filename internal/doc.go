// Package internal provides the HTTP runtime of the zero2prod service.
//
// # Core Types
//
//   - App: orchestrates HTTP routing, middleware, health probes, and graceful shutdown
//   - Context: request/response access, JSON binding, and request-scoped logging
//   - Router: interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: implemented by types that declare routes on a router
//   - HandlerFunc: signature for route handlers that return errors
//   - Middleware: wraps handlers to add cross-cutting concerns
//   - ErrorHandler: maps handler errors to responses
//   - HTTPError: an error carrying the status code returned to the client
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to store and
// mailer calls:
//
//	func (h *Subscriptions) confirm(c internal.Context) error {
//	    return h.workflow.Confirm(c, c.Query("subscription_token"))
//	}
//
// # Application Structure
//
//	app := internal.New(
//	    internal.WithCustomLogger(log),
//	    internal.WithHandlers(subscriptions, newsletters),
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("db", db.Healthcheck(pool))),
//	)
//	err := app.Run(":8000", internal.Logger(log))
//
// # Error Handling
//
// Handlers return errors instead of writing failure responses. Unless the
// response was already written, the App passes the error to the configured
// ErrorHandler. Without one, an *HTTPError is rendered with its status code
// and anything else becomes a 500.
//
// # Health Checks
//
// WithHealthChecks registers a liveness probe at /health_check that answers
// 200 with an empty body, and a readiness probe at /health/ready that runs
// every registered check in parallel.
//
// # Graceful Shutdown
//
// Run listens for SIGINT and SIGTERM, stops accepting connections, waits for
// in-flight requests, then runs shutdown hooks in registration order.
package internal
