// Package middlewares provides the HTTP middleware stack of the service.
//
// The server installs them in this order:
//
//	internal.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Logging(),
//	    middlewares.Recover(),
//	    middlewares.Timeout(cfg.App.RequestTimeout,
//	        middlewares.WithTimeoutSkipper(middlewares.SkipPaths("/newsletters")),
//	    ),
//	)
//
// RequestID assigns a ULID to every request unless an upstream X-Request-ID
// is present. Pair it with RequestIDExtractor when building the logger so
// every entry written with the request context carries request_id.
//
// Logging writes one entry per request. Recover turns panics into a
// *PanicError and Timeout returns a *TimeoutError once the deadline passes;
// both are rendered by the App's ErrorHandler as a bare 5xx status. Timeout
// runs the chain on its own goroutine and recovers panics there itself. It
// never shortens the request context; handlers that want the deadline read
// TimeoutContext.
package middlewares
