package handlers

import (
	"time"

	"github.com/xxc-git/zero2prod/internal"
	"github.com/xxc-git/zero2prod/middlewares"
)

// WorkflowPaths run their workflow to completion. They are exempt from the
// request timeout, and the workflow gets a context that ignores client
// disconnects.
var WorkflowPaths = []string{"/subscriptions", "/subscriptions/confirm", "/newsletters"}

// Chain returns the global middleware the server installs, outermost first.
func Chain(requestTimeout time.Duration) []internal.Middleware {
	return []internal.Middleware{
		middlewares.RequestID(),
		middlewares.Logging(),
		middlewares.Recover(),
		middlewares.Timeout(requestTimeout,
			middlewares.WithTimeoutSkipper(middlewares.SkipPaths(WorkflowPaths...)),
		),
	}
}
