package internal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xxc-git/zero2prod/pkg/health"
	"github.com/xxc-git/zero2prod/pkg/logger"
)

// App is the HTTP front of the service: a chi mux with global middleware,
// the registered Handlers and optional health probes. All configuration
// happens in New; an App is not modified afterwards.
type App struct {
	mux         chi.Router
	log         *slog.Logger
	onError     ErrorHandler
	notFound    HandlerFunc
	notAllowed  HandlerFunc
	probes      *probes
	middlewares []Middleware
	handlers    []Handler
}

// New builds an App from opts.
//
//	app := internal.New(
//	    internal.WithCustomLogger(log),
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    internal.WithErrorHandler(handlers.ErrorHandler),
//	    internal.WithHandlers(handlers.NewSubscriptions(workflow)),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("database", db.Healthcheck(pool))),
//	)
func New(opts ...Option) *App {
	a := &App{
		mux: chi.NewRouter(),
		log: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.mount()
	return a
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Run serves the App on addr and blocks until shutdown completes.
//
//	err := app.Run(cfg.App.Addr(), internal.Logger(log), internal.ShutdownHook(db.Shutdown(pool)))
func (a *App) Run(addr string, opts ...RunOption) error {
	return newServer(addr, a, buildRunConfig(opts...)).run()
}

// mount installs middleware first, since chi rejects Use after routes exist.
func (a *App) mount() {
	for _, mw := range a.middlewares {
		a.mux.Use(a.middleware(mw))
	}
	if a.notFound != nil {
		a.mux.NotFound(a.serve(a.notFound))
	}
	if a.notAllowed != nil {
		a.mux.MethodNotAllowed(a.serve(a.notAllowed))
	}

	if p := a.probes; p != nil {
		a.mux.Get(p.livenessPath, health.LivenessHandler())
		a.mux.Get(p.readinessPath, health.ReadinessHandler(p.checks, health.WithLogger(a.log)))
	}

	r := &routes{mux: a.mux, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// serve adapts h to net/http, routing a returned error to fail. The
// writer is sealed on return, so nothing h started can write afterwards.
func (a *App) serve(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.log)
		defer c.rw.Seal()
		if err := h(c); err != nil {
			a.fail(c, err)
		}
	}
}

// middleware adapts mw to chi. The next handler sees the request as mw left
// it, so values and deadlines set through the Context flow downstream.
func (a *App) middleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := mw(func(c Context) error {
			next.ServeHTTP(c.Response(), c.Request())
			return nil
		})
		return a.serve(h)
	}
}

// fail renders err unless the handler already started the response.
// Without an ErrorHandler only the status code is sent.
func (a *App) fail(c Context, err error) {
	if c.Written() {
		a.log.WarnContext(c, "error after response was written", slog.Any("error", err))
		return
	}
	if a.onError != nil {
		if herr := a.onError(c, err); herr != nil {
			a.log.ErrorContext(c, "error handler failed", slog.Any("error", herr))
		}
		return
	}

	code := http.StatusInternalServerError
	if httpErr := AsHTTPError(err); httpErr != nil {
		code = httpErr.Code
	}
	_ = c.NoContent(code)
}
