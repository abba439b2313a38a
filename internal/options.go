package internal

import "log/slog"

// Option configures an App in New.
type Option func(*App)

// WithMiddleware appends global middleware. The first one given is the
// outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers route declarations.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithErrorHandler replaces the status-only default error rendering.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.onError = h
	}
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFound = h
	}
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notAllowed = h
	}
}

// WithCustomLogger sets the logger handed to every request Context.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}
