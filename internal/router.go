package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HandlerFunc serves one route. A returned error goes to the App's
// ErrorHandler unless the response was already written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
//
//	func RequireJSON(next internal.HandlerFunc) internal.HandlerFunc {
//	    return func(c internal.Context) error {
//	        if c.Header("Content-Type") != "application/json" {
//	            return internal.ErrBadRequest("expected JSON body")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler turns a handler error into a response.
type ErrorHandler func(c Context, err error) error

// Handler declares its routes on a Router.
//
//	func (h *Subscriptions) Routes(r internal.Router) {
//	    r.POST("/subscriptions", h.subscribe)
//	    r.GET("/subscriptions/confirm", h.confirm)
//	}
type Handler interface {
	Routes(r Router)
}

// Router is the route registration surface given to Handlers.
type Router interface {
	// GET registers h for GET requests. Route middleware runs in the
	// order given, after the global middleware.
	GET(path string, h HandlerFunc, mw ...Middleware)

	// POST registers h for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware)

	// Route registers the routes declared in fn under a path prefix.
	Route(prefix string, fn func(r Router))

	// Mount attaches a plain http.Handler, e.g. promhttp.
	Mount(pattern string, h http.Handler)
}

type routes struct {
	mux chi.Router
	app *App
}

func (r *routes) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.mux.Get(path, r.app.serve(chain(h, mw)))
}

func (r *routes) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.mux.Post(path, r.app.serve(chain(h, mw)))
}

func (r *routes) Route(prefix string, fn func(Router)) {
	r.mux.Route(prefix, func(sub chi.Router) {
		fn(&routes{mux: sub, app: r.app})
	})
}

func (r *routes) Mount(pattern string, h http.Handler) {
	r.mux.Mount(pattern, h)
}

// chain wraps h so that mw[0] is the outermost layer.
func chain(h HandlerFunc, mw []Middleware) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
