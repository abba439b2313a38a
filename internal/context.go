package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxJSONBodySize bounds request bodies read by BindJSON.
const maxJSONBodySize = 1 << 20

// ErrEmptyBody is returned by BindJSON when the request carries no body.
var ErrEmptyBody = errors.New("request body is empty")

// Context is the per-request handle given to handlers and middleware.
// It is itself a context.Context backed by the request context, so it can be
// handed straight to the store and the mailer.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter

	// ResponseWriter exposes the status and size recorded so far.
	ResponseWriter() *ResponseWriter

	// Context returns the current request context.
	Context() context.Context

	// SetContext replaces the request context, e.g. to attach a deadline.
	SetContext(ctx context.Context)

	Query(name string) string
	Form(name string) string
	Header(name string) string
	SetHeader(name, value string)

	// BindJSON decodes the body into v. Unknown fields are ignored.
	BindJSON(v any) error

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error

	// Written reports whether the status line has been sent.
	Written() bool

	// Set stores a request-scoped value visible to later handlers.
	Set(key, value any)
	Get(key any) any

	Logger() *slog.Logger
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)
}

type requestContext struct {
	req *http.Request
	rw  *ResponseWriter
	log *slog.Logger
}

func newContext(w http.ResponseWriter, r *http.Request, log *slog.Logger) *requestContext {
	return &requestContext{req: r, rw: NewResponseWriter(w), log: log}
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.req.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.req.Context().Done() }
func (c *requestContext) Err() error                  { return c.req.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.req.Context().Value(key) }

func (c *requestContext) Request() *http.Request          { return c.req }
func (c *requestContext) Response() http.ResponseWriter   { return c.rw }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.rw }
func (c *requestContext) Context() context.Context        { return c.req.Context() }

func (c *requestContext) SetContext(ctx context.Context) {
	c.req = c.req.WithContext(ctx)
}

func (c *requestContext) Query(name string) string  { return c.req.URL.Query().Get(name) }
func (c *requestContext) Form(name string) string   { return c.req.FormValue(name) }
func (c *requestContext) Header(name string) string { return c.req.Header.Get(name) }

func (c *requestContext) SetHeader(name, value string) {
	c.rw.Header().Set(name, value)
}

func (c *requestContext) BindJSON(v any) error {
	if c.req.Body == nil || c.req.Body == http.NoBody {
		return ErrEmptyBody
	}
	err := json.NewDecoder(io.LimitReader(c.req.Body, maxJSONBodySize)).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	default:
		return fmt.Errorf("bind json: %w", err)
	}
}

func (c *requestContext) JSON(code int, v any) error {
	c.rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.rw.WriteHeader(code)
	return json.NewEncoder(c.rw).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.rw.WriteHeader(code)
	_, err := io.WriteString(c.rw, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.rw.WriteHeader(code)
	return nil
}

func (c *requestContext) Written() bool { return c.rw.Written() }

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.req.Context(), key, value))
}

func (c *requestContext) Get(key any) any { return c.req.Context().Value(key) }

func (c *requestContext) Logger() *slog.Logger { return c.log }

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.log.InfoContext(c.req.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.log.WarnContext(c.req.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.log.ErrorContext(c.req.Context(), msg, attrs...)
}
