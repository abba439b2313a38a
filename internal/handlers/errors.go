package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/xxc-git/zero2prod/internal"
	"github.com/xxc-git/zero2prod/internal/domain"
	"github.com/xxc-git/zero2prod/middlewares"
)

// StatusFor maps an error returned by a handler to a response status.
//
// Request-shape failures carry their own code as *internal.HTTPError.
// Workflow errors map by kind: validation is 400, an unknown token is 401,
// every other kind is 500.
func StatusFor(err error) int {
	if httpErr := internal.AsHTTPError(err); httpErr != nil {
		return httpErr.Code
	}
	var timeout *middlewares.TimeoutError
	if errors.As(err, &timeout) {
		return http.StatusServiceUnavailable
	}

	switch kind := domain.KindOf(err); {
	case errors.Is(kind, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(kind, domain.ErrUnknownToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders handler errors as a bare status code. The full cause,
// including the failed step, goes to the log only.
func ErrorHandler(c internal.Context, err error) error {
	status := StatusFor(err)

	attrs := []any{
		slog.Int("status", status),
		slog.Any("error", err),
	}
	if step := domain.StepOf(err); step != "" {
		attrs = append(attrs, slog.String("step", step))
	}
	var pe *middlewares.PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}

	if status >= http.StatusInternalServerError {
		c.LogError("request failed", attrs...)
	} else {
		c.LogInfo("request rejected", attrs...)
	}

	return c.NoContent(status)
}
