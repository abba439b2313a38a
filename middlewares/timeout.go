package middlewares

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xxc-git/zero2prod/internal"
)

// DefaultTimeout applies when Timeout is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

// TimeoutError is returned when a request outlives its deadline.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// TimeoutOption configures Timeout.
type TimeoutOption func(*timeoutConfig)

type timeoutConfig struct {
	skip func(c internal.Context) bool
}

// WithTimeoutSkipper exempts requests for which skip returns true. They run
// on the calling goroutine with no deadline.
func WithTimeoutSkipper(skip func(c internal.Context) bool) TimeoutOption {
	return func(cfg *timeoutConfig) { cfg.skip = skip }
}

// SkipPaths matches requests whose URL path is one of paths.
func SkipPaths(paths ...string) func(c internal.Context) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(c internal.Context) bool {
		_, ok := set[c.Request().URL.Path]
		return ok
	}
}

type timeoutContextKey struct{}

// Timeout answers with a *TimeoutError when the rest of the chain has not
// returned within d. The request context is left untouched: handlers that
// want to stop early read the deadline from TimeoutContext. A panic in the
// chain comes back as a *PanicError, and whatever the handler writes after
// the deadline is discarded.
func Timeout(d time.Duration, opts ...TimeoutOption) internal.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}
	cfg := &timeoutConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if cfg.skip != nil && cfg.skip(c) {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Context(), d)
			defer cancel()
			c.Set(timeoutContextKey{}, ctx)

			done := make(chan error, 1)
			go func() {
				defer func() {
					if v := recover(); v != nil {
						done <- newPanicError(v, DefaultStackSize)
					}
				}()
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return ctx.Err()
				}
				c.LogWarn("request timed out", "timeout", d.String())
				return &TimeoutError{Duration: d}
			}
		}
	}
}

// TimeoutContext returns the context carrying the Timeout deadline, or the
// request context when Timeout did not run.
func TimeoutContext(c internal.Context) context.Context {
	if ctx, ok := c.Get(timeoutContextKey{}).(context.Context); ok {
		return ctx
	}
	return c.Context()
}
