package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxc-git/zero2prod/internal"
	"github.com/xxc-git/zero2prod/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("passes through when handler completes in time", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequestContext(http.MethodGet, "/")
		assert.NoError(t, middlewares.Timeout(time.Second)(noop)(c))
	})

	t.Run("deadline is exposed without replacing the request context", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequestContext(http.MethodGet, "/")
		var requestDeadline, timeoutDeadline bool
		err := middlewares.Timeout(time.Second)(func(c internal.Context) error {
			_, requestDeadline = c.Context().Deadline()
			_, timeoutDeadline = middlewares.TimeoutContext(c).Deadline()
			return nil
		})(c)

		require.NoError(t, err)
		assert.False(t, requestDeadline)
		assert.True(t, timeoutDeadline)
	})

	t.Run("TimeoutContext falls back to the request context", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequestContext(http.MethodGet, "/")
		assert.Equal(t, c.Context(), middlewares.TimeoutContext(c))
	})

	t.Run("panic in the handler becomes PanicError", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequestContext(http.MethodGet, "/")
		err := middlewares.Timeout(time.Second)(func(c internal.Context) error {
			panic("boom")
		})(c)

		var pe *middlewares.PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "boom", pe.Value)
		assert.Contains(t, string(pe.Stack), "goroutine")
	})

	t.Run("skipped requests run past the deadline", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequestContext(http.MethodPost, "/newsletters")
		mw := middlewares.Timeout(10*time.Millisecond,
			middlewares.WithTimeoutSkipper(middlewares.SkipPaths("/newsletters")))

		err := mw(func(c internal.Context) error {
			time.Sleep(50 * time.Millisecond)
			return c.NoContent(http.StatusOK)
		})(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, c.ResponseWriter().Status())
	})

	t.Run("returns TimeoutError when handler exceeds timeout", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequestContext(http.MethodGet, "/")
		err := middlewares.Timeout(10 * time.Millisecond)(func(c internal.Context) error {
			ctx := middlewares.TimeoutContext(c)
			<-ctx.Done()
			return ctx.Err()
		})(c)

		var te *middlewares.TimeoutError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 10*time.Millisecond, te.Duration)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.EqualError(t, err, "request timeout after 10ms")
	})

	t.Run("cancelled parent is not a timeout", func(t *testing.T) {
		t.Parallel()

		c, _ := newRequestContext(http.MethodGet, "/")
		ctx, cancel := context.WithCancel(c.Context())
		c.SetContext(ctx)
		cancel()

		err := middlewares.Timeout(time.Second)(func(c internal.Context) error {
			time.Sleep(50 * time.Millisecond)
			return nil
		})(c)

		var te *middlewares.TimeoutError
		assert.False(t, errors.As(err, &te))
	})
}
