package internal_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxc-git/zero2prod/internal"
)

// captureHandler registers GET and POST on "/" and runs fn for each request.
type captureHandler struct {
	fn func(c internal.Context) error
}

func (h *captureHandler) Routes(r internal.Router) {
	r.GET("/", h.fn)
	r.POST("/", h.fn)
}

// requestVia serves req through an App whose only route is handled by fn.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context) error) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, internal.WithHandlers(&captureHandler{fn: fn}))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestHealthChecks(t *testing.T) {
	t.Parallel()

	t.Run("liveness answers 200 with empty body", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHealthChecks())
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health_check", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("readiness runs checks", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHealthChecks(
			internal.WithReadinessCheck("db", func(context.Context) error { return errors.New("down") }),
		))
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("custom paths", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithHealthChecks(
			internal.WithLivenessPath("/live"),
			internal.WithReadinessPath("/ready"),
		))
		for _, path := range []string{"/live", "/ready"} {
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})
}

func TestErrorHandling(t *testing.T) {
	t.Parallel()

	t.Run("default renders HTTPError status", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, nil, func(c internal.Context) error {
			return internal.ErrBadRequest("missing field")
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("default hides plain errors behind 500", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, nil, func(c internal.Context) error {
			return errors.New("pq: password authentication failed")
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		opts := []internal.Option{internal.WithErrorHandler(func(c internal.Context, err error) error {
			got = err
			return c.NoContent(http.StatusTeapot)
		})}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, opts, func(c internal.Context) error {
			return errors.New("boom")
		})

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.EqualError(t, got, "boom")
	})

	t.Run("written response is not overwritten", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, nil, func(c internal.Context) error {
			_ = c.NoContent(http.StatusAccepted)
			return errors.New("late failure")
		})

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("not found handler", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithNotFoundHandler(func(c internal.Context) error {
			return c.String(http.StatusNotFound, "nope")
		}))
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "nope", w.Body.String())
	})
}

func TestMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := requestVia(t, req, []internal.Option{internal.WithMiddleware(mw("first"), mw("second"))}, func(c internal.Context) error {
		order = append(order, "handler")
		return c.NoContent(http.StatusOK)
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestMiddlewareContextValues(t *testing.T) {
	t.Parallel()

	type key struct{}
	setter := func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.Set(key{}, "value")
			return next(c)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	var got string
	requestVia(t, req, []internal.Option{internal.WithMiddleware(setter)}, func(c internal.Context) error {
		got, _ = c.Get(key{}).(string)
		assert.Nil(t, c.Get("missing"))
		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, "value", got)
}

type metricsHandler struct{}

func (metricsHandler) Routes(r internal.Router) {
	r.Mount("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	}))
}

func TestRouterMount(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(metricsHandler{}))
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "metrics", w.Body.String())
}

func TestContextBindJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Title string `json:"title"`
	}

	tests := []struct {
		wantErr error
		name    string
		body    string
		want    string
		fails   bool
	}{
		{name: "valid", body: `{"title":"T","extra":1}`, want: "T"},
		{name: "empty", body: "", fails: true, wantErr: internal.ErrEmptyBody},
		{name: "malformed", body: `{"title":`, fails: true},
		{name: "wrong type", body: `{"title":42}`, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			requestVia(t, req, nil, func(c internal.Context) error {
				var p payload
				err := c.BindJSON(&p)
				if !tt.fails {
					require.NoError(t, err)
					assert.Equal(t, tt.want, p.Title)
					return nil
				}
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return nil
			})
		})
	}
}

func TestContextAccessors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/?subscription_token=abc", strings.NewReader("name=le+guin"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Request-ID", "req-1")

	w := requestVia(t, req, nil, func(c internal.Context) error {
		assert.Equal(t, "abc", c.Query("subscription_token"))
		assert.Equal(t, "le guin", c.Form("name"))
		assert.Equal(t, "req-1", c.Header("X-Request-ID"))

		v, ok := internal.NewExtractor(
			internal.FromHeader("X-Missing"),
			internal.FromQuery("subscription_token"),
		).Extract(c)
		assert.True(t, ok)
		assert.Equal(t, "abc", v)

		c.SetHeader("X-Test", "1")
		assert.False(t, c.Written())
		return c.JSON(http.StatusCreated, map[string]string{"ok": "yes"})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Test"))
	assert.JSONEq(t, `{"ok":"yes"}`, w.Body.String())
}

type routeGroup struct {
	order *[]string
}

func (g routeGroup) Routes(r internal.Router) {
	tag := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				*g.order = append(*g.order, name)
				return next(c)
			}
		}
	}
	r.Route("/api", func(r internal.Router) {
		r.GET("/ping", func(c internal.Context) error {
			*g.order = append(*g.order, "handler")
			return c.String(http.StatusOK, "pong")
		}, tag("outer"), tag("inner"))
	})
}

func TestRouteMiddleware(t *testing.T) {
	t.Parallel()

	var order []string
	app := internal.New(internal.WithHandlers(routeGroup{order: &order}))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRun(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var hooks []string

	app := internal.New(internal.WithHealthChecks())
	done := make(chan error, 1)
	go func() {
		done <- app.Run("", internal.WithListener(ln), internal.WithContext(ctx),
			internal.ShutdownTimeout(5*time.Second),
			internal.ShutdownHook(func(context.Context) error {
				hooks = append(hooks, "first")
				return errors.New("close failed")
			}),
			internal.ShutdownHook(func(context.Context) error {
				hooks = append(hooks, "second")
				return nil
			}),
		)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health_check")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.EqualError(t, err, "close failed")
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, []string{"first", "second"}, hooks)
}
