package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 5 * time.Second

// Check and report states.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Failure kinds reported for a check. The underlying cause is logged only,
// since it can name hosts or credentials.
var (
	ErrCheckFailed  = errors.New("health: check failed")
	ErrCheckTimeout = errors.New("health: check timeout")
)

// CheckFunc probes one dependency. db.Healthcheck returns one.
type CheckFunc func(ctx context.Context) error

// Checks maps a check name to its probe.
type Checks map[string]CheckFunc

// Report is the aggregate readiness result.
type Report struct {
	Checks map[string]Result `json:"checks,omitempty"`
	Status string            `json:"status"`
}

// Result is the outcome of a single check.
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Option configures ReadinessHandler.
type Option func(*runner)

// WithTimeout bounds the whole readiness run. Defaults to 5s.
func WithTimeout(d time.Duration) Option {
	return func(r *runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger receives the causes of failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

type runner struct {
	log     *slog.Logger
	checks  Checks
	timeout time.Duration
}

func newRunner(checks Checks, opts ...Option) *runner {
	r := &runner{
		log:     slog.New(slog.DiscardHandler),
		checks:  checks,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run executes all checks concurrently under one deadline.
func (r *runner) run(ctx context.Context) *Report {
	report := &Report{Status: StatusHealthy}
	if len(r.checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	report.Checks = make(map[string]Result, len(r.checks))
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, check := range r.checks {
		g.Go(func() error {
			res := r.probe(ctx, name, check)

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = res
			if res.Status != StatusHealthy {
				report.Status = StatusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (r *runner) probe(ctx context.Context, name string, check CheckFunc) Result {
	err := check(ctx)
	if err == nil {
		return Result{Status: StatusHealthy}
	}

	kind := ErrCheckFailed
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = ErrCheckTimeout
	}
	r.log.WarnContext(ctx, "health check failed",
		slog.String("check", name),
		slog.Any("error", err),
	)
	return Result{Status: StatusUnhealthy, Error: kind.Error()}
}
