package internal

import "github.com/xxc-git/zero2prod/pkg/health"

const (
	defaultLivenessPath  = "/health_check"
	defaultReadinessPath = "/health/ready"
)

type probes struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// HealthOption configures the probes installed by WithHealthChecks.
type HealthOption func(*probes)

// WithHealthChecks installs a liveness probe at /health_check, answering 200
// with an empty body, and a readiness probe at /health/ready that runs every
// registered check.
//
//	internal.WithHealthChecks(
//	    internal.WithReadinessCheck("database", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		p := &probes{
			checks:        health.Checks{},
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(p)
		}
		a.probes = p
	}
}

func WithLivenessPath(path string) HealthOption {
	return func(p *probes) {
		if path != "" {
			p.livenessPath = path
		}
	}
}

func WithReadinessPath(path string) HealthOption {
	return func(p *probes) {
		if path != "" {
			p.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named check to the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(p *probes) {
		p.checks[name] = fn
	}
}
