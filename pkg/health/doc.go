// Package health provides HTTP handlers for liveness and readiness probes.
//
// [LivenessHandler] answers 200 with an empty body for as long as the process
// can serve HTTP. [ReadinessHandler] runs a set of named [Checks] in parallel
// and answers 200 "OK" or 503 "Service Unavailable":
//
//	r.Get("/health_check", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "db": db.Healthcheck(pool),
//	}, health.WithTimeout(3*time.Second), health.WithLogger(log)))
//
// Clients sending Accept: application/json (or ?format=json) receive a JSON
// document instead:
//
//	{"status":"unhealthy","checks":{"db":{"status":"unhealthy","error":"health: check failed"}}}
//
// Failed checks report [ErrCheckFailed] or [ErrCheckTimeout] only. The
// underlying cause is logged, never returned to the client.
package health
