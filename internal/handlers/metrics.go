package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xxc-git/zero2prod/internal"
)

// Metrics serves the prometheus exposition at GET /metrics.
type Metrics struct {
	gatherer prometheus.Gatherer
}

// NewMetrics exposes everything registered on gatherer.
func NewMetrics(gatherer prometheus.Gatherer) *Metrics {
	return &Metrics{gatherer: gatherer}
}

func (h *Metrics) Routes(r internal.Router) {
	r.Mount("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
