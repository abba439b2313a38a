// Package metrics exposes Prometheus counters for the subscription and
// newsletter workflows.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xxc-git/zero2prod/internal/domain"
)

// Outcome labels.
const (
	OutcomeSuccess        = "success"
	OutcomeValidation     = "validation"
	OutcomeUnknownToken   = "unknown_token"
	OutcomeInfrastructure = "infrastructure"
	OutcomePersistence    = "persistence"
	OutcomeDelivery       = "delivery"
	OutcomeUnexpected     = "unexpected"
)

// Metrics holds the application collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Subscriptions   *prometheus.CounterVec
	Confirmations   *prometheus.CounterVec
	Deliveries      *prometheus.CounterVec
	Skipped         prometheus.Counter
	PublishDuration prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Subscriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zero2prod_subscriptions_total",
			Help: "Subscription requests by outcome",
		}, []string{"outcome"}),
		Confirmations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zero2prod_confirmations_total",
			Help: "Confirmation attempts by outcome",
		}, []string{"outcome"}),
		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zero2prod_newsletter_deliveries_total",
			Help: "Newsletter sends to individual subscribers by outcome",
		}, []string{"outcome"}),
		Skipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "zero2prod_newsletter_skipped_total",
			Help: "Confirmed subscribers skipped because their stored email no longer validates",
		}),
		PublishDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "zero2prod_newsletter_publish_duration_seconds",
			Help:    "Duration of a full newsletter fan-out",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300},
		}),
	}
}

// ObserveSubscription records the result of a subscription request.
func (m *Metrics) ObserveSubscription(err error) {
	if m == nil {
		return
	}
	m.Subscriptions.WithLabelValues(Outcome(err)).Inc()
}

// ObserveConfirmation records the result of a confirmation attempt.
func (m *Metrics) ObserveConfirmation(err error) {
	if m == nil {
		return
	}
	m.Confirmations.WithLabelValues(Outcome(err)).Inc()
}

// ObserveDelivery records one newsletter send.
func (m *Metrics) ObserveDelivery(err error) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(Outcome(err)).Inc()
}

// IncrementSkipped records a recipient skipped for an invalid stored email.
func (m *Metrics) IncrementSkipped() {
	if m == nil {
		return
	}
	m.Skipped.Inc()
}

// ObservePublish records the duration of a fan-out started at start.
func (m *Metrics) ObservePublish(start time.Time) {
	if m == nil {
		return
	}
	m.PublishDuration.Observe(time.Since(start).Seconds())
}

// Outcome maps an error to its outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	switch kind := domain.KindOf(err); {
	case errors.Is(kind, domain.ErrValidation):
		return OutcomeValidation
	case errors.Is(kind, domain.ErrUnknownToken):
		return OutcomeUnknownToken
	case errors.Is(kind, domain.ErrInfrastructure):
		return OutcomeInfrastructure
	case errors.Is(kind, domain.ErrPersistence):
		return OutcomePersistence
	case errors.Is(kind, domain.ErrDelivery):
		return OutcomeDelivery
	default:
		return OutcomeUnexpected
	}
}
