package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/xxc-git/zero2prod/internal/domain"
	"github.com/xxc-git/zero2prod/internal/metrics"
)

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, metrics.OutcomeSuccess},
		{&domain.ValidationError{Field: "email", Reason: "bad"}, metrics.OutcomeValidation},
		{domain.ErrUnknownToken, metrics.OutcomeUnknownToken},
		{domain.Fail("begin", domain.ErrInfrastructure, errors.New("timeout")), metrics.OutcomeInfrastructure},
		{domain.Fail("commit", domain.ErrPersistence, errors.New("x")), metrics.OutcomePersistence},
		{domain.Fail("send", domain.ErrDelivery, errors.New("x")), metrics.OutcomeDelivery},
		{errors.New("boom"), metrics.OutcomeUnexpected},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, metrics.Outcome(tt.err), "error %v", tt.err)
	}
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveSubscription(nil)
	m.ObserveSubscription(nil)
	m.ObserveSubscription(domain.ErrValidation)
	m.ObserveConfirmation(domain.ErrUnknownToken)
	m.ObserveDelivery(nil)
	m.IncrementSkipped()
	m.ObservePublish(time.Now())

	require.InDelta(t, 2, testutil.ToFloat64(m.Subscriptions.WithLabelValues(metrics.OutcomeSuccess)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.Subscriptions.WithLabelValues(metrics.OutcomeValidation)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.Confirmations.WithLabelValues(metrics.OutcomeUnknownToken)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.Deliveries.WithLabelValues(metrics.OutcomeSuccess)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.Skipped), 0)

	count, err := testutil.GatherAndCount(reg, "zero2prod_newsletter_publish_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.ObserveSubscription(nil)
		m.ObserveConfirmation(nil)
		m.ObserveDelivery(nil)
		m.IncrementSkipped()
		m.ObservePublish(time.Now())
	})
}
