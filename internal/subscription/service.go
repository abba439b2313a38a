// Package subscription implements the double opt-in workflow: recording a
// pending subscriber with a confirmation token, emailing the confirmation
// link, and confirming the subscriber when the link is followed.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xxc-git/zero2prod/internal/domain"
	"github.com/xxc-git/zero2prod/internal/emails"
	"github.com/xxc-git/zero2prod/internal/metrics"
	"github.com/xxc-git/zero2prod/internal/store"
	"github.com/xxc-git/zero2prod/pkg/id"
	"github.com/xxc-git/zero2prod/pkg/mailer"
)

// Workflow steps recorded on returned errors, in addition to the store steps.
const (
	StepValidate         = "validate"
	StepSendConfirmation = "send_confirmation"
	StepResolveToken     = "resolve_token"
)

// Store is the persistence the workflow needs.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx store.Tx) error) error
	FindSubscriberByToken(ctx context.Context, token string) (uuid.UUID, bool, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID) error
}

// Mailer sends templated emails.
type Mailer interface {
	Send(ctx context.Context, params mailer.SendParams) error
}

// Service runs the subscription workflow.
type Service struct {
	store    Store
	mailer   Mailer
	baseURL  *url.URL
	newToken func() string
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used for workflow spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetrics sets the outcome counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTokenGenerator replaces the confirmation token source.
func WithTokenGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newToken = fn
		}
	}
}

// NewService creates the workflow. baseURL is the public address used in
// confirmation links, e.g. "https://newsletter.example.com".
func NewService(st Store, m Mailer, baseURL string, opts ...Option) (*Service, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("subscription: invalid base url %q", baseURL)
	}

	s := &Service{
		store:    st,
		mailer:   m,
		baseURL:  u,
		newToken: id.NewToken,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Subscribe validates the request, stores a pending subscriber together with
// a fresh token in one transaction, then emails the confirmation link.
//
// If the email cannot be sent the subscriber stays stored as pending and a
// delivery error is returned; a retry creates a second pending record.
func (s *Service) Subscribe(ctx context.Context, name, email string) (err error) {
	ctx, span := s.tracer.Start(ctx, "subscription.subscribe")
	defer func() {
		s.metrics.ObserveSubscription(err)
		endSpan(span, err)
	}()

	sub, err := domain.ParseNewSubscriber(name, email)
	if err != nil {
		return domain.Fail(StepValidate, domain.ErrValidation, err)
	}

	log := s.logger.With(
		slog.String("subscriber_email", sub.Email.String()),
		slog.String("subscriber_name", sub.Name.String()),
	)
	log.InfoContext(ctx, "adding a new subscriber")

	token := s.newToken()
	err = s.store.WithinTx(ctx, func(tx store.Tx) error {
		subscriberID, err := tx.InsertPendingSubscriber(ctx, sub)
		if err != nil {
			return err
		}
		span.AddEvent("subscriber_inserted", trace.WithAttributes(attribute.String("subscriber_id", subscriberID.String())))

		if err := tx.StoreToken(ctx, subscriberID, token); err != nil {
			return err
		}
		span.AddEvent("token_stored")
		return nil
	})
	if err != nil {
		err = classify(store.StepCommit, err)
		log.ErrorContext(ctx, "failed to store new subscriber",
			slog.String("step", domain.StepOf(err)),
			slog.Any("error", err),
		)
		return err
	}

	err = s.mailer.Send(ctx, mailer.SendParams{
		To:       sub.Email.String(),
		Template: emails.ConfirmationTemplate,
		Data: map[string]string{
			"Name":             sub.Name.String(),
			"ConfirmationLink": s.ConfirmationLink(token),
		},
		Tags: mailer.Tags{"category": "confirmation"},
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to send confirmation email", slog.Any("error", err))
		return domain.Fail(StepSendConfirmation, domain.ErrDelivery, err)
	}
	span.AddEvent("confirmation_sent")

	log.InfoContext(ctx, "new subscriber saved, confirmation email sent")
	return nil
}

// Confirm marks the subscriber owning token as confirmed.
// Confirming twice with the same token succeeds both times.
func (s *Service) Confirm(ctx context.Context, token string) (err error) {
	ctx, span := s.tracer.Start(ctx, "subscription.confirm")
	defer func() {
		s.metrics.ObserveConfirmation(err)
		endSpan(span, err)
	}()

	subscriberID, found, err := s.store.FindSubscriberByToken(ctx, token)
	if err != nil {
		err = classify(store.StepFindToken, err)
		s.logger.ErrorContext(ctx, "failed to resolve subscription token", slog.Any("error", err))
		return err
	}
	if !found {
		return domain.Fail(StepResolveToken, domain.ErrUnknownToken, nil)
	}

	log := s.logger.With(slog.String("subscriber_id", subscriberID.String()))
	if err := s.store.MarkConfirmed(ctx, subscriberID); err != nil {
		err = classify(store.StepMarkConfirmed, err)
		log.ErrorContext(ctx, "failed to confirm subscriber", slog.Any("error", err))
		return err
	}

	log.InfoContext(ctx, "subscriber confirmed")
	return nil
}

// ConfirmationLink returns {base}/subscriptions/confirm?subscription_token={token}.
func (s *Service) ConfirmationLink(token string) string {
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/subscriptions/confirm"
	u.RawPath = ""
	u.RawQuery = url.Values{"subscription_token": {token}}.Encode()
	u.Fragment = ""
	return u.String()
}

// classify makes sure err carries a step and kind; stores normally attach both.
func classify(step string, err error) error {
	var se *domain.StepError
	if errors.As(err, &se) {
		return err
	}
	return domain.Fail(step, domain.KindOf(err), err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.StepOf(err))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
