// Package newsletter fans an issue out to every confirmed subscriber.
package newsletter

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xxc-git/zero2prod/internal/domain"
	"github.com/xxc-git/zero2prod/internal/metrics"
	"github.com/xxc-git/zero2prod/internal/store"
	"github.com/xxc-git/zero2prod/pkg/mailer"
)

// StepSendIssue is the step recorded on delivery failures.
const StepSendIssue = "send_issue"

// Store lists the recipients of an issue.
type Store interface {
	ListConfirmedSubscribers(ctx context.Context) iter.Seq2[string, error]
}

// Sender delivers pre-built emails.
type Sender interface {
	SendRaw(ctx context.Context, email *mailer.Email) error
}

// Issue is a newsletter edition.
type Issue struct {
	Title string
	Text  string
	HTML  string
}

// SkippedRecipient is a confirmed subscriber whose stored email no longer validates.
type SkippedRecipient struct {
	Err error
	Raw string
}

// DispatchReport summarizes one publish run.
type DispatchReport struct {
	Err        error
	FailedStep string
	Skipped    []SkippedRecipient
	Delivered  int
}

// OK reports whether the run finished without a failure.
// Skipped recipients do not count as failures.
func (r *DispatchReport) OK() bool {
	return r.Err == nil
}

// Dispatcher sends issues to confirmed subscribers, one at a time, in store order.
type Dispatcher struct {
	store   Store
	sender  Sender
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(st Store, sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:  st,
		sender: sender,
		logger: slog.New(slog.DiscardHandler),
		tracer: noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish sends issue to every confirmed subscriber.
//
// A stored email that fails validation is logged, recorded in the report and
// skipped. The first delivery failure stops the run: later recipients receive
// nothing and the error is returned. The returned report is never nil and its
// Err equals the returned error.
func (d *Dispatcher) Publish(ctx context.Context, issue Issue) (report *DispatchReport, err error) {
	ctx, span := d.tracer.Start(ctx, "newsletter.publish")
	start := time.Now()
	report = &DispatchReport{}
	defer func() {
		report.Err = err
		if err != nil {
			report.FailedStep = domain.StepOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, report.FailedStep)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.SetAttributes(
			attribute.Int("newsletter.delivered", report.Delivered),
			attribute.Int("newsletter.skipped", len(report.Skipped)),
		)
		span.End()
		d.metrics.ObservePublish(start)
	}()

	log := d.logger.With(slog.String("newsletter_title", issue.Title))
	log.InfoContext(ctx, "publishing newsletter issue")

	for raw, err := range d.store.ListConfirmedSubscribers(ctx) {
		if err != nil {
			err = ensureStep(store.StepListConfirmed, domain.ErrInfrastructure, err)
			log.ErrorContext(ctx, "failed to list confirmed subscribers", slog.Any("error", err))
			return report, err
		}

		recipient, parseErr := domain.ParseEmail(raw)
		if parseErr != nil {
			report.Skipped = append(report.Skipped, SkippedRecipient{Raw: raw, Err: parseErr})
			d.metrics.IncrementSkipped()
			log.WarnContext(ctx, "skipping a confirmed subscriber, their stored contact details are invalid",
				slog.Any("error", parseErr),
			)
			continue
		}

		sendErr := d.sender.SendRaw(ctx, &mailer.Email{
			To:      []string{recipient.String()},
			Subject: issue.Title,
			Text:    issue.Text,
			HTML:    issue.HTML,
			Tags:    mailer.Tags{"category": "newsletter"},
		})
		d.metrics.ObserveDelivery(deliveryOutcome(sendErr))
		if sendErr != nil {
			err := domain.Fail(StepSendIssue, domain.ErrDelivery,
				fmt.Errorf("failed to send newsletter issue to %s: %w", recipient, sendErr))
			log.ErrorContext(ctx, "aborting newsletter delivery",
				slog.Int("delivered", report.Delivered),
				slog.Any("error", err),
			)
			return report, err
		}
		report.Delivered++
	}

	log.InfoContext(ctx, "newsletter issue published",
		slog.Int("delivered", report.Delivered),
		slog.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

func deliveryOutcome(err error) error {
	if err == nil {
		return nil
	}
	return domain.ErrDelivery
}

func ensureStep(step string, kind, err error) error {
	if domain.StepOf(err) != "" {
		return err
	}
	return domain.Fail(step, kind, err)
}
