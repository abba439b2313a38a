// Package smtp delivers email through an SMTP relay using go-mail.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sort"

	mail "github.com/go-mail/mail"

	"github.com/xxc-git/zero2prod/pkg/mailer"
)

// ErrMissingHost is returned by New when no relay host is configured.
var ErrMissingHost = errors.New("smtp: host is required")

// Dialer sends prepared messages. *mail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// Sender implements mailer.Sender over SMTP.
type Sender struct {
	dialer Dialer
}

// New creates an SMTP sender from cfg.
func New(cfg Config) (*Sender, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = cfg.Timeout
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in for local relays
	}
	switch cfg.TLSMode {
	case TLSModeSSL:
		d.SSL = true
	case TLSModeNone:
		// Plain relays in development rarely present a certificate matching their name.
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-out
	}

	return NewWithDialer(d), nil
}

// NewWithDialer creates a sender around an existing Dialer.
func NewWithDialer(d Dialer) *Sender {
	return &Sender{dialer: d}
}

// Send implements mailer.Sender. go-mail has no context support, so ctx is
// only checked before dialing; the dialer timeout bounds the rest.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(buildMessage(email)); err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}
	return nil
}

func buildMessage(email *mailer.Email) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", email.From)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}

	names := make([]string, 0, len(email.Headers))
	for name := range email.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.SetHeader(name, email.Headers[name])
	}

	// multipart/alternative with the plain-text part first, as clients pick the last one they support.
	switch {
	case email.Text != "" && email.HTML != "":
		m.SetBody("text/plain", email.Text)
		m.AddAlternative("text/html", email.HTML)
	case email.HTML != "":
		m.SetBody("text/html", email.HTML)
	default:
		m.SetBody("text/plain", email.Text)
	}
	return m
}
