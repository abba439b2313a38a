package mailer

import (
	"context"
	"fmt"
	"strings"
	texttemplate "text/template"
)

// Mailer renders templates and hands the result to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	cfg      Config
}

// New creates a Mailer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{sender: sender, renderer: renderer, cfg: cfg}
}

// SendParams describes a templated email to one recipient.
type SendParams struct {
	Data     any
	Tags     Tags
	To       string
	Template string // relative to the template dir, e.g. "confirmation.md"

	Subject string // overrides the template's Subject frontmatter
	Layout  string // overrides Config.DefaultLayout
	ReplyTo string
}

// Send renders params.Template and delivers it. The subject comes from
// params.Subject, then the template's Subject frontmatter, then
// Config.FallbackSubject, and is executed as a template against params.Data.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}

	layout := firstNonEmpty(params.Layout, m.cfg.DefaultLayout)
	out, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	metaSubject, _ := out.Metadata["Subject"].(string)
	subject, err := renderSubject(firstNonEmpty(params.Subject, metaSubject, m.cfg.FallbackSubject), params.Data)
	if err != nil {
		return fmt.Errorf("%w: subject: %w", ErrRenderFailed, err)
	}

	return m.SendRaw(ctx, &Email{
		To:      []string{params.To},
		Subject: subject,
		HTML:    out.HTML,
		Text:    out.Text,
		ReplyTo: params.ReplyTo,
		Tags:    params.Tags,
	})
}

// SendRaw delivers a pre-built email, filling an empty From from Config.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if email.From == "" {
		email.From = m.cfg.From()
	}
	if err := email.Validate(); err != nil {
		return err
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func renderSubject(subject string, data any) (string, error) {
	if !strings.Contains(subject, "{{") {
		return subject, nil
	}
	tmpl, err := texttemplate.New("subject").Option("missingkey=zero").Parse(subject)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
