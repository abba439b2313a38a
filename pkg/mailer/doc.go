// Package mailer is the outbound email gateway.
//
// Sending is split from rendering so providers can be swapped without
// touching templates:
//
//   - Sender is implemented by each provider (resend, smtp, ses subpackages)
//   - Renderer turns markdown templates with YAML frontmatter into HTML and plain text
//   - Mailer combines both, fills in the configured sender identity and
//     wraps provider failures in ErrSendFailed
//
// # Usage
//
//	sender := resend.New(resend.Config{APIKey: cfg.Resend.APIKey})
//	m := mailer.New(sender, mailer.NewRenderer(emails.FS), cfg.Mailer)
//
//	err := m.Send(ctx, mailer.SendParams{
//		To:       "user@example.com",
//		Template: "confirmation.md",
//		Data:     map[string]any{"ConfirmationLink": link},
//	})
//
// Pre-built content, such as a newsletter issue, goes through SendRaw.
//
// # Templates
//
// Templates are markdown files with optional YAML frontmatter:
//
//	---
//	Subject: Welcome, {{.Name}}!
//	---
//	Hello **{{.Name}}**.
//
//	[!button|Confirm subscription]({{.ConfirmationLink}})
//
// The subject is itself a template. The [!button|Label](URL) syntax renders
// as a styled link in HTML and as "Label: URL" in the plain-text body. The
// rendered markdown is injected into the layout as {{.Content}}; frontmatter
// values are available as {{.Metadata}}.
//
// Layouts live in the "layouts" directory of the template filesystem unless
// WithLayoutDir says otherwise. Parsed templates are cached per Renderer.
package mailer
