// Package emails embeds the transactional email templates.
package emails

import "embed"

// ConfirmationTemplate is sent after a subscription request. It expects
// Name and ConfirmationLink in its data.
const ConfirmationTemplate = "confirmation.md"

// FS is the template filesystem for mailer.NewRenderer.
//
//go:embed *.md layouts/*.html
var FS embed.FS
