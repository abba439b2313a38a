package mailer

import "context"

// Sender is implemented by email providers.
type Sender interface {
	// Send delivers email. It is called with a validated Email whose From is set.
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, email *Email) error

func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
