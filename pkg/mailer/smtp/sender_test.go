package smtp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/require"

	"github.com/xxc-git/zero2prod/pkg/mailer"
)

type recordingDialer struct {
	err  error
	sent []*mail.Message
}

func (d *recordingDialer) DialAndSend(m ...*mail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func render(t *testing.T, m *mail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	d := &recordingDialer{}
	s := NewWithDialer(d)

	err := s.Send(context.Background(), &mailer.Email{
		From:    "newsletter@example.com",
		To:      []string{"ursula@domain.com"},
		ReplyTo: "editor@example.com",
		Subject: "Welcome!",
		HTML:    "<p>Confirm</p>",
		Text:    "Confirm",
		Headers: map[string]string{"X-Campaign": "welcome"},
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	raw := render(t, d.sent[0])
	require.Contains(t, raw, "From: newsletter@example.com")
	require.Contains(t, raw, "To: ursula@domain.com")
	require.Contains(t, raw, "Reply-To: editor@example.com")
	require.Contains(t, raw, "Subject: Welcome!")
	require.Contains(t, raw, "X-Campaign: welcome")
	require.Contains(t, raw, "multipart/alternative")
	require.Contains(t, raw, "text/plain")
	require.Contains(t, raw, "text/html")
}

func TestSender_Send_Failure(t *testing.T) {
	t.Parallel()

	dialErr := errors.New("connection refused")
	s := NewWithDialer(&recordingDialer{err: dialErr})

	err := s.Send(context.Background(), &mailer.Email{
		From: "a@example.com", To: []string{"b@example.com"}, Subject: "s", Text: "t",
	})
	require.ErrorIs(t, err, dialErr)
}

func TestSender_Send_CancelledContext(t *testing.T) {
	t.Parallel()

	d := &recordingDialer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWithDialer(d).Send(ctx, &mailer.Email{
		From: "a@example.com", To: []string{"b@example.com"}, Subject: "s", Text: "t",
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, d.sent)
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.ErrorIs(t, err, ErrMissingHost)

	s, err := New(Config{Host: "smtp.example.com", Port: 465, TLSMode: TLSModeSSL})
	require.NoError(t, err)
	d, ok := s.dialer.(*mail.Dialer)
	require.True(t, ok)
	require.True(t, d.SSL)
	require.Equal(t, "smtp.example.com", d.Host)
}
