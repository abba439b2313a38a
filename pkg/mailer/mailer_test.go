package mailer_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xxc-git/zero2prod/pkg/mailer"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *mailer.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

var testTemplates = fstest.MapFS{
	"layouts/base.html": &fstest.MapFile{
		Data: []byte(`<html><body>{{.Content}}</body></html>`),
	},
	"welcome.md": &fstest.MapFile{
		Data: []byte(`---
Subject: Welcome {{.Name}}
---
Hello **{{.Name}}**!

[!button|Confirm]({{.Link}})
`),
	},
	"plain.md": &fstest.MapFile{
		Data: []byte("No frontmatter here.\n"),
	},
}

var testConfig = mailer.Config{
	SenderEmail:     "newsletter@example.com",
	SenderName:      "Newsletter",
	FallbackSubject: "Notification",
	DefaultLayout:   "base.html",
}

func TestMailer_Send(t *testing.T) {
	t.Parallel()

	t.Run("renders and delivers", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		m := mailer.New(sender, mailer.NewRenderer(testTemplates), testConfig)

		sender.On("Send", mock.Anything, mock.MatchedBy(func(email *mailer.Email) bool {
			return len(email.To) == 1 &&
				email.To[0] == "alice@example.com" &&
				email.From == `"Newsletter" <newsletter@example.com>` &&
				email.Subject == "Welcome Alice" &&
				email.Tags["category"] == "welcome"
		})).Return(nil).Once()

		err := m.Send(context.Background(), mailer.SendParams{
			To:       "alice@example.com",
			Template: "welcome.md",
			Data:     map[string]string{"Name": "Alice", "Link": "https://example.com/c?t=1"},
			Tags:     mailer.Tags{"category": "welcome"},
		})
		require.NoError(t, err)
		sender.AssertExpectations(t)

		email := sender.Calls[0].Arguments.Get(1).(*mailer.Email)
		require.Contains(t, email.HTML, `<a href="https://example.com/c?t=1" class="btn">Confirm</a>`)
		require.Contains(t, email.Text, "Confirm: https://example.com/c?t=1")
		require.NotContains(t, email.Text, "[!button")
	})

	t.Run("subject override wins", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		m := mailer.New(sender, mailer.NewRenderer(testTemplates), testConfig)
		sender.On("Send", mock.Anything, mock.MatchedBy(func(email *mailer.Email) bool {
			return email.Subject == "Hi Bob"
		})).Return(nil)

		err := m.Send(context.Background(), mailer.SendParams{
			To:       "bob@example.com",
			Template: "welcome.md",
			Subject:  "Hi {{.Name}}",
			Data:     map[string]string{"Name": "Bob"},
		})
		require.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("falls back to configured subject", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		m := mailer.New(sender, mailer.NewRenderer(testTemplates), testConfig)
		sender.On("Send", mock.Anything, mock.MatchedBy(func(email *mailer.Email) bool {
			return email.Subject == "Notification"
		})).Return(nil)

		err := m.Send(context.Background(), mailer.SendParams{To: "bob@example.com", Template: "plain.md"})
		require.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("requires a recipient", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		m := mailer.New(sender, mailer.NewRenderer(testTemplates), testConfig)

		err := m.Send(context.Background(), mailer.SendParams{Template: "welcome.md"})
		require.ErrorIs(t, err, mailer.ErrNoRecipient)
		sender.AssertNotCalled(t, "Send")
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		m := mailer.New(sender, mailer.NewRenderer(testTemplates), testConfig)

		err := m.Send(context.Background(), mailer.SendParams{To: "a@example.com", Template: "missing.md"})
		require.ErrorIs(t, err, mailer.ErrRenderFailed)
		require.ErrorIs(t, err, mailer.ErrTemplateNotFound)
		sender.AssertNotCalled(t, "Send")
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		m := mailer.New(sender, mailer.NewRenderer(testTemplates), testConfig)
		providerErr := errors.New("503 from provider")
		sender.On("Send", mock.Anything, mock.Anything).Return(providerErr)

		err := m.Send(context.Background(), mailer.SendParams{
			To:       "a@example.com",
			Template: "welcome.md",
			Data:     map[string]string{"Name": "A"},
		})
		require.ErrorIs(t, err, mailer.ErrSendFailed)
		require.ErrorIs(t, err, providerErr)
	})
}

func TestMailer_SendRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   mailer.Email
		wantErr error
	}{
		{
			name:  "text only is enough",
			email: mailer.Email{To: []string{"a@example.com"}, Subject: "Issue #1", Text: "body"},
		},
		{
			name:    "no recipient",
			email:   mailer.Email{Subject: "Issue #1", HTML: "<p>body</p>"},
			wantErr: mailer.ErrNoRecipient,
		},
		{
			name:    "no subject",
			email:   mailer.Email{To: []string{"a@example.com"}, HTML: "<p>body</p>"},
			wantErr: mailer.ErrNoSubject,
		},
		{
			name:    "no content",
			email:   mailer.Email{To: []string{"a@example.com"}, Subject: "Issue #1"},
			wantErr: mailer.ErrNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &MockSender{}
			sender.On("Send", mock.Anything, mock.Anything).Return(nil).Maybe()
			m := mailer.New(sender, mailer.NewRenderer(testTemplates), testConfig)

			email := tt.email
			err := m.SendRaw(context.Background(), &email)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				sender.AssertNotCalled(t, "Send")
				return
			}
			require.NoError(t, err)
			require.Equal(t, `"Newsletter" <newsletter@example.com>`, email.From)
			sender.AssertNumberOfCalls(t, "Send", 1)
		})
	}
}

func TestMailer_SendRaw_KeepsExplicitSender(t *testing.T) {
	t.Parallel()

	var got *mailer.Email
	sender := mailer.SenderFunc(func(_ context.Context, email *mailer.Email) error {
		got = email
		return nil
	})
	m := mailer.New(sender, mailer.NewRenderer(testTemplates), testConfig)

	err := m.SendRaw(context.Background(), &mailer.Email{
		From:    "editor@example.com",
		To:      []string{"a@example.com"},
		Subject: "s",
		HTML:    "<p>h</p>",
	})
	require.NoError(t, err)
	require.Equal(t, "editor@example.com", got.From)
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a@example.com", mailer.Recipient("", "a@example.com"))
	require.Equal(t, `"Ann Lee" <a@example.com>`, mailer.Recipient("Ann Lee", "a@example.com"))
}
