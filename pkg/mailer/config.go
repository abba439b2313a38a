package mailer

// Config holds provider-independent mailer settings.
// Embed it in the application config for env parsing with caarlos0/env.
type Config struct {
	SenderEmail     string `env:"EMAIL_SENDER_EMAIL,required"`
	SenderName      string `env:"EMAIL_SENDER_NAME"`
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
}

// From returns the configured sender in RFC 5322 form.
func (c Config) From() string {
	return Recipient(c.SenderName, c.SenderEmail)
}
