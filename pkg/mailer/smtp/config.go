package smtp

import "time"

// TLS modes.
const (
	TLSModeStartTLS = "starttls" // upgrade a plain connection when the server offers it
	TLSModeSSL      = "ssl"      // implicit TLS from the first byte, usually port 465
	TLSModeNone     = "none"
)

// Config holds SMTP relay settings.
type Config struct {
	Host               string        `env:"SMTP_HOST"`
	Username           string        `env:"SMTP_USERNAME"`
	Password           string        `env:"SMTP_PASSWORD"`
	TLSMode            string        `env:"SMTP_TLS_MODE" envDefault:"starttls"`
	Port               int           `env:"SMTP_PORT" envDefault:"587"`
	Timeout            time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
	InsecureSkipVerify bool          `env:"SMTP_INSECURE_SKIP_VERIFY" envDefault:"false"`
}
