// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/xxc-git/zero2prod/pkg/db"
	"github.com/xxc-git/zero2prod/pkg/logger"
	"github.com/xxc-git/zero2prod/pkg/mailer"
	"github.com/xxc-git/zero2prod/pkg/mailer/resend"
	"github.com/xxc-git/zero2prod/pkg/mailer/ses"
	"github.com/xxc-git/zero2prod/pkg/mailer/smtp"
)

// Email providers accepted by EMAIL_PROVIDER.
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderSES    = "ses"
)

// ErrInvalid is returned when the parsed configuration is inconsistent.
var ErrInvalid = errors.New("invalid configuration")

// App holds the HTTP server settings.
type App struct {
	Host            string        `env:"APP_HOST" envDefault:"127.0.0.1"`
	BaseURL         string        `env:"APP_BASE_URL,required"`
	Port            int           `env:"APP_PORT" envDefault:"8000"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"APP_REQUEST_TIMEOUT" envDefault:"10s"`
}

// Addr returns the listen address.
func (a App) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Email selects the outbound provider. Only the selected provider's
// section needs to be filled in.
type Email struct {
	Provider string `env:"EMAIL_PROVIDER" envDefault:"resend"`
	Mailer   mailer.Config
	Resend   resend.Config
	SMTP     smtp.Config
	SES      ses.Config
}

// Config is the full service configuration.
type Config struct {
	App   App
	DB    db.Config
	Email Email
	Log   logger.Config
}

// Load reads the given dotenv files, or .env when none are given, then
// parses the process environment. Variables already set in the environment
// win over file values. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Parse builds a Config from an explicit variable set instead of the
// process environment.
func Parse(vars map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: vars})
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints the env tags cannot express.
func (c Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("%w: APP_PORT %d out of range", ErrInvalid, c.App.Port)
	}
	if c.App.RequestTimeout <= 0 {
		return fmt.Errorf("%w: APP_REQUEST_TIMEOUT must be positive", ErrInvalid)
	}

	switch c.Email.Provider {
	case ProviderResend:
		if c.Email.Resend.APIKey == "" {
			return fmt.Errorf("%w: RESEND_API_KEY is required for the resend provider", ErrInvalid)
		}
	case ProviderSMTP:
		if c.Email.SMTP.Host == "" {
			return fmt.Errorf("%w: SMTP_HOST is required for the smtp provider", ErrInvalid)
		}
	case ProviderSES:
	default:
		return fmt.Errorf("%w: unknown EMAIL_PROVIDER %q", ErrInvalid, c.Email.Provider)
	}
	return nil
}
