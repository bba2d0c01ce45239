// Package config loads and validates the application configuration from
// environment variables. All third-party credentials are explicit: there are
// no embedded fallback values, and missing required settings fail startup.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinJWTSecretLength is the minimum required length for the token signing key.
const MinJWTSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"PORTFOLIO_DB_PATH" envDefault:"./data/portfolio.db"`
	JWTSecret  string `env:"PORTFOLIO_JWT_SECRET,required"`
	ServerHost string `env:"PORTFOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PORTFOLIO_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"PORTFOLIO_ENV" envDefault:"development"`
	LogLevel   string `env:"PORTFOLIO_LOG_LEVEL" envDefault:"info"`

	// AllowedOrigins is the list of origins permitted to call the API with
	// credentials (comma-separated).
	AllowedOrigins []string `env:"PORTFOLIO_ALLOWED_ORIGINS" envSeparator:","`

	// Image host (Cloudinary) credentials. Required: the Upload Bridge cannot
	// operate without them and there are no hardcoded fallbacks.
	CloudinaryCloudName string `env:"PORTFOLIO_CLOUDINARY_CLOUD_NAME,required"`
	CloudinaryAPIKey    string `env:"PORTFOLIO_CLOUDINARY_API_KEY,required"`
	CloudinaryAPISecret string `env:"PORTFOLIO_CLOUDINARY_API_SECRET,required"`

	// Outbound mail settings for the contact form.
	SMTPHost         string `env:"PORTFOLIO_SMTP_HOST"`
	SMTPPort         int    `env:"PORTFOLIO_SMTP_PORT" envDefault:"587"`
	SMTPUsername     string `env:"PORTFOLIO_SMTP_USERNAME"`
	SMTPPassword     string `env:"PORTFOLIO_SMTP_PASSWORD"`
	ContactRecipient string `env:"PORTFOLIO_CONTACT_RECIPIENT"`

	// Admin provisioning. The seed step creates this user once if the users
	// table is empty.
	AdminUsername string `env:"PORTFOLIO_ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"PORTFOLIO_ADMIN_EMAIL"`
	AdminPassword string `env:"PORTFOLIO_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailEnabled returns true if outbound mail is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.ContactRecipient != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("PORTFOLIO_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("PORTFOLIO_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("PORTFOLIO_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
