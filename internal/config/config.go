// Package config loads process configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the CLI and server read from the environment.
type Config struct {
	// DBPath overrides the default ~/.solo.db location.
	DBPath string `env:"SOLO_DB_PATH"`

	// Addr is the HTTP listen address for solo serve.
	Addr string `env:"SOLO_ADDR" envDefault:":8080"`

	// ResendAPIKey enables real email delivery. When empty, sends are
	// simulated and logged.
	ResendAPIKey string `env:"RESEND_API_KEY"`

	// FromEmail is the sender for all outbound mail.
	FromEmail string `env:"RESEND_FROM_EMAIL" envDefault:"Solo <onboarding@resend.dev>"`

	// CronAPIKey protects the send-reminders endpoint. When empty, the
	// endpoint is open (local development).
	CronAPIKey string `env:"CRON_API_KEY"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
