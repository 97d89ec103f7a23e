// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the passportd runtime configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":9000"`

	// RedisURL points at the Redis backing the nonce and user stores.
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// NonceTTL is how long an issued login nonce stays consumable.
	NonceTTL time.Duration `env:"NONCE_TTL" envDefault:"5m"`

	// SessionTTL is how long minted session tokens stay valid.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// GoogleClientID is the OAuth client id Google ID tokens must be
	// issued to. Empty disables the Google login path.
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	// SigningKeyFile is a PEM file holding the ECDSA session signing key.
	// Empty means generate an ephemeral key at startup.
	SigningKeyFile string `env:"SIGNING_KEY_FILE"`

	// Debug switches gin and logging into debug mode.
	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
