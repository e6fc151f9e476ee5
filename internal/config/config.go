// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
)

// Mongo holds connection settings for the MongoDB backing store.
// An empty URL means no database is configured and the server falls back to
// the in-memory stores (data does not survive a restart).
type Mongo struct {
	URL             string        `env:"MONGODB_URL"`
	Database        string        `env:"MONGODB_DATABASE" envDefault:"weatherio"`
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}

// OAuthProvider holds client credentials for one OAuth provider.
// A provider with an empty ClientID is simply not registered.
type OAuthProvider struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// AppConfig is the full server configuration.
type AppConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	// JWTSecret signs session tokens. Absence is a startup-fatal configuration error.
	JWTSecret string        `env:"SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// RetentionDays is how long deactivated accounts are kept before the
	// cleanup sweep permanently removes them.
	RetentionDays int `env:"DAYS_TO_KEEP_INACTIVE_USERS" envDefault:"30"`

	// CleanupAt is the wall-clock time (UTC) of the daily cleanup sweep.
	CleanupAt string `env:"CLEANUP_AT" envDefault:"03:00"`

	Mongo Mongo

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL"`

	GithubClientID     string `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GithubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Google returns the Google OAuth credentials.
func (c *AppConfig) Google() OAuthProvider {
	return OAuthProvider{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		CallbackURL:  c.GoogleCallbackURL,
	}
}

// Github returns the GitHub OAuth credentials.
func (c *AppConfig) Github() OAuthProvider {
	return OAuthProvider{
		ClientID:     c.GithubClientID,
		ClientSecret: c.GithubClientSecret,
		CallbackURL:  c.GithubCallbackURL,
	}
}

// Load reads configuration from the environment, honouring a .env file when present.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: SECRET environment variable is not defined", apperr.ErrConfiguration)
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}

	return cfg, nil
}
