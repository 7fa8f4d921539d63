package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the application-wide configuration. It is loaded once in main
// and injected into the pieces that need it rather than read from globals.
type Config struct {
	// ListenAddr is the address the gateway serves on, e.g. ":8080".
	ListenAddr string

	// UpstreamURL is the base URL of the Guevara REST backend.
	UpstreamURL string

	// SessionSecret signs the session cookie.
	SessionSecret string

	// SessionTTL bounds how long a stored session is honoured.
	SessionTTL time.Duration

	// CacheTTL is the freshness window for cached upstream reads.
	CacheTTL time.Duration

	// DatabaseURL enables the Postgres audit trail when set.
	DatabaseURL string

	// GeminiAPIKey enables the AI report summary when set.
	GeminiAPIKey string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	upstream := os.Getenv("UPSTREAM_API_URL")
	if upstream == "" {
		return nil, fmt.Errorf("UPSTREAM_API_URL is not set")
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return &Config{
		ListenAddr:    addr,
		UpstreamURL:   upstream,
		SessionSecret: secret,
		SessionTTL:    24 * time.Hour,
		CacheTTL:      10 * time.Second,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
	}, nil
}
