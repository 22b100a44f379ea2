package client

import (
	"os"
	"strings"
	"time"
)

const (
	defaultServerURL = "http://127.0.0.1:8080"
	defaultTimeout   = 10 * time.Second
)

// Config holds client settings.
type Config struct {
	ServerURL string
	Timeout   time.Duration
}

// LoadConfig reads AUTHD_SERVER_URL and AUTHD_CLIENT_TIMEOUT, falling back to defaults.
func LoadConfig() Config {
	cfg := Config{ServerURL: defaultServerURL, Timeout: defaultTimeout}

	if v := strings.TrimSpace(os.Getenv("AUTHD_SERVER_URL")); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("AUTHD_CLIENT_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}
