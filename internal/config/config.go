// Package config loads storefront configuration from the environment, with
// optional .env file support.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Catalog modes.
const (
	ModeRest  = "rest"
	ModeLocal = "local"
)

// Config holds the runtime configuration.
type Config struct {
	// Mode selects the catalog backing: "rest" or "local". The two are
	// mutually exclusive per deployment, never combined.
	Mode string

	// BackendURL is the REST backend base URL (rest mode only).
	BackendURL string

	// DBPath is the sqlite database path (local mode only).
	DBPath string

	// TokenPath is where the session token persists between runs. Empty
	// means the per-user default location.
	TokenPath string

	// HTTPTimeout bounds each REST round trip.
	HTTPTimeout time.Duration

	// LogPath, when set, mirrors all log output to a file.
	LogPath string
}

// Load reads configuration from the environment with defaults, after
// loading a .env file if one exists in the working directory.
func Load() *Config {
	// Missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	return &Config{
		Mode:        getEnv("STOREFRONT_MODE", ModeRest),
		BackendURL:  getEnv("STOREFRONT_BACKEND_URL", "https://nr-store-backend.onrender.com"),
		DBPath:      getEnv("STOREFRONT_DB", "storefront.sqlite3"),
		TokenPath:   getEnv("STOREFRONT_TOKEN_FILE", ""),
		HTTPTimeout: time.Duration(getEnvAsInt("STOREFRONT_TIMEOUT_SECONDS", 30)) * time.Second,
		LogPath:     getEnv("STOREFRONT_LOG", ""),
	}
}

// Validate checks mode-specific requirements.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRest:
		if c.BackendURL == "" {
			return fmt.Errorf("rest mode requires STOREFRONT_BACKEND_URL")
		}
	case ModeLocal:
		if c.DBPath == "" {
			return fmt.Errorf("local mode requires STOREFRONT_DB")
		}
	default:
		return fmt.Errorf("unknown catalog mode %q (want %q or %q)", c.Mode, ModeRest, ModeLocal)
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
