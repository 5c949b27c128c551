// Package config reads the application configuration from the
// environment, optionally seeded from a .env file.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// DataPath is the SQLite database file holding the persisted documents.
	DataPath string

	// CurrentUserID is the member id that represents the local user in
	// every group. Balance directions are computed relative to it.
	CurrentUserID string

	// Currency is the display currency code for formatted output. It does
	// not affect stored amounts.
	Currency string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first if present; a missing file is fine.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataPath:      getEnv("DATA_PATH", "./data/tracker.db"),
		CurrentUserID: getEnv("CURRENT_USER_ID", "user1"),
		Currency:      getEnv("CURRENCY", "USD"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
