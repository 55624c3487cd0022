// Package config provides application configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	Port string
	Host string

	// Database settings
	DBPath string

	// Session settings
	SessionMaxAge int // in seconds

	// JWTSecret signs API bearer tokens.
	JWTSecret string

	// BaseURL is the externally reachable URL, used in share links.
	BaseURL string

	// SnapshotSchedule is the cron spec for the daily metrics snapshot.
	SnapshotSchedule string

	// Environment
	LogLevel      string
	DemoMode      bool
	IsDevelopment bool
}

// New creates a new Config from a .env file (if present) and environment
// variables, falling back to defaults.
func New() *Config {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Host:             getEnv("HOST", "localhost"),
		DBPath:           getEnv("DB_PATH", filepath.Join("data", "rentfolio.db")),
		SessionMaxAge:    86400 * 7, // 7 days
		JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production-please"),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "0 2 * * *"), // daily at 02:00
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DemoMode:         getEnv("DEMO_MODE", "") == "true",
		IsDevelopment:    getEnv("ENV", "development") == "development",
	}
	cfg.BaseURL = getEnv("BASE_URL", "http://"+cfg.Host+":"+cfg.Port)
	return cfg
}

// Address returns the full address to bind the server to.
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
