// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port               string
	DBPath             string
	TripServiceURL     string // empty disables trip validation
	TripServiceTimeout time.Duration
	JWTSecret          string // empty disables authentication
	LogLevel           string
	LogFormat          string
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("TRIP_SERVICE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRIP_SERVICE_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid TRIP_SERVICE_TIMEOUT: must be positive, got %s", timeout)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "./data/splits.db"),
		TripServiceURL:     getEnv("TRIP_SERVICE_URL", ""),
		TripServiceTimeout: timeout,
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}
	return cfg, nil
}

// LogValue hides the JWT secret when the config is logged.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("db_path", c.DBPath),
		slog.String("trip_service_url", c.TripServiceURL),
		slog.Duration("trip_service_timeout", c.TripServiceTimeout),
		slog.Bool("auth_enabled", c.JWTSecret != ""),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
