// Package config reads the daemon and CLI configuration from environment
// variables. cmds call godotenv.Load() before Load so a local .env works.
package config

import (
	"os"
	"strconv"

	"vipfit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Fit      FitConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional fit-result store settings. An empty URL
// disables persistence; fits are then served statelessly.
type DatabaseConfig struct {
	URL string
}

// FitConfig holds default fit parameters for the CLI and API when a request
// leaves them unset.
type FitConfig struct {
	Method   string
	Seed     uint64
	Level    float64
	MaxCount int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Fit: FitConfig{
			Method:   getEnvOrDefault("VIPFIT_METHOD", "neldermead"),
			Seed:     uint64(getEnvIntOrDefault("VIPFIT_SEED", 1)),
			Level:    getEnvFloatOrDefault("VIPFIT_CI_LEVEL", 0.95),
			MaxCount: getEnvIntOrDefault("VIPFIT_GOF_MAX", 0),
		},
	}

	if cfg.Fit.Level <= 0 || cfg.Fit.Level >= 1 {
		return nil, errors.ConfigInvalid("VIPFIT_CI_LEVEL must be in (0,1)")
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
