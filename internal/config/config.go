package config

import (
	"os"
	"strconv"

	"gocause/domain/attribution"
	"gocause/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds optional run-history database settings.
// An empty URL disables persistence entirely.
type DatabaseConfig struct {
	URL string
}

// EngineConfig holds the analysis engine defaults
type EngineConfig struct {
	Method            string
	MinCorrelation    float64
	MaxFactors        int
	MinCausalStrength float64
	MaxDepth          int
	EnsembleSeed      int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Engine: EngineConfig{
			Method:            getEnv("ENGINE_METHOD", "linear"),
			MinCorrelation:    getEnvFloat("ENGINE_MIN_CORRELATION", 0.3),
			MaxFactors:        getEnvInt("ENGINE_MAX_FACTORS", 5),
			MinCausalStrength: getEnvFloat("ENGINE_MIN_CAUSAL_STRENGTH", 0.2),
			MaxDepth:          getEnvInt("ENGINE_MAX_DEPTH", 3),
			EnsembleSeed:      int64(getEnvInt("ENGINE_ENSEMBLE_SEED", 42)),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !attribution.Method(c.Engine.Method).Valid() {
		return errors.ConfigInvalid("ENGINE_METHOD must be one of: linear, ensemble")
	}
	if c.Engine.MinCorrelation < 0 || c.Engine.MinCorrelation > 1 {
		return errors.ConfigInvalid("ENGINE_MIN_CORRELATION must be in [0,1]")
	}
	if c.Engine.MinCausalStrength < 0 || c.Engine.MinCausalStrength > 1 {
		return errors.ConfigInvalid("ENGINE_MIN_CAUSAL_STRENGTH must be in [0,1]")
	}
	if c.Engine.MaxFactors < 1 {
		return errors.ConfigInvalid("ENGINE_MAX_FACTORS must be at least 1")
	}
	if c.Engine.MaxDepth < 1 {
		return errors.ConfigInvalid("ENGINE_MAX_DEPTH must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
