package config

import (
	"os"
	"strconv"

	"gomediate/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Logging  LoggingConfig
}

// AnalysisConfig holds the estimation and resampling settings
type AnalysisConfig struct {
	Seed                int64
	BootstrapIterations int
	PlaceboDraws        int
	PlaceboTreated      int
	Workers             int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Analysis: AnalysisConfig{
			Seed:                getEnvInt64OrDefault("ANALYSIS_SEED", 42),
			BootstrapIterations: getEnvIntOrDefault("BOOTSTRAP_ITERATIONS", 2000),
			PlaceboDraws:        getEnvIntOrDefault("PLACEBO_DRAWS", 500),
			PlaceboTreated:      getEnvIntOrDefault("PLACEBO_TREATED", 120),
			Workers:             getEnvIntOrDefault("ANALYSIS_WORKERS", 4),
		},
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Analysis.BootstrapIterations < 0 {
		return errors.New("CONFIG_INVALID", "bootstrap iterations cannot be negative")
	}
	if config.Analysis.PlaceboDraws < 1 {
		return errors.New("CONFIG_INVALID", "placebo draws must be at least 1")
	}
	if config.Analysis.PlaceboTreated < 1 {
		return errors.New("CONFIG_INVALID", "placebo treated group size must be at least 1")
	}
	if config.Analysis.Workers < 1 {
		return errors.New("CONFIG_INVALID", "worker count must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
