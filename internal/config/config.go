// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the upstream endpoint, server, cache, and parsing dialect.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/N724/kcb/internal/schedule"
)

// Config holds all application configuration
type Config struct {
	// Upstream Configuration
	APIURL          string        // Course endpoint base URL
	FetchTimeout    time.Duration // Per-request timeout for the upstream fetch
	FetchMaxRetries int           // Retry attempts with exponential backoff

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	WebhookTimeout  time.Duration // Bound on processing one chat event

	// Rate Limiting (zero tokens disables per-user limiting)
	UserRateLimitTokens float64 // Burst capacity per user
	UserRateLimitRefill float64 // Tokens refilled per second

	// Data Configuration
	DataDir  string        // Data directory for the SQLite database
	CacheTTL time.Duration // Absolute expiration for cached documents

	// Parsing Configuration
	Dialect       string    // Name of the document dialect to parse with
	LocalSource   bool      // Serve from the built-in timetable instead of the network
	SemesterStart time.Time // Monday of teaching week 1; zero disables week numbering for local documents

	// Sentry Configuration (empty DSN = disabled)
	SentryDSN         string
	SentryEnvironment string
	SentrySampleRate  float64
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:          getEnv(EnvAPIURL, "http://kcb.wzhy99.top"),
		FetchTimeout:    getDurationEnv(EnvFetchTimeout, 10*time.Second),
		FetchMaxRetries: getIntEnv(EnvFetchMaxRetries, 3),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),
		WebhookTimeout:  getDurationEnv(EnvWebhookTimeout, 15*time.Second),

		UserRateLimitTokens: getFloatEnv(EnvUserRateLimitTokens, 5),
		UserRateLimitRefill: getFloatEnv(EnvUserRateLimitRefill, 0.5),

		DataDir:  getEnv(EnvDataDir, getDefaultDataDir()),
		CacheTTL: getDurationEnv(EnvCacheTTL, 30*time.Minute),

		Dialect:       getEnv(EnvDialect, schedule.DialectDefault.Name),
		LocalSource:   getBoolEnv(EnvLocalSource, false),
		SemesterStart: getDateEnv(EnvSemesterStart),

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.APIURL == "" && !c.LocalSource {
		errs = append(errs, errors.New(EnvAPIURL+" is required unless "+EnvLocalSource+" is set"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvFetchTimeout, c.FetchTimeout))
	}
	if c.FetchMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvFetchMaxRetries, c.FetchMaxRetries))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvCacheTTL, c.CacheTTL))
	}
	if c.UserRateLimitTokens < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvUserRateLimitTokens, c.UserRateLimitTokens))
	}
	if c.UserRateLimitTokens > 0 && c.UserRateLimitRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive when limiting is enabled, got %v", EnvUserRateLimitRefill, c.UserRateLimitRefill))
	}
	if _, ok := schedule.DialectByName(c.Dialect); !ok {
		errs = append(errs, fmt.Errorf("%s: unknown dialect %q", EnvDialect, c.Dialect))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ParseDialect returns the configured document dialect.
func (c *Config) ParseDialect() schedule.Dialect {
	d, ok := schedule.DialectByName(c.Dialect)
	if !ok {
		return schedule.DialectDefault
	}
	return d
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "kcb.db")
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getDateEnv retrieves a YYYY-MM-DD environment variable; unset or
// malformed values yield the zero time.
func getDateEnv(key string) time.Time {
	if value := os.Getenv(key); value != "" {
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}
