// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file holding day notes

	// Authentication
	APIKeyHash string // Argon2id hash of the key that may write notes

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Observance period
	PeriodStart  string // First day, YYYY-MM-DD
	PeriodLength int    // Number of days

	// Location the sun is observed from
	Latitude  float64
	Longitude float64
	Timezone  string // IANA zone name

	// How often the countdown is recomputed
	TickInterval time.Duration

	// Allowed CORS origins
	CORSOrigins []string

	// Values that were set but could not be parsed; reported by Validate.
	parseErrs []error
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Defaults for Ramadan 2026 in Oslo.
const (
	DefaultPeriodStart  = "2026-02-18"
	DefaultPeriodLength = 29
	DefaultLatitude     = 59.9139
	DefaultLongitude    = 10.7522
	DefaultTimezone     = "Europe/Oslo"
	DefaultTickInterval = 250 * time.Millisecond
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Missing .env is fine; production sets real env vars.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = cfg.envInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Database
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/ramadan.db")

	// Authentication
	cfg.APIKeyHash = getEnv("API_KEY_HASH", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Period and location
	cfg.PeriodStart = getEnv("PERIOD_START", DefaultPeriodStart)
	cfg.PeriodLength = cfg.envInt("PERIOD_LENGTH", DefaultPeriodLength)
	cfg.Latitude = cfg.envFloat("LATITUDE", DefaultLatitude)
	cfg.Longitude = cfg.envFloat("LONGITUDE", DefaultLongitude)
	cfg.Timezone = getEnv("TIMEZONE", DefaultTimezone)
	cfg.TickInterval = cfg.envDuration("TICK_INTERVAL", DefaultTickInterval)

	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", []string{"*"})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	// Notes are writable by anyone without a key, which is only OK locally.
	if c.Env == EnvProduction && c.APIKeyHash == "" {
		errs = append(errs, errors.New("API_KEY_HASH is required in production"))
	}
	if c.APIKeyHash != "" && !strings.HasPrefix(c.APIKeyHash, "$argon2id$") {
		errs = append(errs, errors.New("API_KEY_HASH must be an argon2id hash (see `ramadan hash-key`)"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if _, err := time.Parse("2006-01-02", c.PeriodStart); err != nil {
		errs = append(errs, fmt.Errorf("PERIOD_START must be a YYYY-MM-DD date; got %q", c.PeriodStart))
	}
	if c.PeriodLength < 1 || c.PeriodLength > 30 {
		errs = append(errs, fmt.Errorf("PERIOD_LENGTH must be between 1 and 30, got %d", c.PeriodLength))
	}

	if c.Latitude < -90 || c.Latitude > 90 {
		errs = append(errs, fmt.Errorf("LATITUDE must be between -90 and 90, got %v", c.Latitude))
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		errs = append(errs, fmt.Errorf("LONGITUDE must be between -180 and 180, got %v", c.Longitude))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		errs = append(errs, fmt.Errorf("TIMEZONE must be an IANA zone name; got %q", c.Timezone))
	}

	if c.TickInterval <= 0 || c.TickInterval >= time.Second {
		errs = append(errs, fmt.Errorf("TICK_INTERVAL must be positive and below 1s, got %s", c.TickInterval))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envInt reads an environment variable as an integer with a default fallback.
// A value that does not parse is recorded for Validate.
func (c *Config) envInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be an integer; got %q", key, value))
		return defaultValue
	}
	return intVal
}

func (c *Config) envFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be a number; got %q", key, value))
		return defaultValue
	}
	return f
}

func (c *Config) envDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be a duration such as 250ms; got %q", key, value))
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
