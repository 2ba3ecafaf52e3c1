// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults
// for server mode, timeouts, and rate limits.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultGhanaPostBaseURL is the public GhanaPost GPS lookup service.
const DefaultGhanaPostBaseURL = "https://ghanapostgps.sperixlabs.org"

// Config holds all application configuration
type Config struct {
	// Twilio Configuration
	TwilioAccountSID  string
	TwilioAuthToken   string
	ValidateSignature bool   // Verify X-Twilio-Signature on webhook requests (default: true)
	PublicBaseURL     string // Externally visible base URL, used to rebuild the signed URL behind proxies

	// GhanaPost GPS Configuration
	GhanaPostBaseURL string
	GeocodeTimeout   time.Duration
	MediaTimeout     time.Duration

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Error and log shipping (Better Stack; both optional)
	SentryToken string
	SentryHost  string
	LogsToken   string
	LogsHost    string
	Environment string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Rate Limits (Token Bucket Algorithm)
	SenderRateBurst        float64 // Maximum burst tokens per WhatsApp sender (default: 6)
	SenderRateRefillPerSec float64 // Tokens refilled per second (default: 0.5 = 1 per 2s)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Twilio Configuration
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		ValidateSignature: getBoolEnv("TWILIO_VALIDATE_SIGNATURE", true),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", ""),

		// GhanaPost GPS Configuration
		GhanaPostBaseURL: getEnv("GHANAPOST_BASE_URL", DefaultGhanaPostBaseURL),
		GeocodeTimeout:   getDurationEnv("GEOCODE_TIMEOUT", GeocodeRequest),
		MediaTimeout:     getDurationEnv("MEDIA_TIMEOUT", MediaFetch),

		// Metrics Authentication
		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		// Error and log shipping
		SentryToken: getEnv("SENTRY_TOKEN", ""),
		SentryHost:  getEnv("SENTRY_HOST", "errors.betterstack.com"),
		LogsToken:   getEnv("LOGS_SOURCE_TOKEN", ""),
		LogsHost:    getEnv("LOGS_INGESTING_HOST", ""),
		Environment: getEnv("ENVIRONMENT", "production"),

		// Server Configuration
		Port:            getEnv("PORT", "5000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		// Rate Limits
		SenderRateBurst:        getFloatEnv("SENDER_RATE_LIMIT_BURST", 6.0),
		SenderRateRefillPerSec: getFloatEnv("SENDER_RATE_LIMIT_REFILL_PER_SEC", 0.5), // 1 per 2s
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.TwilioAccountSID == "" {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID is required"))
	}
	if c.TwilioAuthToken == "" {
		errs = append(errs, errors.New("TWILIO_AUTH_TOKEN is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.GhanaPostBaseURL == "" {
		errs = append(errs, errors.New("GHANAPOST_BASE_URL is required"))
	}
	if c.GeocodeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("GEOCODE_TIMEOUT must be positive, got %v", c.GeocodeTimeout))
	}
	if c.MediaTimeout <= 0 {
		errs = append(errs, fmt.Errorf("MEDIA_TIMEOUT must be positive, got %v", c.MediaTimeout))
	}
	if c.SenderRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("SENDER_RATE_LIMIT_BURST must be positive, got %v", c.SenderRateBurst))
	}
	if c.SenderRateRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("SENDER_RATE_LIMIT_REFILL_PER_SEC must be positive, got %v", c.SenderRateRefillPerSec))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
