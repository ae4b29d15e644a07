package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the storefront server.
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Restaurant RestaurantConfig
	Catalog    CatalogConfig
	Tracking   TrackingConfig
	Session    SessionConfig
	CORS       CORSConfig
	LogLevel   string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// BackendConfig points at the external restaurant API. All timeouts and
// waits are seconds.
type BackendConfig struct {
	BaseURL           string
	RequestTimeout    int
	SubmitTimeout     int
	SubmitRetryWait   int
	SubmitMaxAttempts int
}

type RestaurantConfig struct {
	ID          string
	CountryCode string // prefixed onto phone numbers for WhatsApp links
}

type CatalogConfig struct {
	RefreshInterval int
}

type TrackingConfig struct {
	PollInterval int
}

type SessionConfig struct {
	TTL           int
	SweepInterval int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Backend: BackendConfig{
			BaseURL:           getEnv("API_BASE_URL", ""),
			RequestTimeout:    getEnvAsInt("REQUEST_TIMEOUT", 10),
			SubmitTimeout:     getEnvAsInt("SUBMIT_TIMEOUT", 20),
			SubmitRetryWait:   getEnvAsInt("SUBMIT_RETRY_WAIT", 2),
			SubmitMaxAttempts: getEnvAsInt("SUBMIT_MAX_ATTEMPTS", 2),
		},
		Restaurant: RestaurantConfig{
			ID:          getEnv("RESTAURANT_ID", ""),
			CountryCode: getEnv("COUNTRY_CODE", "55"),
		},
		Catalog: CatalogConfig{
			RefreshInterval: getEnvAsInt("CATALOG_REFRESH_INTERVAL", 60),
		},
		Tracking: TrackingConfig{
			PollInterval: getEnvAsInt("TRACK_POLL_INTERVAL", 5),
		},
		Session: SessionConfig{
			TTL:           getEnvAsInt("SESSION_TTL", 1800),
			SweepInterval: getEnvAsInt("SESSION_SWEEP_INTERVAL", 60),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}

	if c.Restaurant.ID == "" {
		return fmt.Errorf("RESTAURANT_ID is required")
	}

	if c.Backend.SubmitMaxAttempts < 1 {
		return fmt.Errorf("SUBMIT_MAX_ATTEMPTS must be at least 1")
	}

	if c.Tracking.PollInterval < 1 {
		return fmt.Errorf("TRACK_POLL_INTERVAL must be at least 1 second")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
