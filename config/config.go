package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"calendarsync/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	APIBaseURL     string
	APIBearerToken string
	WeekStart      domain.WeekStart
	RequestTimeout time.Duration
	Environment    string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file if not in production
	// We don't return error here because in production .env might not exist
	// and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:    env,
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		APIBearerToken: os.Getenv("API_BEARER_TOKEN"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8080"
	}

	// Week boundary used by the weekly view. The backend has no opinion on
	// this; it is purely a client display convention.
	switch os.Getenv("WEEK_START") {
	case "monday":
		cfg.WeekStart = domain.WeekStartMonday
	default:
		cfg.WeekStart = domain.WeekStartSunday
	}

	cfg.RequestTimeout = 10 * time.Second
	if s := os.Getenv("REQUEST_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.RequestTimeout = time.Duration(n) * time.Second
		}
	}

	return cfg, nil
}
