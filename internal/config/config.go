// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrNoDatabase is returned by RequireDatabase when no URL is configured.
var ErrNoDatabase = errors.New("DATABASE_URL or FEBAMBA_DATABASE_URL must be set")

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int           `validate:"gte=0,ltefield=DBPoolMaxConns"`
	DBPoolMaxConns int           `validate:"gte=1"`
	DBPoolMaxLife  time.Duration `validate:"gt=0"`

	// API server
	APIHost     string `validate:"required"`
	APIPort     int    `validate:"min=1,max=65535"`
	Environment string `validate:"oneof=development staging production"`
	Debug       bool

	// CORS
	CORSAllowOrigins []string `validate:"dive,required"`

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int           `validate:"gte=1"`
	RateLimitWindow   time.Duration `validate:"gt=0"`

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration `validate:"gte=0"`

	// Batch pipeline
	DataDir         string `validate:"required"`
	OutputDir       string `validate:"required"`
	RefdataDir      string
	MetricsTextfile string

	// Logging
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Load reads configuration from environment variables with sensible
// defaults and validates the result. The database URL is optional here;
// commands that need Postgres call RequireDatabase.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    envOr("FEBAMBA_DATABASE_URL", envOr("DATABASE_URL", "")),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8501",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     time.Duration(envInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		DataDir:         envOr("DATA_DIR", "data"),
		OutputDir:       envOr("OUTPUT_DIR", "outputs"),
		RefdataDir:      envOr("REFDATA_DIR", ""),
		MetricsTextfile: envOr("METRICS_TEXTFILE", ""),

		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// RequireDatabase fails when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrNoDatabase
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger returns the text logger both binaries write to stdout.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: c.SlogLevel()}))
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
