package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests in this file use t.Setenv and cannot run in parallel.

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FEBAMBA_DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.ErrorIs(t, cfg.RequireDatabase(), ErrNoDatabase)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FEBAMBA_DATABASE_URL", "postgres://localhost/febamba")
	t.Setenv("API_PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NoError(t, cfg.RequireDatabase())
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.False(t, cfg.RateLimitEnabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad environment", "ENVIRONMENT", "qa"},
		{"bad log level", "LOG_LEVEL", "trace"},
		{"bad port", "API_PORT", "70000"},
		{"pool min above max", "DB_POOL_MIN_CONNS", "50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
