package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/innledger/internal/config"
	"github.com/MrJamesThe3rd/innledger/internal/database"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 50, cfg.Aggregator.SourceLimit)
	assert.Equal(t, "Europe/Lisbon", cfg.Hotel.Timezone)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "postgres://postgres:@localhost:5432/innledger?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, database.Pool{MaxOpenConns: 25, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}, cfg.Pool())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "hotel")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("AGGREGATOR_CONCURRENCY", "0")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "hotel", cfg.DB.Name)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 1, cfg.Aggregator.Concurrency)
}

func TestLoad_InvalidSourceLimit(t *testing.T) {
	t.Setenv("AGGREGATOR_SOURCE_LIMIT", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_Location(t *testing.T) {
	cfg := &config.Config{}

	cfg.Hotel.Timezone = "Europe/Lisbon"
	assert.Equal(t, "Europe/Lisbon", cfg.Location().String())

	cfg.Hotel.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestConfig_SlogLevel(t *testing.T) {
	cfg := &config.Config{}

	cfg.App.LogLevel = "DEBUG"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	cfg.App.LogLevel = "bogus"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestConfig_ValidateAPI(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.EqualError(t, cfg.ValidateAPI(), "AUTH_JWT_SECRET must be set")

	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err = config.Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateAPI())
}
