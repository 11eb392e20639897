package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uaifood/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/uaifood?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "segredo")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "3991", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, 5*time.Second, cfg.OrderTxTimeout)
	assert.Equal(t, 8*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 100, cfg.RateLimitMaxRequests)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/uaifood")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("ORDER_TX_TIMEOUT", "2s")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.com,https://b.com")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.OrderTxTimeout)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_EmptySecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/uaifood")
	t.Setenv("JWT_SECRET_KEY", "  ")

	_, err := config.LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/uaifood")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("ORDER_TX_TIMEOUT", "0s")

	_, err := config.LoadConfig()

	assert.Error(t, err)
}
