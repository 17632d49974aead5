package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "school-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginLockout())
	assert.Equal(t, 5, cfg.Auth.LoginMaxFailures)
	assert.Equal(t, 20, cfg.RateLimit.AuthRPM)
	assert.True(t, cfg.Logger.Development)
	assert.Equal(t, "school-service", cfg.Logger.Service)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 12, cfg.Auth.BcryptCost, "invalid ints fall back to the default")
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid REDIS_DB")
}

func TestLoad_RequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Logger.Development, "production logs never run in development mode")
}

func TestRequestTimeout_Disabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
}
