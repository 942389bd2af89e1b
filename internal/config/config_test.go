package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE", "DB_HOST", "JWT_EXPIRATION", "REDIS_ADDR", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE", "Memory")
	t.Setenv("JWT_EXPIRATION", "15m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PHOTO_CACHE_TTL", "not-a-duration")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 10*time.Minute, cfg.PhotoCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	for _, storage := range []string{StoragePostgres, StorageMemory} {
		t.Run(storage, func(t *testing.T) {
			t.Setenv("STORAGE", storage)
			t.Setenv("JWT_SECRET", "  ")

			_, err := Load()

			assert.ErrorIs(t, err, ErrMissingJWTSecret)
		})
	}
}
