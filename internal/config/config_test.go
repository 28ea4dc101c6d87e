package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate 切到空目录，避免读到仓库里的 config.yaml
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"DATABASE_URL", "MONGO_URI", "APP_ENV", "PORT", "APP_SECRET", "ALLOW_PURGE", "CACHE_TTL", "CACHE_SIZE", "LOG_LEVEL", "LOG_FORMAT", ConfigPathEnvVar} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	isolate(t)

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "memory://")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory://", cfg.Database.URL)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 256, cfg.Cache.Size)
	assert.False(t, cfg.Security.AllowPurge)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MONGO_URI", "memory://legacy")
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_SECRET", "s3cret")
	t.Setenv("ALLOW_PURGE", "true")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CACHE_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory://legacy", cfg.Database.URL)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.UsesDefaultSecret())
	assert.True(t, cfg.Security.AllowPurge)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Cache.Size)
}

func TestDatabaseURLWinsOverMongoURI(t *testing.T) {
	isolate(t)
	t.Setenv("MONGO_URI", "memory://legacy")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/decideflix")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/decideflix", cfg.Database.URL)
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "decideflix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  url: memory://\nserver:\n  port: \"9000\"\ncache:\n  size: 32\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 32, cfg.Cache.Size)

	t.Setenv("PORT", "7000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestValidateRejectsBadCache(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.URL = "memory://"
	require.NoError(t, cfg.Validate())

	cfg.Cache.TTL = 0
	assert.Error(t, cfg.Validate())
}
