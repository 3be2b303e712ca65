package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "APP_PORT=9090\n" +
		"APP_BASE_URL=https://care.example.org\n" +
		"DB_HOST=db.internal\n" +
		"DB_AUTO_MIGRATE=true\n" +
		"REDIS_DB=3\n" +
		"JWT_SECRET=s3cret\n" +
		"JWT_ACCESS_EXPIRY=30m\n" +
		"IDENTIFIER_MAX_ATTEMPTS=7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "https://care.example.org", cfg.App.BaseURL)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7, cfg.Lifecycle.IdentifierMaxAttempts)
	assert.Equal(t, 3, cfg.Lifecycle.ConsultationOpenMaxAttempts)
}

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "http://localhost:8000", cfg.App.BaseURL)
	assert.Equal(t, "*", cfg.App.CORSOrigin)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 5, cfg.Lifecycle.IdentifierMaxAttempts)
}

func TestLoadConfigFrom_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://verify.example.org")

	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://verify.example.org", cfg.App.BaseURL)
}
