package config

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = strings.Repeat("s", 32)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "host=localhost")
	t.Setenv("SESSION_SECRET", secret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 10, cfg.DBConnectAttempts)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "host=db")
	t.Setenv("SESSION_SECRET", secret)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("SESSION_SECRET", secret)
	_, err := Load()
	assert.Error(t, err, "missing DSN")

	t.Setenv("DB_DSN", "host=db")
	t.Setenv("SESSION_SECRET", "short")
	_, err = Load()
	assert.Error(t, err, "short secret")

	t.Setenv("SESSION_SECRET", secret)
	t.Setenv("LOG_FORMAT", "xml")
	_, err = Load()
	assert.Error(t, err)
}
