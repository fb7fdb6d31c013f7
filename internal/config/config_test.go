package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 390.0, cfg.ScreenWidth)
	assert.Equal(t, 100*time.Millisecond, cfg.SnapshotSettle)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCREEN_WIDTH", "320.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.SessionTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 320.5, cfg.ScreenWidth)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SNAPSHOT_SETTLE", "soon")
	_, err := Load()
	assert.Error(t, err)
}
