package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("PAGE_SYNC_DEBOUNCE", "")
		t.Setenv("APP_TIMEZONE", "")
		t.Setenv("RAMADAN_START", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 600*time.Millisecond, cfg.PageSyncDebounce)
		assert.Equal(t, time.UTC, cfg.Location)
		assert.Equal(t, "2026-02-19", cfg.RamadanStart.Format("2006-01-02"))
	})

	t.Run("Overrides and invalid values", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("PAGE_SYNC_DEBOUNCE", "250ms")
		t.Setenv("PAGE_SYNC_SUPPRESS", "not-a-duration")
		t.Setenv("RATE_LIMIT", "abc")
		t.Setenv("DB_USER", "reader")
		t.Setenv("DB_NAME", "quran")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 250*time.Millisecond, cfg.PageSyncDebounce)
		assert.Equal(t, 1500*time.Millisecond, cfg.PageSyncSuppress)
		assert.Equal(t, 100, cfg.RateLimit)
		assert.Contains(t, cfg.DSN(), "postgres://reader:")
		assert.Contains(t, cfg.DSN(), "/quran?sslmode=disable")
	})

	t.Run("Missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)

		cfg, err := LoadStore()
		require.NoError(t, err)
		assert.Empty(t, cfg.JWTSecret)
	})

	t.Run("Invalid timezone", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("APP_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		assert.Error(t, err)
	})
}
