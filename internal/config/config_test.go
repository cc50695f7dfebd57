package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DB))
	assert.Equal(t, "bot.db", filepath.Base(cfg.DB))
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Europe/Moscow", cfg.TZ)
	assert.Equal(t, "127.0.0.1:8081", cfg.AdminAddr)
	assert.Equal(t, 2*time.Hour, cfg.WaterEvery)
	assert.Equal(t, 4*time.Hour, cfg.MotivationEvery)
	assert.Equal(t, 200, cfg.WaterThreshold)
	assert.Equal(t, 25, cfg.SendRate)
}

func TestParse_FlagsAndEnv(t *testing.T) {
	t.Setenv("BOT_TZ", "UTC")
	t.Setenv("WATER_REMINDER_EVERY", "30m")

	cfg, err := Parse([]string{"--debug", "--admin-addr=", "--water-threshold=150"})
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Empty(t, cfg.AdminAddr)
	assert.Equal(t, 150, cfg.WaterThreshold)
	assert.Equal(t, 30*time.Minute, cfg.WaterEvery)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]string{"--send-rate=0"})
	assert.Error(t, err)

	_, err = Parse([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestLocation_Unknown(t *testing.T) {
	cfg := &Config{TZ: "Mars/Olympus"}
	_, err := cfg.Location()
	assert.Error(t, err)
}

func TestLoadToken_Order(t *testing.T) {
	dir := t.TempDir()
	old := secretPath
	secretPath = filepath.Join(dir, "token")
	t.Cleanup(func() { secretPath = old })

	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")

	cfg := &Config{}
	assert.ErrorIs(t, cfg.LoadToken(), ErrNoToken)

	t.Setenv("BOT_TOKEN", "legacy")
	require.NoError(t, cfg.LoadToken())
	assert.Equal(t, "legacy", cfg.Token)

	t.Setenv("TELEGRAM_BOT_TOKEN", "env")
	require.NoError(t, cfg.LoadToken())
	assert.Equal(t, "env", cfg.Token)

	require.NoError(t, os.WriteFile(secretPath, []byte(" secret\n"), 0o600))
	require.NoError(t, cfg.LoadToken())
	assert.Equal(t, "secret", cfg.Token)
}
