package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults apply without any environment", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "local", cfg.Environment)
		assert.Equal(t, "umbrella-service", cfg.Service)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "https://www.jma.go.jp/bosai/forecast/data/forecast", cfg.Provider.BaseURL)
		assert.Equal(t, 15*time.Minute, cfg.Provider.CacheTTL)
		assert.Equal(t, 2.0, cfg.Provider.RequestsPerSecond)
		assert.Equal(t, 50.0, cfg.Umbrella.PopThreshold)
		assert.Equal(t, "OR", cfg.Umbrella.Logic)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("FORECAST_CACHE_TTL", "5m")
		t.Setenv("UMBRELLA_POP_THRESHOLD", "70")
		t.Setenv("UMBRELLA_LOGIC", "AND")
		t.Setenv("DB_CONNECT_TIMEOUT", "7s")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 5*time.Minute, cfg.Provider.CacheTTL)
		assert.Equal(t, 70.0, cfg.Umbrella.PopThreshold)
		assert.Equal(t, "AND", cfg.Umbrella.Logic)
		assert.Equal(t, 7*time.Second, cfg.Database.ConnectTimeout)
	})

	t.Run("invalid environment value fails validation", func(t *testing.T) {
		t.Setenv("APP_ENV", "production-ish")

		_, err := LoadConfig()
		require.Error(t, err)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, ErrValidation, cfgErr.Type)
	})

	t.Run("unparseable duration fails parsing", func(t *testing.T) {
		t.Setenv("FORECAST_TIMEOUT", "soonish")

		_, err := LoadConfig()
		require.Error(t, err)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, ErrParsing, cfgErr.Type)
	})

	t.Run("invalid logic fails validation", func(t *testing.T) {
		t.Setenv("UMBRELLA_LOGIC", "XOR")

		_, err := LoadConfig()
		require.Error(t, err)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, ErrValidation, cfgErr.Type)
	})

	t.Run("malformed database URL fails validation", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "not a url")

		_, err := LoadConfig()
		require.Error(t, err)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, ErrValidation, cfgErr.Type)
	})
}
