package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.API.Port)
	assert.False(t, cfg.API.TLS)
	assert.Equal(t, 50, cfg.API.RateLimit.RequestsPerSecond)
	assert.Equal(t, "./data", cfg.GetDataDir())
	assert.Equal(t, "data/ruleboard.db", cfg.GetSQLitePath())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("RULEBOARD_API_PORT", "9090")
	t.Setenv("RULEBOARD_SQLITE_PATH", "custom/board.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "custom/board.db", cfg.GetSQLitePath())
}

func TestValidateConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.API.Port = 0
	assert.Error(t, validateConfig(cfg))

	cfg.API.Port = 8081
	cfg.API.RateLimit.RequestsPerSecond = 0
	assert.Error(t, validateConfig(cfg))

	cfg.API.RateLimit.RequestsPerSecond = 50
	cfg.API.TLS = true
	cfg.API.CertFile = ""
	assert.Error(t, validateConfig(cfg))
}
