// Package config loads ruleboard configuration from config.yaml and
// RULEBOARD_* environment variables.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// DataPaths holds data directory and file path configuration. Paths can be
// overridden via environment variables.
type DataPaths struct {
	// DataDir is the base data directory (RULEBOARD_DATA_DIR, default: ./data)
	DataDir string `mapstructure:"data_dir"`
	// SQLitePath is the SQLite database file path (RULEBOARD_SQLITE_PATH, default: ${DataDir}/ruleboard.db)
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Config holds all configuration for the ruleboard service
type Config struct {
	// DataPaths holds all data directory configuration
	DataPaths DataPaths `mapstructure:"data_paths"`

	API struct {
		Port           int      `mapstructure:"port"`
		TLS            bool     `mapstructure:"tls"`
		CertFile       string   `mapstructure:"cert_file"`
		KeyFile        string   `mapstructure:"key_file"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		TrustProxy     bool     `mapstructure:"trust_proxy"`
		RateLimit      struct {
			RequestsPerSecond int `mapstructure:"requests_per_second"`
			Burst             int `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"api"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// setDefaults sets configuration defaults
func setDefaults() {
	viper.SetDefault("data_paths.data_dir", "./data")
	viper.SetDefault("data_paths.sqlite_path", "") // Empty = derive from data_dir

	viper.SetDefault("api.port", 8081)
	viper.SetDefault("api.tls", false)
	viper.SetDefault("api.cert_file", "server.crt")
	viper.SetDefault("api.key_file", "server.key")
	viper.SetDefault("api.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("api.trust_proxy", false)
	viper.SetDefault("api.rate_limit.requests_per_second", 50)
	viper.SetDefault("api.rate_limit.burst", 100)

	viper.SetDefault("log.level", "info")
}

// loadFromEnv binds environment variable overrides
func loadFromEnv() {
	viper.SetEnvPrefix("RULEBOARD")
	viper.AutomaticEnv()

	// Explicit bindings for shorter, cleaner env var names
	_ = viper.BindEnv("data_paths.data_dir", "RULEBOARD_DATA_DIR")
	_ = viper.BindEnv("data_paths.sqlite_path", "RULEBOARD_SQLITE_PATH")
	_ = viper.BindEnv("api.port", "RULEBOARD_API_PORT")
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	loadFromEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, will use defaults and env vars
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig rejects configurations the server cannot run with.
func validateConfig(config *Config) error {
	if config.API.Port < 1 || config.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", config.API.Port)
	}
	if config.API.RateLimit.RequestsPerSecond < 1 {
		return fmt.Errorf("invalid rate limit: %d requests per second", config.API.RateLimit.RequestsPerSecond)
	}
	if config.API.TLS && (config.API.CertFile == "" || config.API.KeyFile == "") {
		return fmt.Errorf("TLS enabled but cert_file or key_file not set")
	}
	return nil
}

// GetDataDir returns the resolved base data directory
func (c *Config) GetDataDir() string {
	if c.DataPaths.DataDir == "" {
		return "./data"
	}
	return c.DataPaths.DataDir
}

// GetSQLitePath returns the resolved SQLite database path
func (c *Config) GetSQLitePath() string {
	if c.DataPaths.SQLitePath == "" {
		return filepath.Join(c.GetDataDir(), "ruleboard.db")
	}
	return c.DataPaths.SQLitePath
}
