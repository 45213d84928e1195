// Package common provides shared utilities for stonkbot
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for stonkbot
type Config struct {
	Environment string         `toml:"environment"`
	Telegram    TelegramConfig `toml:"telegram"`
	Storage     StorageConfig  `toml:"storage"`
	Clients     ClientsConfig  `toml:"clients"`
	Notify      NotifyConfig   `toml:"notify"`
	Logging     LoggingConfig  `toml:"logging"`
}

// TelegramConfig holds the chat transport configuration
type TelegramConfig struct {
	Token         string `toml:"token"`
	UpdateTimeout int    `toml:"update_timeout"` // long-poll timeout in seconds
	Debug         bool   `toml:"debug"`
}

// StorageConfig holds the ledger store configuration
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	IEX IEXConfig `toml:"iex"`
}

// IEXConfig holds the market-data provider configuration
type IEXConfig struct {
	BaseURL   string `toml:"base_url"`
	Token     string `toml:"token"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	Retries   int    `toml:"retries"`
}

// GetTimeout parses and returns the timeout duration
func (c *IEXConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// NotifyConfig holds the scheduled-report trigger times as "HH:MM" wall-clock
// values in Timezone. Defaults are market open and close plus a small delay.
type NotifyConfig struct {
	Premarket   string `toml:"premarket"`
	Aftermarket string `toml:"aftermarket"`
	Timezone    string `toml:"timezone"`
}

// Location resolves the configured timezone, falling back to UTC.
func (c *NotifyConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Telegram: TelegramConfig{
			UpdateTimeout: 30,
		},
		Storage: StorageConfig{
			Path: "data/ledger",
		},
		Clients: ClientsConfig{
			IEX: IEXConfig{
				BaseURL:   "https://cloud.iexapis.com/stable",
				RateLimit: 10,
				Timeout:   "10s",
				Retries:   3,
			},
		},
		Notify: NotifyConfig{
			Premarket:   "09:35",
			Aftermarket: "16:05",
			Timezone:    "America/New_York",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STONKBOT_ENV"); env != "" {
		config.Environment = env
	}

	if token := os.Getenv("STONKBOT_TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if token := os.Getenv("STONKBOT_IEX_TOKEN"); token != "" {
		config.Clients.IEX.Token = token
	}

	if path := os.Getenv("STONKBOT_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if level := os.Getenv("STONKBOT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if timeout := os.Getenv("STONKBOT_UPDATE_TIMEOUT"); timeout != "" {
		if v, err := strconv.Atoi(timeout); err == nil {
			config.Telegram.UpdateTimeout = v
		}
	}
}

// validateConfig rejects configurations the bot cannot start with.
func validateConfig(config *Config) error {
	if config.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (set telegram.token or STONKBOT_TELEGRAM_TOKEN)")
	}
	if _, _, err := ParseClock(config.Notify.Premarket); err != nil {
		return fmt.Errorf("notify.premarket: %w", err)
	}
	if _, _, err := ParseClock(config.Notify.Aftermarket); err != nil {
		return fmt.Errorf("notify.aftermarket: %w", err)
	}
	return nil
}
