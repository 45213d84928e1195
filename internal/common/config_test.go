package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Clients.IEX.BaseURL != "https://cloud.iexapis.com/stable" {
		t.Errorf("IEX base URL default = %q", cfg.Clients.IEX.BaseURL)
	}
	if cfg.Notify.Premarket != "09:35" || cfg.Notify.Aftermarket != "16:05" {
		t.Errorf("notify defaults = %q/%q", cfg.Notify.Premarket, cfg.Notify.Aftermarket)
	}
	if cfg.Telegram.UpdateTimeout != 30 {
		t.Errorf("update timeout default = %d, want 30", cfg.Telegram.UpdateTimeout)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STONKBOT_TELEGRAM_TOKEN", "tg-token")
	t.Setenv("STONKBOT_IEX_TOKEN", "iex-token")
	t.Setenv("STONKBOT_LOG_LEVEL", "debug")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Telegram.Token != "tg-token" {
		t.Errorf("telegram token = %q after env override", cfg.Telegram.Token)
	}
	if cfg.Clients.IEX.Token != "iex-token" {
		t.Errorf("iex token = %q after env override", cfg.Clients.IEX.Token)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q after env override", cfg.Logging.Level)
	}
}

func TestLoadConfig_FileAndValidation(t *testing.T) {
	t.Setenv("STONKBOT_TELEGRAM_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "stonkbot.toml")
	data := []byte(`
[telegram]
token = "file-token"

[notify]
premarket = "08:50"
aftermarket = "17:10"
timezone = "Europe/Berlin"

[clients.iex]
timeout = "5s"
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.Token != "file-token" {
		t.Errorf("token = %q, want file-token", cfg.Telegram.Token)
	}
	if cfg.Notify.Premarket != "08:50" {
		t.Errorf("premarket = %q, want 08:50", cfg.Notify.Premarket)
	}
	if cfg.Clients.IEX.GetTimeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Clients.IEX.GetTimeout())
	}
	// Untouched sections keep their defaults.
	if cfg.Clients.IEX.RateLimit != 10 {
		t.Errorf("rate limit = %d, want default 10", cfg.Clients.IEX.RateLimit)
	}
}

func TestLoadConfig_RequiresToken(t *testing.T) {
	t.Setenv("STONKBOT_TELEGRAM_TOKEN", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when telegram token is missing")
	}
}

func TestLoadConfig_RejectsBadClockTime(t *testing.T) {
	t.Setenv("STONKBOT_TELEGRAM_TOKEN", "tg-token")

	dir := t.TempDir()
	path := filepath.Join(dir, "stonkbot.toml")
	if err := os.WriteFile(path, []byte("[notify]\npremarket = \"25:99\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid premarket time")
	}
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("16:05")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if hour != 16 || minute != 5 {
		t.Errorf("ParseClock = %d:%d, want 16:05", hour, minute)
	}

	if _, _, err := ParseClock("noon"); err == nil {
		t.Error("expected error for unparseable time")
	}
}
