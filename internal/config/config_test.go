package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quizbot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
redis:
  addr: "localhost:6379"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("session ttl = %v, want 24h", cfg.SessionTTL())
	}
	if cfg.FinishedTTL() != time.Hour {
		t.Errorf("finished ttl = %v, want 1h", cfg.FinishedTTL())
	}
	if cfg.Database.Enabled() {
		t.Error("database should be disabled without a host")
	}
}

func TestLoadMissingToken(t *testing.T) {
	path := writeConfig(t, `
redis:
  addr: "localhost:6379"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("load = %v, want token error", err)
	}
}

func TestLoadMissingRedis(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "redis") {
		t.Fatalf("load = %v, want redis error", err)
	}
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Telegram.RunMode = "webhook"

	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook mode without url must fail")
	}

	cfg.Webhook.URL = "https://example.com/bot"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Telegram.RunMode = "polling"

	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeInvalidRunMode(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Telegram.RunMode = "carrier-pigeon"

	if err := Normalize(cfg); err == nil {
		t.Fatal("invalid run mode must fail")
	}
}
