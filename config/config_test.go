package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("BROADCAST_MIN_DELAY", "")
	t.Setenv("BROADCAST_MAX_DELAY", "")
	t.Setenv("HTTP_ADDR", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DBDsn == "" {
		t.Errorf("expected default dsn, got empty")
	}
	if cfg.BroadcastMinDelay != 100*time.Second || cfg.BroadcastMaxDelay != 200*time.Second {
		t.Errorf("unexpected default broadcast delays: %v..%v", cfg.BroadcastMinDelay, cfg.BroadcastMaxDelay)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoadBroadcastDelayValidation(t *testing.T) {
	t.Setenv("BROADCAST_MIN_DELAY", "3m")
	t.Setenv("BROADCAST_MAX_DELAY", "1m")
	if _, err := Load(); err == nil {
		t.Errorf("expected error when max delay < min delay")
	}
	t.Setenv("BROADCAST_MIN_DELAY", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Errorf("expected error for malformed BROADCAST_MIN_DELAY")
	}
}

func TestValidateSession(t *testing.T) {
	t.Setenv("NID_AUT", "aut")
	t.Setenv("NID_SES", "ses")
	t.Setenv("CHZZK_CHANNEL_ID", "abc123")
	t.Setenv("STOCK_API_KEY", "key")
	cfg, _ := Load()
	if err := cfg.ValidateSession(); err != nil {
		t.Errorf("expected valid session config, got %v", err)
	}
	if err := os.Unsetenv("NID_AUT"); err != nil {
		t.Fatalf("failed to unset NID_AUT: %v", err)
	}
	cfg, _ = Load()
	if err := cfg.ValidateSession(); err == nil {
		t.Errorf("expected error when missing naver session envs")
	}
}

func TestValidateSessionMissingStockKey(t *testing.T) {
	t.Setenv("NID_AUT", "aut")
	t.Setenv("NID_SES", "ses")
	t.Setenv("CHZZK_CHANNEL_ID", "abc123")
	t.Setenv("STOCK_API_KEY", "")
	cfg, _ := Load()
	if err := cfg.ValidateSession(); err == nil {
		t.Errorf("expected error when STOCK_API_KEY is missing")
	}
}
