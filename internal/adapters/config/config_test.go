package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Data.ReloadInterval != time.Minute {
		t.Errorf("reload interval = %v, want 1m", cfg.Data.ReloadInterval)
	}
	if cfg.Data.Symbol != "STOCK" {
		t.Errorf("symbol = %q, want STOCK", cfg.Data.Symbol)
	}
	if !reflect.DeepEqual(cfg.Pipeline.Windows, []int{5, 10, 20}) {
		t.Errorf("windows = %v", cfg.Pipeline.Windows)
	}
	if cfg.Telegram.History != 50 {
		t.Errorf("history = %d, want 50", cfg.Telegram.History)
	}
	if cfg.Health.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Health.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled without a token")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATA_CSV_PATH", "/tmp/prices.csv")
	t.Setenv("DATA_RELOAD_SCHEDULE", "*/5 * * * *")
	t.Setenv("DATA_SYMBOL", "ACME")
	t.Setenv("PIPELINE_WINDOWS", "3,7")
	t.Setenv("PIPELINE_SEED", "42")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")
	t.Setenv("HEALTH_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Data.CSVPath != "/tmp/prices.csv" || cfg.Data.Symbol != "ACME" {
		t.Errorf("data config not loaded: %+v", cfg.Data)
	}
	if cfg.Data.ReloadSchedule != "*/5 * * * *" {
		t.Errorf("schedule = %q", cfg.Data.ReloadSchedule)
	}
	if !reflect.DeepEqual(cfg.Pipeline.Windows, []int{3, 7}) || cfg.Pipeline.Seed != 42 {
		t.Errorf("pipeline config not loaded: %+v", cfg.Pipeline)
	}
	if !cfg.TelegramEnabled() || cfg.Telegram.ChatID != -1001 {
		t.Errorf("telegram config not loaded: %+v", cfg.Telegram)
	}
	if cfg.Health.Port != 9090 || cfg.Logging.Level != "debug" {
		t.Errorf("health/logging not loaded: %+v %+v", cfg.Health, cfg.Logging)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Pipeline: PipelineConfig{Windows: []int{5, 10}},
			Telegram: TelegramConfig{History: 10},
			Health:   HealthConfig{Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no windows", func(c *Config) { c.Pipeline.Windows = nil }, "at least one"},
		{"zero window", func(c *Config) { c.Pipeline.Windows = []int{5, 0} }, "must be positive"},
		{"negative interval", func(c *Config) { c.Data.ReloadInterval = -time.Second }, "reload interval"},
		{"bad schedule", func(c *Config) { c.Data.ReloadSchedule = "every tuesday" }, "invalid reload schedule"},
		{"negative history", func(c *Config) { c.Telegram.History = -1 }, "history"},
		{"bad port", func(c *Config) { c.Health.Port = 70000 }, "invalid health port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_InvalidWindows(t *testing.T) {
	t.Setenv("PIPELINE_WINDOWS", "5,-1")

	if _, err := Load(); err == nil {
		t.Error("expected error for negative window")
	}
}
