package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// Config represents application configuration
type Config struct {
	Data     DataConfig     `envconfig:"DATA"`
	Pipeline PipelineConfig `envconfig:"PIPELINE"`
	Telegram TelegramConfig `envconfig:"TELEGRAM"`
	Health   HealthConfig   `envconfig:"HEALTH"`
	Logging  LoggingConfig  `envconfig:"LOG"`
}

// DataConfig describes where price bars come from and how often they reload
type DataConfig struct {
	CSVPath        string        `envconfig:"CSV_PATH"`
	ReloadInterval time.Duration `envconfig:"RELOAD_INTERVAL" default:"1m"`
	ReloadSchedule string        `envconfig:"RELOAD_SCHEDULE"` // cron spec, overrides the interval
	Symbol         string        `envconfig:"SYMBOL" default:"STOCK"`
}

// PipelineConfig represents analysis parameters
type PipelineConfig struct {
	Windows []int `envconfig:"WINDOWS" default:"5,10,20"`
	Seed    int64 `envconfig:"SEED" default:"0"` // 0 seeds from the clock
}

// TelegramConfig represents Telegram bot configuration
type TelegramConfig struct {
	BotToken string `envconfig:"BOT_TOKEN"`
	ChatID   int64  `envconfig:"CHAT_ID" default:"0"` // 0 answers any chat
	History  int    `envconfig:"HISTORY" default:"50"`
}

// HealthConfig represents the health/metrics HTTP server
type HealthConfig struct {
	Port int `envconfig:"PORT" default:"8080"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
	File  string `envconfig:"FILE"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	// Process environment variables
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if len(c.Pipeline.Windows) == 0 {
		return fmt.Errorf("at least one moving average window must be configured")
	}
	for _, w := range c.Pipeline.Windows {
		if w <= 0 {
			return fmt.Errorf("moving average window must be positive, got %d", w)
		}
	}

	if c.Data.ReloadInterval < 0 {
		return fmt.Errorf("reload interval must not be negative")
	}
	if c.Data.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.Data.ReloadSchedule); err != nil {
			return fmt.Errorf("invalid reload schedule %q: %w", c.Data.ReloadSchedule, err)
		}
	}

	if c.Telegram.History < 0 {
		return fmt.Errorf("telegram history must not be negative")
	}

	if c.Health.Port <= 0 || c.Health.Port > 65535 {
		return fmt.Errorf("invalid health port: %d", c.Health.Port)
	}

	return nil
}

// TelegramEnabled reports whether a bot token was provided
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}
