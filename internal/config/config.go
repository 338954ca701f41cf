package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Discord struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"discord"`
	Feed struct {
		BaseURL      string `yaml:"base_url"`
		CalendarPath string `yaml:"calendar_path"`
		APIPath      string `yaml:"api_path"`
	} `yaml:"feed"`
	State struct {
		File string `yaml:"file"`
	} `yaml:"state"`
	Delivery struct {
		IntervalMs int `yaml:"interval_ms"`
	} `yaml:"delivery"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Discord.WebhookURL = v
	}
	if v := os.Getenv("FEED_BASE_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.State.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("RUN_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Feed.BaseURL == "" {
		cfg.Feed.BaseURL = "https://www.earningswhispers.com"
	}
	if cfg.Feed.CalendarPath == "" {
		cfg.Feed.CalendarPath = "/calendar"
	}
	if cfg.Feed.APIPath == "" {
		cfg.Feed.APIPath = "/api/todaysresults"
	}
	if cfg.State.File == "" {
		cfg.State.File = "data/notified.json"
	}
	if cfg.Delivery.IntervalMs == 0 {
		cfg.Delivery.IntervalMs = 3000
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Discord.WebhookURL == "" {
		return fmt.Errorf("discord.webhook_url is required")
	}
	if c.Delivery.IntervalMs < 0 {
		return fmt.Errorf("delivery.interval_ms must be non-negative")
	}
	return nil
}
