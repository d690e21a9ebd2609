// Package config loads runtime settings from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything cmd/bot needs to start.
type Config struct {
	BotToken      string // Telegram bot API token
	AdminHandle   string // handle allowed to run admin commands; empty disables them
	MetricsAddr   string // listen address for the Prometheus /metrics endpoint
	UpdateTimeout int    // long-poll timeout in seconds
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MetricsAddr:   ":9100",
		UpdateTimeout: 60,
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, errors.New("config: BOT_TOKEN is required")
	}

	cfg.AdminHandle = os.Getenv("ADMIN_HANDLE")

	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("UPDATE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UpdateTimeout = n
		}
	}

	return cfg, nil
}
