// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config is the process configuration
type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN"`
	ApplicationID string `env:"APPLICATION_ID"`

	// GuildID registers commands in one guild only, for development
	GuildID string `env:"GUILD_ID"`

	RedisAddr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" default:"0"`

	CocAPIToken          string `env:"COC_API_TOKEN"`
	CocAPIURL            string `env:"COC_API_URL" default:"https://api.clashofclans.com/v1"`
	CocRequestsPerSecond int    `env:"COC_REQUESTS_PER_SECOND" default:"10"`

	TrackInterval time.Duration `env:"TRACK_INTERVAL" default:"2m"`
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" default:"10s"`
	EditSpacing   time.Duration `env:"EDIT_SPACING" default:"1s"`

	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`
	MetricsAddr string `env:"METRICS_ADDR" default:":9090"`

	// DotEnvLoaded reports whether a .env file was found
	DotEnvLoaded bool
}

// Load reads .env when present, then the environment
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg.DotEnvLoaded = loaded

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is required")
	}

	if cfg.CocAPIToken == "" {
		return errors.New("COC_API_TOKEN is required")
	}

	if cfg.TrackInterval <= 0 {
		return fmt.Errorf("TRACK_INTERVAL must be positive, got %s", cfg.TrackInterval)
	}

	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}

	if cfg.EditSpacing < 0 {
		return fmt.Errorf("EDIT_SPACING cannot be negative, got %s", cfg.EditSpacing)
	}

	if cfg.CocRequestsPerSecond < 0 {
		return fmt.Errorf("COC_REQUESTS_PER_SECOND cannot be negative, got %d", cfg.CocRequestsPerSecond)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return nil
}
