// Package config loads runtime configuration from an optional YAML file and
// GOINTERN_* environment variables, then validates it.
// Fail-fast: an invalid value stops the process at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rsilvagit/go-intern/internal/match"
)

// Config represents the application configuration.
type Config struct {
	Store struct {
		Backend     string        `yaml:"backend" validate:"oneof=memory file redis postgres"`
		Path        string        `yaml:"path" validate:"required_if=Backend file"`
		RedisURL    string        `yaml:"redis_url" validate:"required_if=Backend redis"`
		TTL         time.Duration `yaml:"ttl" validate:"gte=0"`
		DatabaseURL string        `yaml:"database_url" validate:"required_if=Backend postgres"`
	} `yaml:"store"`

	Match match.Thresholds `yaml:"match"`

	Search struct {
		Delay      time.Duration `yaml:"delay" validate:"gte=0"`
		QuickDelay time.Duration `yaml:"quick_delay" validate:"gte=0"`
		ChatDelay  time.Duration `yaml:"chat_delay" validate:"gte=0"`
	} `yaml:"search"`

	Auth struct {
		JWTSecret  string        `yaml:"jwt_secret" validate:"required,min=8"`
		TokenTTL   time.Duration `yaml:"token_ttl" validate:"gt=0"`
		BcryptCost int           `yaml:"bcrypt_cost" validate:"gte=4,lte=14"`
	} `yaml:"auth"`

	Server struct {
		Port         int           `yaml:"port" validate:"gte=1,lte=65535"`
		ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gt=0"`
		WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
		AllowOrigins []string      `yaml:"allow_origins"`
	} `yaml:"server"`

	Notify struct {
		TelegramToken  string `yaml:"telegram_token"`
		TelegramChatID string `yaml:"telegram_chat_id" validate:"required_with=TelegramToken"`
		DiscordWebhook string `yaml:"discord_webhook" validate:"omitempty,url"`
	} `yaml:"notify"`

	Reminder struct {
		Schedule string `yaml:"schedule" validate:"required"`
	} `yaml:"reminder"`

	Import struct {
		MinInterval time.Duration `yaml:"min_interval" validate:"gte=0"`
		MaxRetries  int           `yaml:"max_retries" validate:"gte=1"`
		Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	} `yaml:"import"`

	Logging struct {
		Level  string `yaml:"level" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" validate:"oneof=text json"`
	} `yaml:"logging"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.Store.Backend = "file"
	cfg.Store.Path = ".go-intern/state.json"
	cfg.Match = match.DefaultThresholds()
	cfg.Search.Delay = 2 * time.Second
	cfg.Search.QuickDelay = 1500 * time.Millisecond
	cfg.Search.ChatDelay = time.Second
	cfg.Auth.JWTSecret = "go-intern-dev-secret"
	cfg.Auth.TokenTTL = 30 * 24 * time.Hour
	cfg.Auth.BcryptCost = 10
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second
	cfg.Server.AllowOrigins = []string{"*"}
	cfg.Reminder.Schedule = "@every 6h"
	cfg.Import.MinInterval = time.Second
	cfg.Import.MaxRetries = 3
	cfg.Import.Timeout = 30 * time.Second
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	return cfg
}

// Load reads path (optional; a missing file is not an error), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config YAML: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.Match.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s must be a duration, got %q", key, v)
		}
		*dst = d
		return nil
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		*dst = n
		return nil
	}
	float := func(key string, dst *float64) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number, got %q", key, v)
		}
		*dst = f
		return nil
	}

	str("GOINTERN_STORE", &c.Store.Backend)
	str("GOINTERN_STORE_PATH", &c.Store.Path)
	str("REDIS_URL", &c.Store.RedisURL)
	str("DATABASE_URL", &c.Store.DatabaseURL)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("TELEGRAM_TOKEN", &c.Notify.TelegramToken)
	str("TELEGRAM_CHAT_ID", &c.Notify.TelegramChatID)
	str("DISCORD_WEBHOOK_URL", &c.Notify.DiscordWebhook)
	str("GOINTERN_REMINDER_SCHEDULE", &c.Reminder.Schedule)
	str("GOINTERN_LOG_LEVEL", &c.Logging.Level)
	str("GOINTERN_LOG_FORMAT", &c.Logging.Format)

	return errors.Join(
		dur("GOINTERN_STORE_TTL", &c.Store.TTL),
		dur("GOINTERN_SEARCH_DELAY", &c.Search.Delay),
		dur("GOINTERN_QUICK_SEARCH_DELAY", &c.Search.QuickDelay),
		dur("GOINTERN_CHAT_DELAY", &c.Search.ChatDelay),
		dur("GOINTERN_TOKEN_TTL", &c.Auth.TokenTTL),
		num("GOINTERN_PORT", &c.Server.Port),
		num("BCRYPT_COST", &c.Auth.BcryptCost),
		float("GOINTERN_MATCH_HIGH", &c.Match.High),
		float("GOINTERN_MATCH_MEDIUM", &c.Match.Medium),
		float("GOINTERN_MATCH_EXTERNAL_MIN", &c.Match.ExternalMin),
	)
}
