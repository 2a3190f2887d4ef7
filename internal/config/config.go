package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port              int    `env:"PORT" envDefault:"8080"`
	DatabaseURL       string `env:"DATABASE_URL,required"`
	RedisURL          string `env:"REDIS_URL,required"`
	Environment       string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	AdminUsername     string `env:"ADMIN_USERNAME"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	StaticDir         string `env:"STATIC_DIR" envDefault:"static"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.AdminPasswordHash != "" {
		if !strings.HasPrefix(c.AdminPasswordHash, "$2a$") &&
			!strings.HasPrefix(c.AdminPasswordHash, "$2b$") &&
			!strings.HasPrefix(c.AdminPasswordHash, "$2y$") {
			return fmt.Errorf("ADMIN_PASSWORD_HASH must be a bcrypt hash (generate with: go run scripts/hash-password.go <password>)")
		}
	}

	if c.AdminPasswordHash != "" && c.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required when ADMIN_PASSWORD_HASH is set")
	}

	if c.IsProduction() && strings.HasPrefix(c.RedisURL, "redis://") {
		log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
