package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read once from the environment.
type Config struct {
	Port             int           `env:"PORT" envDefault:"8080"`
	DatabaseURL      string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret        string        `env:"JWT_SECRET"`
	ProductKeySecret string        `env:"PRODUCT_KEY_SECRET,required,notEmpty"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"36000s"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"INFO"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"listing-images"`
	// Base URL clients use to fetch uploaded images; derived from the endpoint when empty.
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"`

	OrphanSweepInterval time.Duration `env:"ORPHAN_SWEEP_INTERVAL" envDefault:"1h"`
}

// ParseEnv populates target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads and validates Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.OrphanSweepInterval <= 0 {
		return errors.New("ORPHAN_SWEEP_INTERVAL must be positive")
	}
	return nil
}
