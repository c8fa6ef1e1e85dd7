// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	SpannerDatabase string        `env:"SPANNER_DATABASE" envDefault:"projects/test-project/instances/dev-instance/databases/product-catalog-db"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	GRPCPort        int           `env:"GRPC_PORT" envDefault:"9090"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment  bool          `env:"LOG_DEVELOPMENT" envDefault:"false"`
	BulkConcurrency int           `env:"BULK_CONCURRENCY" envDefault:"8"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if _, _, _, err := c.SpannerIDs(); err != nil {
		return err
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("GRPC_PORT out of range: %d", c.GRPCPort)
	}
	if c.BulkConcurrency < 1 {
		return fmt.Errorf("BULK_CONCURRENCY must be at least 1, got %d", c.BulkConcurrency)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	return nil
}

// SpannerIDs splits SPANNER_DATABASE into its project, instance and database ids.
func (c *Config) SpannerIDs() (project, instance, database string, err error) {
	parts := strings.Split(c.SpannerDatabase, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" ||
		parts[1] == "" || parts[3] == "" || parts[5] == "" {
		return "", "", "", fmt.Errorf("SPANNER_DATABASE must look like projects/P/instances/I/databases/D, got %q", c.SpannerDatabase)
	}
	return parts[1], parts[3], parts[5], nil
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
