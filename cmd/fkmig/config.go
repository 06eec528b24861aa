package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/fkmig/pkg/fkmig"
)

// Config represents the fkmig.yaml configuration file.
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	Dialect     string `yaml:"dialect"`
	Timeout     string `yaml:"timeout"`
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig() (*Config, error) {
	cfg := &Config{
		Timeout: "30s",
	}

	// A missing file is fine; an unreadable one is not.
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
		cfg.DatabaseURL = expandEnvVars(cfg.DatabaseURL)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if envURL := os.Getenv("DATABASE_URL"); envURL != "" {
		cfg.DatabaseURL = envURL
	}
	if envDialect := os.Getenv("FKMIG_DIALECT"); envDialect != "" {
		cfg.Dialect = envDialect
	}

	// CLI flags (highest priority)
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if dialectName != "" {
		cfg.Dialect = dialectName
	}

	return cfg, nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

// newClient creates a client from the resolved configuration.
func newClient() (*fkmig.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, fkmig.ErrMissingDatabaseURL
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
	}

	opts := []fkmig.Option{
		fkmig.WithDatabaseURL(cfg.DatabaseURL),
		fkmig.WithTimeout(timeout),
	}
	if cfg.Dialect != "" {
		opts = append(opts, fkmig.WithDialect(cfg.Dialect))
	}
	return fkmig.New(opts...)
}
