// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package config loads and validates application configuration using a
// three-layer koanf pipeline: struct defaults, optional YAML file, and
// environment variable overrides (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the CarMatch server.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Catalog      CatalogConfig      `koanf:"catalog"`
	Coefficients CoefficientsConfig `koanf:"coefficients"`
	Recommend    RecommendConfig    `koanf:"recommend"`
	Chat         ChatConfig         `koanf:"chat"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig holds catalog store settings.
type CatalogConfig struct {
	// DataDir is the badger database directory.
	DataDir string `koanf:"data_dir"`

	// InMemory runs badger without disk persistence. Used by tests.
	InMemory bool `koanf:"in_memory"`

	// ChunkSize bounds the number of keys per existence-check query
	// during batched upserts.
	ChunkSize int `koanf:"chunk_size"`

	// YearMin and YearMax bound the acceptable model years.
	YearMin int `koanf:"year_min"`
	YearMax int `koanf:"year_max"`

	// GCInterval is how often badger value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`

	// SeedOnEmpty seeds the mock dataset when a recommendation request
	// finds the catalog empty.
	SeedOnEmpty bool `koanf:"seed_on_empty"`
}

// CoefficientsConfig holds scoring coefficient resource settings.
type CoefficientsConfig struct {
	// Path is the coefficient CSV resource (feature,beta with header).
	Path string `koanf:"path"`

	// CacheTTL is how long a parsed table is reused before reloading.
	// Zero disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// DefaultTopN is the result count when the caller does not specify one.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN caps caller-requested result counts.
	MaxTopN int `koanf:"max_top_n"`
}

// ChatConfig holds the outbound chat relay settings.
type ChatConfig struct {
	Enabled     bool          `koanf:"enabled"`
	UpstreamURL string        `koanf:"upstream_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Timeout     time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Catalog: CatalogConfig{
			DataDir:     "/data/catalog",
			InMemory:    false,
			ChunkSize:   10,
			YearMin:     2020,
			YearMax:     2026,
			GCInterval:  10 * time.Minute,
			SeedOnEmpty: true,
		},
		Coefficients: CoefficientsConfig{
			Path:     "data/coefficients.csv",
			CacheTTL: 5 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultTopN: 3,
			MaxTopN:     20,
		},
		Chat: ChatConfig{
			Enabled:     false,
			UpstreamURL: "",
			APIKey:      "",
			Model:       "gpt-4o-mini",
			Timeout:     15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Catalog.ChunkSize < 1 {
		return fmt.Errorf("catalog.chunk_size must be positive, got %d", c.Catalog.ChunkSize)
	}
	if c.Catalog.YearMin > c.Catalog.YearMax {
		return fmt.Errorf("catalog.year_min %d exceeds catalog.year_max %d",
			c.Catalog.YearMin, c.Catalog.YearMax)
	}
	if !c.Catalog.InMemory && c.Catalog.DataDir == "" {
		return fmt.Errorf("catalog.data_dir is required when catalog.in_memory is false")
	}
	if c.Coefficients.Path == "" {
		return fmt.Errorf("coefficients.path is required")
	}
	if c.Recommend.DefaultTopN < 1 {
		return fmt.Errorf("recommend.default_top_n must be positive, got %d", c.Recommend.DefaultTopN)
	}
	if c.Recommend.MaxTopN < c.Recommend.DefaultTopN {
		return fmt.Errorf("recommend.max_top_n %d is below recommend.default_top_n %d",
			c.Recommend.MaxTopN, c.Recommend.DefaultTopN)
	}
	if c.Chat.Enabled && c.Chat.UpstreamURL == "" {
		return fmt.Errorf("chat.upstream_url is required when chat.enabled is true")
	}
	return nil
}
