// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/carmatch/config.yaml",
	"/etc/carmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from three layers: struct defaults, an
// optional YAML file, and environment variables (highest priority).
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	// CORS origins may arrive as a comma-separated string from env
	if raw := k.String("server.cors_origins"); raw != "" && strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := k.Set("server.cors_origins", parts); err != nil {
			return nil, fmt.Errorf("process cors origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return empty string and are skipped, preventing
// unrelated environment noise from polluting the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":         "server.host",
		"http_port":         "server.port",
		"http_read_timeout": "server.read_timeout",
		"shutdown_timeout":  "server.shutdown_timeout",
		"cors_origins":      "server.cors_origins",
		"rate_limit_reqs":   "server.rate_limit_reqs",
		"rate_limit_window": "server.rate_limit_window",

		// Catalog mappings
		"catalog_data_dir":      "catalog.data_dir",
		"catalog_in_memory":     "catalog.in_memory",
		"catalog_chunk_size":    "catalog.chunk_size",
		"catalog_year_min":      "catalog.year_min",
		"catalog_year_max":      "catalog.year_max",
		"catalog_gc_interval":   "catalog.gc_interval",
		"catalog_seed_on_empty": "catalog.seed_on_empty",

		// Coefficient resource mappings
		"coefficients_path":      "coefficients.path",
		"coefficients_cache_ttl": "coefficients.cache_ttl",

		// Recommendation mappings
		"recommend_default_top_n": "recommend.default_top_n",
		"recommend_max_top_n":     "recommend.max_top_n",

		// Chat relay mappings
		"chat_enabled":      "chat.enabled",
		"chat_upstream_url": "chat.upstream_url",
		"chat_api_key":      "chat.api_key",
		"chat_model":        "chat.model",
		"chat_timeout":      "chat.timeout",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// findConfigFile locates the config file via env override or default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
