// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() = %v, want nil", err)
	}
	if cfg.Recommend.DefaultTopN != 3 {
		t.Errorf("DefaultTopN = %d, want 3", cfg.Recommend.DefaultTopN)
	}
	if cfg.Catalog.YearMin != 2020 || cfg.Catalog.YearMax != 2026 {
		t.Errorf("year bounds = %d-%d, want 2020-2026", cfg.Catalog.YearMin, cfg.Catalog.YearMax)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "inverted year bounds", mutate: func(c *Config) { c.Catalog.YearMin = 2030 }},
		{name: "zero default top n", mutate: func(c *Config) { c.Recommend.DefaultTopN = 0 }},
		{name: "max below default top n", mutate: func(c *Config) { c.Recommend.MaxTopN = 1 }},
		{name: "empty coefficients path", mutate: func(c *Config) { c.Coefficients.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "HTTP_PORT", want: "server.port"},
		{in: "CATALOG_DATA_DIR", want: "catalog.data_dir"},
		{in: "COEFFICIENTS_PATH", want: "coefficients.path"},
		{in: "CHAT_UPSTREAM_URL", want: "chat.upstream_url"},
		{in: "LOG_LEVEL", want: "logging.level"},
		{in: "PATH", want: ""},
		{in: "HOME", want: ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CATALOG_YEAR_MAX", "2027")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want env override 9090", cfg.Server.Port)
	}
	if cfg.Catalog.YearMax != 2027 {
		t.Errorf("Catalog.YearMax = %d, want env override 2027", cfg.Catalog.YearMax)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	content := []byte("server:\n  port: 8888\ncoefficients:\n  cache_ttl: 30s\n")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want file value 8888", cfg.Server.Port)
	}
	if cfg.Coefficients.CacheTTL != 30*time.Second {
		t.Errorf("Coefficients.CacheTTL = %v, want 30s", cfg.Coefficients.CacheTTL)
	}
}
