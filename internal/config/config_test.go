// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Cache.FreshnessThreshold != 10*time.Second {
		t.Errorf("freshness threshold = %s", cfg.Cache.FreshnessThreshold)
	}
	if cfg.Loader.Concurrency != 8 {
		t.Errorf("loader concurrency = %d", cfg.Loader.Concurrency)
	}
	if cfg.Resolver.ContainerSlug != "movies/" {
		t.Errorf("container slug = %q", cfg.Resolver.ContainerSlug)
	}
	if cfg.Server.Port != 3580 {
		t.Errorf("server port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging format = %q", cfg.Logging.Format)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "podtheca.yaml")
	content := []byte("loader:\n  concurrency: 3\nserver:\n  port: 8080\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Loader.Concurrency != 3 {
		t.Errorf("loader concurrency = %d, want file value 3", cfg.Loader.Concurrency)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want file value 8080", cfg.Server.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Cache.FreshnessThreshold != 10*time.Second {
		t.Errorf("freshness threshold = %s", cfg.Cache.FreshnessThreshold)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "podtheca.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PODTHECA_SERVER_PORT", "9000")
	t.Setenv("PODTHECA_POD_TOKEN", "secret-token")
	t.Setenv("PODTHECA_CACHE_FRESHNESS_THRESHOLD", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("server port = %d, want env value 9000", cfg.Server.Port)
	}
	if cfg.Pod.Token != "secret-token" {
		t.Errorf("pod token = %q", cfg.Pod.Token)
	}
	if cfg.Cache.FreshnessThreshold != 30*time.Second {
		t.Errorf("freshness threshold = %s, want env value 30s", cfg.Cache.FreshnessThreshold)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("PODTHECA_SERVER_CORS_ORIGINS", "https://app.example, https://alt.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := []string{"https://app.example", "https://alt.example"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("cors origins = %v", cfg.Server.CORSOrigins)
	}
	for i, origin := range want {
		if cfg.Server.CORSOrigins[i] != origin {
			t.Errorf("cors origins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], origin)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"web id accepts https iri", func(c *Config) { c.Pod.WebID = "https://alice.example/profile#me" }, false},
		{"web id rejects bare name", func(c *Config) { c.Pod.WebID = "alice" }, true},
		{"zero request timeout", func(c *Config) { c.Pod.RequestTimeout = 0 }, true},
		{"negative freshness threshold", func(c *Config) { c.Cache.FreshnessThreshold = -time.Second }, true},
		{"slug without trailing slash", func(c *Config) { c.Resolver.ContainerSlug = "movies" }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 0 }, true},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PODTHECA_SERVER_PORT", "server.port"},
		{"PODTHECA_POD_REQUEST_TIMEOUT", "pod.request_timeout"},
		{"PODTHECA_CACHE_FRESHNESS_THRESHOLD", "cache.freshness_threshold"},
		{"PODTHECA_NOUNDERSCORE", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
