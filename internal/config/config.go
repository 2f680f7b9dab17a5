// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package config defines the engine configuration and its layered loading:
// built-in defaults, an optional YAML file, then PODTHECA_* environment
// variables, each layer overriding the previous one.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	Pod      PodConfig      `koanf:"pod"`
	Cache    CacheConfig    `koanf:"cache"`
	Loader   LoaderConfig   `koanf:"loader"`
	Resolver ResolverConfig `koanf:"resolver"`
	Import   ImportConfig   `koanf:"import"`
	Store    StoreConfig    `koanf:"store"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PodConfig describes the Solid pod endpoint and the HTTP client budget.
type PodConfig struct {
	// WebID identifies the user whose catalog the engine manages.
	WebID string `koanf:"web_id"`

	// Token is the bearer token presented on every pod request.
	Token string `koanf:"token"`

	// RequestTimeout bounds a single pod round trip.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// RateLimit caps outgoing requests per second; 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the limiter burst size.
	RateBurst int `koanf:"rate_burst"`
}

// CacheConfig tunes the in-memory document cache.
type CacheConfig struct {
	// FreshnessThreshold is the tolerated clock difference between this
	// machine and the pod when judging a cached copy fresh.
	FreshnessThreshold time.Duration `koanf:"freshness_threshold"`
}

// LoaderConfig tunes catalog hydration.
type LoaderConfig struct {
	// Concurrency bounds parallel member-record fetches.
	Concurrency int `koanf:"concurrency"`
}

// ResolverConfig names the catalog container created on first use.
type ResolverConfig struct {
	ContainerName string `koanf:"container_name"`
	ContainerSlug string `koanf:"container_slug"`
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	// MaxBatch rejects import requests carrying more records; 0 means
	// unlimited.
	MaxBatch int `koanf:"max_batch"`
}

// StoreConfig locates the local key-value store.
type StoreConfig struct {
	// DataDir holds the badger database (denylist, session, import
	// summaries). Empty selects an in-memory store.
	DataDir string `koanf:"data_dir"`
}

// ServerConfig configures the status API.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks cross-field consistency and value ranges.
func (c *Config) Validate() error {
	if c.Pod.WebID != "" && !strings.HasPrefix(c.Pod.WebID, "http") {
		return fmt.Errorf("pod.web_id must be an HTTP(S) IRI, got %q", c.Pod.WebID)
	}
	if c.Pod.RequestTimeout <= 0 {
		return fmt.Errorf("pod.request_timeout must be positive, got %s", c.Pod.RequestTimeout)
	}
	if c.Pod.RateLimit < 0 {
		return fmt.Errorf("pod.rate_limit must not be negative, got %f", c.Pod.RateLimit)
	}
	if c.Cache.FreshnessThreshold < 0 {
		return fmt.Errorf("cache.freshness_threshold must not be negative, got %s", c.Cache.FreshnessThreshold)
	}
	if c.Loader.Concurrency < 0 {
		return fmt.Errorf("loader.concurrency must not be negative, got %d", c.Loader.Concurrency)
	}
	if c.Resolver.ContainerSlug != "" && !strings.HasSuffix(c.Resolver.ContainerSlug, "/") {
		return fmt.Errorf("resolver.container_slug must end with a slash, got %q", c.Resolver.ContainerSlug)
	}
	if c.Import.MaxBatch < 0 {
		return fmt.Errorf("import.max_batch must not be negative, got %d", c.Import.MaxBatch)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
