// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package main is the entry point for the Podtheca engine.
//
// Podtheca keeps a personal movie catalog on the user's Solid pod: it
// discovers (or provisions) the catalog container via the private type
// index, hydrates the catalog with bounded-concurrency document loads, and
// imports externally exported watch histories. A small HTTP API exposes
// health, Prometheus metrics, import control, and the document denylist.
//
// Startup order:
//
//  1. Configuration (Koanf v2: defaults, optional YAML file, PODTHECA_* env)
//  2. Structured logging (zerolog)
//  3. Local state (BadgerDB: denylist, session snapshot, import summaries)
//  4. Pod transport (bearer token, rate limiter, circuit breaker)
//  5. Catalog bootstrap (profile, type-index resolution, catalog load)
//  6. Supervision tree (suture: catalog layer + api layer)
//
// Shutdown is graceful on SIGINT and SIGTERM: the supervision tree drains
// its services, then local state is flushed and closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/podtheca/podtheca/internal/api"
	"github.com/podtheca/podtheca/internal/cache"
	"github.com/podtheca/podtheca/internal/config"
	"github.com/podtheca/podtheca/internal/importer"
	"github.com/podtheca/podtheca/internal/loader"
	"github.com/podtheca/podtheca/internal/logging"
	"github.com/podtheca/podtheca/internal/resolver"
	"github.com/podtheca/podtheca/internal/store"
	"github.com/podtheca/podtheca/internal/supervisor"
	"github.com/podtheca/podtheca/internal/transport"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Engine failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("web_id", cfg.Pod.WebID).Msg("Podtheca starting")

	db, err := openBadger(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close local store")
		}
	}()

	client := transport.NewClient(transport.Config{
		Token:             cfg.Pod.Token,
		Timeout:           cfg.Pod.RequestTimeout,
		RequestsPerSecond: cfg.Pod.RateLimit,
		Burst:             cfg.Pod.RateBurst,
	})
	docs := store.NewDocumentStore(client, cache.New(cfg.Cache.FreshnessThreshold))
	denylist := store.NewDenylist(db)
	sessions := store.NewSessionStore(db)
	res := resolver.New(docs, resolver.NewIndexProvisioner(docs), resolver.Config{
		ContainerName: cfg.Resolver.ContainerName,
		ContainerSlug: cfg.Resolver.ContainerSlug,
	})
	catalogLoader := loader.New(docs, cfg.Loader.Concurrency)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	boot := &bootstrap{
		webID:    cfg.Pod.WebID,
		docs:     docs,
		resolver: res,
		loader:   catalogLoader,
		denylist: denylist,
		sessions: sessions,
	}
	catalog, err := boot.catalog(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap catalog: %w", err)
	}

	progress := importer.NewProgressTracker(db)
	imp := importer.New(catalog, nil, progress)

	handler := api.NewHandler(imp, denylist, progress, cfg.Import.MaxBatch)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	})

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddCatalogService(supervisor.NewBadgerGC(db, 0))
	if boot.loaded() {
		tree.AddCatalogService(newRefreshService(catalog, boot, 0))
	}
	tree.AddAPIService(api.NewServer(cfg.Server.Host, cfg.Server.Port, cfg.Server.Timeout, router))

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("Podtheca stopped")
	return nil
}

// openBadger opens the local key-value store, falling back to an in-memory
// instance when no data directory is configured.
func openBadger(dataDir string) (*badger.DB, error) {
	if dataDir == "" {
		logging.Warn().Msg("No data directory configured, local state will not survive restarts")
		return badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, err
	}
	return badger.Open(badger.DefaultOptions(dataDir).WithLogger(nil))
}
