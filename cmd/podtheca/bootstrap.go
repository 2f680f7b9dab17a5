// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/podtheca/podtheca/internal/importer"
	"github.com/podtheca/podtheca/internal/loader"
	"github.com/podtheca/podtheca/internal/logging"
	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/resolver"
	"github.com/podtheca/podtheca/internal/store"
)

// bootstrap resolves the user's catalog container and hydrates it once at
// startup. When no WebID is configured the engine runs detached: the API is
// up but imports write nowhere until a pod is configured.
type bootstrap struct {
	webID    string
	docs     *store.DocumentStore
	resolver *resolver.Resolver
	loader   *loader.Loader
	denylist *store.Denylist
	sessions *store.SessionStore

	mu           sync.Mutex
	containerURL string
}

// catalog performs the bootstrap and wraps the loaded container for imports.
func (b *bootstrap) catalog(ctx context.Context) (*importer.PodCatalog, error) {
	if b.webID == "" {
		logging.Warn().Msg("No WebID configured, running without a pod catalog")
		return importer.NewPodCatalog(b.docs, &models.MediaContainer{}), nil
	}

	identity, err := b.docs.LoadIdentity(ctx, b.webID)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("web_id", identity.WebID).Str("name", identity.Name).Msg("Profile loaded")

	containerURL, err := b.resolver.ResolveContainer(ctx, identity)
	if err != nil {
		return nil, err
	}
	if containerURL == "" {
		containerURL, err = b.resolver.CreateContainer(ctx, identity)
		if err != nil {
			return nil, fmt.Errorf("create catalog container: %w", err)
		}
		logging.Info().Str("container", containerURL).Msg("Catalog container provisioned")
	}

	container, err := b.load(ctx, containerURL)
	if err != nil {
		return nil, err
	}

	if err := b.sessions.Save(&models.SessionState{Identity: identity, Container: containerURL}); err != nil {
		logging.Warn().Err(err).Msg("Failed to persist session snapshot")
	}

	b.mu.Lock()
	b.containerURL = containerURL
	b.mu.Unlock()
	return importer.NewPodCatalog(b.docs, container), nil
}

// load hydrates the container, skipping denylisted documents.
func (b *bootstrap) load(ctx context.Context, containerURL string) (*models.MediaContainer, error) {
	ignored, err := b.denylist.List()
	if err != nil {
		logging.Warn().Err(err).Msg("Denylist unavailable, loading everything")
		ignored = nil
	}
	container, err := b.loader.LoadCatalog(ctx, containerURL, loader.Options{IgnoredDocuments: ignored})
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", containerURL, err)
	}
	return container, nil
}

// loaded reports whether a pod catalog was bootstrapped.
func (b *bootstrap) loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.containerURL != ""
}

// container returns the resolved container location.
func (b *bootstrap) container() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.containerURL
}
