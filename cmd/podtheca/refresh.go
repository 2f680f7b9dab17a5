// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package main

import (
	"context"
	"time"

	"github.com/podtheca/podtheca/internal/importer"
	"github.com/podtheca/podtheca/internal/logging"
)

// refreshService periodically compares the container's listing timestamp
// against the last observed one and reloads the catalog when the pod shows
// newer data, for example after an edit from another device.
type refreshService struct {
	catalog  *importer.PodCatalog
	boot     *bootstrap
	interval time.Duration

	lastModified time.Time
}

// newRefreshService builds the service. interval <= 0 selects 5 minutes.
func newRefreshService(catalog *importer.PodCatalog, boot *bootstrap, interval time.Duration) *refreshService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &refreshService{catalog: catalog, boot: boot, interval: interval}
}

// Serve implements suture.Service.
func (s *refreshService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *refreshService) refresh(ctx context.Context) {
	containerURL := s.boot.container()
	if containerURL == "" {
		return
	}

	modified, ok, err := s.boot.resolver.ContainerModified(ctx, containerURL)
	if err != nil {
		logging.Warn().Err(err).Msg("Container modification check failed")
		return
	}
	if ok && !modified.After(s.lastModified) {
		return
	}

	container, err := s.boot.load(ctx, containerURL)
	if err != nil {
		logging.Warn().Err(err).Msg("Catalog refresh failed")
		return
	}
	s.catalog.Replace(container)
	if ok {
		s.lastModified = modified
	}
	logging.Info().Int("movies", len(container.Movies)).Msg("Catalog refreshed")
}

func (s *refreshService) String() string { return "catalog-refresh" }
