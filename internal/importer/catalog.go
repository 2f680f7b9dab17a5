// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package importer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/rdf"
	"github.com/podtheca/podtheca/internal/store"
)

// DocumentSaver writes a movie document to the pod.
type DocumentSaver interface {
	Save(ctx context.Context, location string, triples []rdf.Triple) error
}

// PodCatalog adapts a loaded media container and the document store into the
// Catalog surface. It keeps an in-memory snapshot of the container current as
// records are added, so duplicate checks within one run see earlier adds.
type PodCatalog struct {
	mu        sync.Mutex
	docs      DocumentSaver
	container *models.MediaContainer
}

// NewPodCatalog wraps a hydrated container. The container must have been
// loaded (Movies populated) before imports run, or duplicate detection has
// nothing to compare against.
func NewPodCatalog(docs DocumentSaver, container *models.MediaContainer) *PodCatalog {
	return &PodCatalog{docs: docs, container: container.Clone()}
}

// Contains reports whether an equivalent movie is already cataloged.
func (c *PodCatalog) Contains(movie *models.Movie) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.container.HasMovie(movie)
}

// Add mints a document location from the movie's title slug, writes the
// record to the pod, and folds it into the container snapshot.
func (c *PodCatalog) Add(ctx context.Context, movie *models.Movie) error {
	slug := movie.Slug()
	if slug == "" {
		return fmt.Errorf("movie %q yields no usable slug", movie.Title)
	}

	c.mu.Lock()
	location := c.container.URL + slug
	c.mu.Unlock()

	record := movie.Clone()
	record.URL = location + "#it"
	for i := range record.Actions {
		record.Actions[i].URL = location + "#" + uuid.NewString()
		record.Actions[i].MovieURL = record.URL
	}

	if err := c.docs.Save(ctx, location, store.TriplesForMovie(record)); err != nil {
		return fmt.Errorf("save movie document %s: %w", location, err)
	}

	c.mu.Lock()
	c.container = c.container.WithMovie(*record)
	c.container.MovieURLs = append(c.container.MovieURLs, location)
	c.mu.Unlock()

	movie.URL = record.URL
	return nil
}

// Container returns a snapshot of the catalog including records added since
// the wrapped container was loaded.
func (c *PodCatalog) Container() *models.MediaContainer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.container.Clone()
}

// Replace swaps in a freshly loaded container snapshot.
func (c *PodCatalog) Replace(container *models.MediaContainer) {
	c.mu.Lock()
	c.container = container.Clone()
	c.mu.Unlock()
}
