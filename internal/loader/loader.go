// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package loader hydrates the full media catalog off the caller's goroutine.
//
// A LoadCatalog call spawns a worker goroutine that fetches the container
// document and then every member record concurrently, streaming results back
// over a typed message channel consumed by a single loop. The caller blocks
// only on that loop, never on individual fetches. Member-fetch concurrency
// is bounded so a large catalog cannot overwhelm the pod.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/podtheca/podtheca/internal/logging"
	"github.com/podtheca/podtheca/internal/metrics"
	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/rdf"
	"github.com/podtheca/podtheca/internal/store"
	"github.com/podtheca/podtheca/internal/transport"
)

// DefaultConcurrency bounds parallel member-record fetches.
const DefaultConcurrency = 8

// Documents is the cache-aware read surface the loader consumes.
type Documents interface {
	Load(ctx context.Context, location string) (*rdf.Graph, error)
	LoadWithModified(ctx context.Context, location string, observedModified time.Time) (*rdf.Graph, error)
}

// Options control one catalog load.
type Options struct {
	// IgnoredDocuments lists member locations to skip before fetching,
	// typically the persisted denylist.
	IgnoredDocuments []string
}

// Loader hydrates catalogs.
type Loader struct {
	docs        Documents
	concurrency int
}

// New creates a loader. concurrency <= 0 selects DefaultConcurrency.
func New(docs Documents, concurrency int) *Loader {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Loader{docs: docs, concurrency: concurrency}
}

// LoadCatalog loads the container at containerURL and all its member movies.
//
// Errors: transport.ErrUnauthorized when the session is rejected;
// *store.MalformedDocumentError (carrying the offending location) when any
// member document cannot be parsed, aborting the whole load. No partial
// catalog is ever returned alongside an error.
func (l *Loader) LoadCatalog(ctx context.Context, containerURL string, opts Options) (*models.MediaContainer, error) {
	start := time.Now()

	msgs := make(chan message, 16)
	go l.run(ctx, containerURL, opts, msgs)

	var container *models.MediaContainer
	for msg := range msgs {
		switch m := msg.(type) {
		case unauthorizedMsg:
			metrics.LoaderErrors.WithLabelValues("unauthorized").Inc()
			return nil, transport.ErrUnauthorized

		case containerLoadedMsg:
			container = m.container
			// Initialize the member list so incremental appends are
			// well-formed from the first movie message.
			container.Movies = []models.Movie{}
			metrics.LoaderDocumentsLoaded.WithLabelValues("container").Inc()

		case movieLoadedMsg:
			if container == nil {
				return nil, fmt.Errorf("loader protocol violation: movie before container")
			}
			// Replace, don't mutate: observers holding the previous
			// snapshot never see it change under them.
			container = container.WithMovie(m.movie)
			metrics.LoaderDocumentsLoaded.WithLabelValues("movie").Inc()

		case doneMsg:
			if m.err != nil {
				var malformed *store.MalformedDocumentError
				switch {
				case errors.As(m.err, &malformed):
					metrics.LoaderErrors.WithLabelValues("malformed_document").Inc()
				case errors.Is(m.err, transport.ErrUnauthorized):
					metrics.LoaderErrors.WithLabelValues("unauthorized").Inc()
				default:
					metrics.LoaderErrors.WithLabelValues("other").Inc()
				}
				return nil, m.err
			}
			metrics.LoaderDuration.Observe(time.Since(start).Seconds())
			logging.Info().
				Str("container", containerURL).
				Int("movies", len(container.Movies)).
				Dur("duration", time.Since(start)).
				Msg("Catalog loaded")
			return container, nil

		default:
			return nil, fmt.Errorf("loader protocol violation: unhandled message %T", msg)
		}
	}
	return nil, fmt.Errorf("loader channel closed without terminal message")
}

// run is the worker. It owns the channel and always terminates it with a
// doneMsg (unauthorizedMsg excepted, where the consumer bails first; the
// channel is buffered so the trailing doneMsg never blocks).
func (l *Loader) run(ctx context.Context, containerURL string, opts Options, msgs chan<- message) {
	defer close(msgs)

	g, err := l.docs.Load(ctx, containerURL)
	if err != nil {
		if errors.Is(err, transport.ErrUnauthorized) {
			msgs <- unauthorizedMsg{}
			msgs <- doneMsg{err: transport.ErrUnauthorized}
			return
		}
		msgs <- doneMsg{err: fmt.Errorf("load container %s: %w", containerURL, err)}
		return
	}

	container := containerFromGraph(g)
	ignored := make(map[string]struct{}, len(opts.IgnoredDocuments))
	for _, loc := range opts.IgnoredDocuments {
		ignored[loc] = struct{}{}
	}

	members := make([]string, 0, len(container.MovieURLs))
	for _, memberURL := range container.MovieURLs {
		if _, skip := ignored[memberURL]; skip {
			logging.Debug().Str("document", memberURL).Msg("Skipping denylisted document")
			continue
		}
		members = append(members, memberURL)
	}

	// Container first; the protocol guarantees this ordering.
	msgs <- containerLoadedMsg{container: container.Clone()}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		once    sync.Once
		loadErr error
	)
	sem := make(chan struct{}, l.concurrency)

	fail := func(err error) {
		once.Do(func() {
			loadErr = err
			cancel()
		})
	}

	for _, memberURL := range members {
		wg.Add(1)
		go func(memberURL string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-workCtx.Done():
				return
			}
			defer func() { <-sem }()

			movie, err := l.loadMovie(workCtx, g, memberURL)
			if err != nil {
				fail(err)
				return
			}
			msgs <- movieLoadedMsg{movie: *movie.Clone()}
		}(memberURL)
	}
	wg.Wait()

	msgs <- doneMsg{err: loadErr}
}

// loadMovie fetches and parses one member record, reusing the cached copy
// when the container listing's modified timestamp shows it is still fresh.
func (l *Loader) loadMovie(ctx context.Context, listing *rdf.Graph, memberURL string) (*models.Movie, error) {
	var (
		g   *rdf.Graph
		err error
	)
	if modified, ok := memberModified(listing, memberURL); ok {
		g, err = l.docs.LoadWithModified(ctx, memberURL, modified)
	} else {
		g, err = l.docs.Load(ctx, memberURL)
	}
	if err != nil {
		return nil, err
	}
	return store.MovieFromGraph(g)
}

// containerFromGraph maps the container listing into the domain shell:
// display name, member record locations, and constituent sub-documents.
func containerFromGraph(g *rdf.Graph) *models.MediaContainer {
	container := &models.MediaContainer{URL: g.Location()}

	if st, ok := g.Statement(g.Location(), rdf.LabelRDFS); ok {
		container.Name = st.Object
	}
	for _, st := range g.Statements(g.Location(), rdf.Contains, "") {
		if strings.HasSuffix(st.Object, "/") {
			container.ResourceURLs = append(container.ResourceURLs, st.Object)
			continue
		}
		container.MovieURLs = append(container.MovieURLs, st.Object)
	}
	return container
}

// memberModified reads a member's modification time from the container
// listing, when the pod includes one.
func memberModified(listing *rdf.Graph, memberURL string) (time.Time, bool) {
	st, ok := listing.Statement(memberURL, rdf.ModifiedDC)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC1123} {
		if t, err := time.Parse(layout, st.Object); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
