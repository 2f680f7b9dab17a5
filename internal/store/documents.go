// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package store provides location-addressed access to pod documents and the
// small local state the engine persists between sessions.
//
// DocumentStore is the persistence collaborator of the resolver, loader, and
// import pipeline: it fetches documents through the authenticated transport,
// parses them into rdf.Graph views, and consults the document cache before
// any network access. Local state (the permanently-ignored document denylist
// and the session snapshot) lives in BadgerDB.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/podtheca/podtheca/internal/cache"
	"github.com/podtheca/podtheca/internal/logging"
	"github.com/podtheca/podtheca/internal/rdf"
	"github.com/podtheca/podtheca/internal/transport"
)

// ContentType is the serialization the engine writes and requests.
const ContentType = "application/n-triples"

// MalformedDocumentError signals that a document could not be parsed. It
// carries the offending location so callers can offer to permanently ignore
// the document and retry.
type MalformedDocumentError struct {
	Location string
	Err      error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document %s: %v", e.Location, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// GraphSource is the read contract the resolver and loader consume.
type GraphSource interface {
	// Load returns the document's graph, serving a cached copy when one
	// exists for this session.
	Load(ctx context.Context, location string) (*rdf.Graph, error)

	// LoadWithModified returns the document's graph, reusing the cached
	// copy only while it is fresh relative to the given server-reported
	// modification time.
	LoadWithModified(ctx context.Context, location string, observedModified time.Time) (*rdf.Graph, error)
}

// DocumentStore implements document access over the pod transport.
type DocumentStore struct {
	fetcher transport.Fetcher
	cache   *cache.DocumentCache
}

// NewDocumentStore creates a document store. The cache may be nil, in which
// case every read hits the network.
func NewDocumentStore(fetcher transport.Fetcher, c *cache.DocumentCache) *DocumentStore {
	return &DocumentStore{fetcher: fetcher, cache: c}
}

// Load returns the parsed graph for a document, preferring the session cache.
func (s *DocumentStore) Load(ctx context.Context, location string) (*rdf.Graph, error) {
	if s.cache != nil {
		if entry, ok := s.cache.Get(location); ok {
			return entry.Graph, nil
		}
	}
	return s.fetch(ctx, location)
}

// LoadWithModified returns the parsed graph for a document. The cached copy
// is served only when still fresh against the observed modification time;
// otherwise the document is refetched and the cache updated.
func (s *DocumentStore) LoadWithModified(ctx context.Context, location string, observedModified time.Time) (*rdf.Graph, error) {
	if s.cache != nil {
		if entry, ok := s.cache.Get(location); ok && s.cache.IsFresh(entry, observedModified) {
			return entry.Graph, nil
		}
	}
	return s.fetch(ctx, location)
}

// Find returns the document's graph, or ok=false when the document does not
// exist. Other failures, including malformed content, are errors.
func (s *DocumentStore) Find(ctx context.Context, location string) (*rdf.Graph, bool, error) {
	g, err := s.Load(ctx, location)
	if errors.Is(err, transport.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// Save writes the document's triples to its location and drops any cached
// copies of the document and its parent listing, which the write mutated.
func (s *DocumentStore) Save(ctx context.Context, location string, triples []rdf.Triple) error {
	var buf bytes.Buffer
	if err := rdf.WriteNTriples(&buf, triples); err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}

	_, err := s.fetcher.Fetch(ctx, location, transport.Options{
		Method:      http.MethodPut,
		Body:        buf.Bytes(),
		ContentType: ContentType,
	})
	if err != nil {
		return fmt.Errorf("save document %s: %w", location, err)
	}

	if s.cache != nil {
		s.cache.Invalidate(location)
		if parent := ParentLocation(location); parent != "" {
			s.cache.Invalidate(parent)
		}
	}

	logging.Debug().Str("location", location).Int("triples", len(triples)).Msg("Document saved")
	return nil
}

func (s *DocumentStore) fetch(ctx context.Context, location string) (*rdf.Graph, error) {
	fetchedAt := time.Now()
	resp, err := s.fetcher.Fetch(ctx, location, transport.Options{Accept: ContentType})
	if err != nil {
		return nil, err
	}

	triples, err := rdf.ParseNTriples(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &MalformedDocumentError{Location: location, Err: err}
	}

	g := rdf.NewGraph(location, triples)
	if s.cache != nil {
		s.cache.Put(location, g, fetchedAt, resp.Modified)
	}
	return g, nil
}

// ParentLocation returns the containing collection of a resource location:
// trailing path segment stripped, trailing slash kept. Returns "" at the
// storage root.
func ParentLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}

	path := strings.TrimSuffix(u.Path, "/")
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return ""
	}
	u.Path = path[:idx+1]
	u.Fragment = ""
	u.RawQuery = ""
	return u.String()
}
