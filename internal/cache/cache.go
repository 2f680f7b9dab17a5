// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package cache provides the in-memory document cache consulted before any
// pod fetch.
//
// The cache maps a document location to the parsed resource set and the
// server-reported modification time observed at fetch. It answers "is my
// copy still fresh?" without a network round trip; on a miss or a stale hit
// it performs no refetch itself — that is the caller's responsibility. The
// cache is never a source of truth.
package cache

import (
	"sync"
	"time"

	"github.com/podtheca/podtheca/internal/metrics"
	"github.com/podtheca/podtheca/internal/rdf"
)

// DefaultFreshnessThreshold absorbs clock skew between the local clock and
// the server's reported modification time. A copy fetched within this window
// of the last observed modification is never treated as stale, which guards
// against spurious staleness right after a local write.
const DefaultFreshnessThreshold = 10 * time.Second

// Entry is one cached document: the parsed resource set plus the timestamps
// needed for the freshness check.
type Entry struct {
	// FetchedAt is the local time the document was fetched.
	FetchedAt time.Time

	// ObservedModified is the server-reported modification time at fetch.
	ObservedModified time.Time

	// Graph is the parsed resource set.
	Graph *rdf.Graph
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits          int64
	Misses        int64
	Invalidations int64
}

// DocumentCache is a thread-safe in-memory cache of fetched pod documents.
// Entries live for the session; they are removed explicitly when a document
// is known to have been mutated (after a local write) or on Clear at logout.
type DocumentCache struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	threshold time.Duration
	stats     Stats
}

// New creates a document cache with the given freshness threshold.
// A zero threshold selects DefaultFreshnessThreshold.
func New(threshold time.Duration) *DocumentCache {
	if threshold == 0 {
		threshold = DefaultFreshnessThreshold
	}
	return &DocumentCache{
		entries:   make(map[string]Entry),
		threshold: threshold,
	}
}

// Get returns the cached entry for a document location, if any.
func (c *DocumentCache) Get(location string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[location]
	if ok {
		c.stats.Hits++
		metrics.CacheHits.WithLabelValues("document").Inc()
	} else {
		c.stats.Misses++
		metrics.CacheMisses.WithLabelValues("document").Inc()
	}
	return entry, ok
}

// Put stores a fetched document.
func (c *DocumentCache) Put(location string, graph *rdf.Graph, fetchedAt, observedModified time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[location] = Entry{
		FetchedAt:        fetchedAt,
		ObservedModified: observedModified,
		Graph:            graph,
	}
}

// Invalidate removes a document from the cache. Call this after any local
// write to the document so the next read refetches.
func (c *DocumentCache) Invalidate(location string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[location]; ok {
		delete(c.entries, location)
		c.stats.Invalidations++
		metrics.CacheInvalidations.WithLabelValues("document").Inc()
	}
}

// Clear removes all entries. Called on logout.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the cache counters.
func (c *DocumentCache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// IsFresh reports whether a cached entry is still usable given the modified
// time just observed for the document (typically read from its parent
// container listing).
//
// The entry is fresh unless the observed modification postdates the fetch by
// more than the threshold; the boundary is inclusive. The threshold exists
// to absorb the skew between the local clock at fetch time and the
// modification timestamp the server mints for that same write.
func (c *DocumentCache) IsFresh(entry Entry, observedModified time.Time) bool {
	return IsFresh(entry, observedModified, c.threshold)
}

// IsFresh is the threshold-explicit form of DocumentCache.IsFresh.
func IsFresh(entry Entry, observedModified time.Time, threshold time.Duration) bool {
	return observedModified.Sub(entry.FetchedAt) <= threshold
}
