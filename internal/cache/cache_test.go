// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package cache

import (
	"testing"
	"time"

	"github.com/podtheca/podtheca/internal/rdf"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(0)
	g := rdf.NewGraph("https://pod.example/movies/", nil)
	now := time.Now()

	c.Put("https://pod.example/movies/", g, now, now)

	entry, ok := c.Get("https://pod.example/movies/")
	if !ok {
		t.Fatal("expected entry to exist")
	}
	if entry.Graph != g {
		t.Error("expected stored graph back")
	}

	if _, ok := c.Get("https://pod.example/other/"); ok {
		t.Error("expected miss for unknown location")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New(0)
	now := time.Now()

	c.Put("doc", rdf.NewGraph("doc", nil), now, now)
	c.Invalidate("doc")

	if _, ok := c.Get("doc"); ok {
		t.Error("expected entry removed after invalidation")
	}

	// Invalidating an absent entry is a no-op.
	c.Invalidate("doc")
	if got := c.GetStats().Invalidations; got != 1 {
		t.Errorf("expected 1 invalidation counted, got %d", got)
	}
}

func TestCacheClear(t *testing.T) {
	c := New(0)
	now := time.Now()

	c.Put("a", rdf.NewGraph("a", nil), now, now)
	c.Put("b", rdf.NewGraph("b", nil), now, now)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after clear, got %d entries", c.Len())
	}
}

func TestIsFreshBoundary(t *testing.T) {
	threshold := 10 * time.Second
	fetchedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	entry := Entry{FetchedAt: fetchedAt}

	tests := []struct {
		name             string
		observedModified time.Time
		want             bool
	}{
		{"modified long before fetch", fetchedAt.Add(-time.Hour), true},
		{"modified at fetch", fetchedAt, true},
		{"modified within skew window", fetchedAt.Add(3 * time.Second), true},
		{"modified exactly at threshold", fetchedAt.Add(threshold), true},
		{"modified just past threshold", fetchedAt.Add(threshold + time.Millisecond), false},
		{"modified well after fetch", fetchedAt.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFresh(entry, tt.observedModified, threshold); got != tt.want {
				t.Errorf("IsFresh = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheStats(t *testing.T) {
	c := New(0)
	now := time.Now()

	c.Put("doc", rdf.NewGraph("doc", nil), now, now)
	c.Get("doc")
	c.Get("doc")
	c.Get("missing")

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(0)
	now := time.Now()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 1000; i++ {
			c.Put("doc", rdf.NewGraph("doc", nil), now, now)
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		c.Get("doc")
	}
	<-done
}
