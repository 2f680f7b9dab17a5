// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/podtheca/podtheca/internal/cache"
	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/transport"
)

func testFetcher() *transport.Client {
	return transport.NewClient(transport.Config{
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
	})
}

func TestLoadParsesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<https://pod.example/m#it> <https://schema.org/name> "Arrival" .`))
	}))
	defer srv.Close()

	s := NewDocumentStore(testFetcher(), nil)
	g, err := s.Load(context.Background(), srv.URL+"/movies/arrival")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 triple, got %d", g.Len())
	}
}

func TestLoadServesCachedCopy(t *testing.T) {
	var fetches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		_, _ = w.Write([]byte(`<https://pod.example/m#it> <https://schema.org/name> "Arrival" .`))
	}))
	defer srv.Close()

	s := NewDocumentStore(testFetcher(), cache.New(0))
	loc := srv.URL + "/movies/arrival"

	if _, err := s.Load(context.Background(), loc); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := s.Load(context.Background(), loc); err != nil {
		t.Fatalf("second load: %v", err)
	}

	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Errorf("expected exactly one network fetch, got %d", n)
	}
}

func TestLoadWithModifiedRefetchesStale(t *testing.T) {
	var fetches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		_, _ = w.Write([]byte(`<https://pod.example/m#it> <https://schema.org/name> "Arrival" .`))
	}))
	defer srv.Close()

	s := NewDocumentStore(testFetcher(), cache.New(10*time.Second))
	loc := srv.URL + "/movies/arrival"

	if _, err := s.Load(context.Background(), loc); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	// Within the skew window the cached copy is served.
	if _, err := s.LoadWithModified(context.Background(), loc, time.Now().Add(5*time.Second)); err != nil {
		t.Fatalf("fresh load: %v", err)
	}
	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Fatalf("expected cached copy within threshold, got %d fetches", n)
	}

	// A modification well past the fetch forces a refetch.
	if _, err := s.LoadWithModified(context.Background(), loc, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("stale load: %v", err)
	}
	if n := atomic.LoadInt32(&fetches); n != 2 {
		t.Errorf("expected refetch for stale entry, got %d fetches", n)
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`this is not a triple`))
	}))
	defer srv.Close()

	s := NewDocumentStore(testFetcher(), nil)
	loc := srv.URL + "/movies/broken"

	_, err := s.Load(context.Background(), loc)
	var malformed *MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDocumentError, got %v", err)
	}
	if malformed.Location != loc {
		t.Errorf("expected offending location %q, got %q", loc, malformed.Location)
	}
}

func TestFindAbsentDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewDocumentStore(testFetcher(), nil)
	g, ok, err := s.Find(context.Background(), srv.URL+"/missing")
	if err != nil {
		t.Fatalf("absence is not an error: %v", err)
	}
	if ok || g != nil {
		t.Error("expected ok=false for missing document")
	}
}

func TestSaveInvalidatesCaches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusCreated)
			return
		}
		_, _ = w.Write([]byte(`<https://pod.example/m#it> <https://schema.org/name> "Arrival" .`))
	}))
	defer srv.Close()

	c := cache.New(0)
	s := NewDocumentStore(testFetcher(), c)
	doc := srv.URL + "/movies/arrival"
	parent := srv.URL + "/movies/"

	if _, err := s.Load(context.Background(), doc); err != nil {
		t.Fatalf("prime doc: %v", err)
	}
	if _, err := s.Load(context.Background(), parent); err != nil {
		t.Fatalf("prime parent: %v", err)
	}

	movie := &models.Movie{URL: doc + "#it", Title: "Arrival"}
	err := s.Save(context.Background(), doc, TriplesForMovie(movie))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, ok := c.Get(doc); ok {
		t.Error("expected document cache entry invalidated after save")
	}
	if _, ok := c.Get(parent); ok {
		t.Error("expected parent listing invalidated after save")
	}
}

func TestParentLocation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://pod.example/movies/arrival", "https://pod.example/movies/"},
		{"https://pod.example/movies/", "https://pod.example/"},
		{"https://pod.example/", ""},
		{"https://pod.example/movies/arrival#it", "https://pod.example/movies/"},
	}
	for _, tt := range tests {
		if got := ParentLocation(tt.in); got != tt.want {
			t.Errorf("ParentLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
