// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package importer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/rdf"
)

type fakeSaver struct {
	mu      sync.Mutex
	saved   map[string][]rdf.Triple
	saveErr error
}

func (f *fakeSaver) Save(_ context.Context, location string, triples []rdf.Triple) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[string][]rdf.Triple)
	}
	f.saved[location] = triples
	return nil
}

func TestPodCatalogAdd(t *testing.T) {
	saver := &fakeSaver{}
	container := &models.MediaContainer{URL: "https://alice.example/movies/", Name: "Movies"}
	catalog := NewPodCatalog(saver, container)

	movie := &models.Movie{
		Title:   "Spirited Away",
		Actions: []models.WatchAction{{}},
	}
	if err := catalog.Add(context.Background(), movie); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	wantDoc := "https://alice.example/movies/spirited-away"
	triples, ok := saver.saved[wantDoc]
	if !ok {
		t.Fatalf("expected document at %s, saved: %v", wantDoc, saver.saved)
	}
	if movie.URL != wantDoc+"#it" {
		t.Errorf("movie URL = %q", movie.URL)
	}

	var hasAction bool
	for _, st := range triples {
		if st.Predicate == rdf.TypeRDF && st.Object == rdf.WatchAction {
			hasAction = true
			if !strings.HasPrefix(st.Subject, wantDoc+"#") {
				t.Errorf("action subject %q not minted under the document", st.Subject)
			}
		}
	}
	if !hasAction {
		t.Error("watch action not serialized with the movie")
	}

	if !catalog.Contains(&models.Movie{Title: "Spirited Away"}) {
		t.Error("added movie not visible to duplicate check")
	}
	snapshot := catalog.Container()
	if len(snapshot.Movies) != 1 || len(snapshot.MovieURLs) != 1 {
		t.Errorf("snapshot not updated: %d movies, %d urls", len(snapshot.Movies), len(snapshot.MovieURLs))
	}
}

func TestPodCatalogAddSaveFailure(t *testing.T) {
	saver := &fakeSaver{saveErr: errors.New("pod unavailable")}
	catalog := NewPodCatalog(saver, &models.MediaContainer{URL: "https://alice.example/movies/"})

	err := catalog.Add(context.Background(), &models.Movie{Title: "Arrival"})
	if err == nil {
		t.Fatal("expected save failure to propagate")
	}
	if catalog.Contains(&models.Movie{Title: "Arrival"}) {
		t.Error("failed add must not enter the snapshot")
	}
}

func TestPodCatalogRejectsEmptySlug(t *testing.T) {
	catalog := NewPodCatalog(&fakeSaver{}, &models.MediaContainer{URL: "https://alice.example/movies/"})
	if err := catalog.Add(context.Background(), &models.Movie{Title: "!!!"}); err == nil {
		t.Error("expected an error for a title with no sluggable characters")
	}
}
