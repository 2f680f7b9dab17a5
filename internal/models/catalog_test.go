// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package models

import "testing"

func TestMovieIsSameByExternalURL(t *testing.T) {
	a := &Movie{Title: "Arrival", ExternalURLs: []string{"https://www.imdb.com/title/tt2543164"}}
	b := &Movie{Title: "Arrival (2016)", ExternalURLs: []string{"https://www.imdb.com/title/tt2543164"}}
	c := &Movie{Title: "Sicario", ExternalURLs: []string{"https://www.imdb.com/title/tt3397884"}}

	if !a.IsSame(b) {
		t.Error("expected movies with the same external URL to be the same")
	}
	if a.IsSame(c) {
		t.Error("expected different external URLs to differ")
	}
}

func TestMovieIsSameBySlug(t *testing.T) {
	a := &Movie{Title: "Spirited Away"}
	b := &Movie{Title: "  spirited   AWAY "}
	c := &Movie{Title: "Princess Mononoke"}

	if !a.IsSame(b) {
		t.Error("expected same slug to match")
	}
	if a.IsSame(c) {
		t.Error("expected different slugs to differ")
	}
	if a.IsSame(nil) {
		t.Error("nil never matches")
	}
}

func TestMovieSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Spirited Away", "spirited-away"},
		{"WALL·E", "wall-e"},
		{"8½", "8"},
		{"  The  Matrix  ", "the-matrix"},
		{"", ""},
	}
	for _, tt := range tests {
		m := Movie{Title: tt.title}
		if got := m.Slug(); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestWithMovieReplacesSlice(t *testing.T) {
	container := &MediaContainer{URL: "https://pod.example/movies/"}
	snapshot := container.Movies

	updated := container.WithMovie(Movie{Title: "Arrival"})

	if len(updated.Movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(updated.Movies))
	}
	if len(snapshot) != 0 || len(container.Movies) != 0 {
		t.Error("original container must not be mutated")
	}

	// Appending again must not share backing arrays.
	second := updated.WithMovie(Movie{Title: "Sicario"})
	if &updated.Movies[0] == &second.Movies[0] {
		t.Error("expected a freshly allocated slice per append")
	}
}

func TestContainerClone(t *testing.T) {
	c := &MediaContainer{
		URL:       "https://pod.example/movies/",
		MovieURLs: []string{"https://pod.example/movies/arrival"},
		Movies: []Movie{{
			Title:   "Arrival",
			Actions: []WatchAction{{MovieURL: "https://pod.example/movies/arrival#it"}},
		}},
	}

	clone := c.Clone()
	clone.MovieURLs[0] = "mutated"
	clone.Movies[0].Actions[0].MovieURL = "mutated"

	if c.MovieURLs[0] == "mutated" {
		t.Error("clone must not share MovieURLs")
	}
	if c.Movies[0].Actions[0].MovieURL == "mutated" {
		t.Error("clone must not share nested actions")
	}
}

func TestIdentityClone(t *testing.T) {
	id := &UserIdentity{
		WebID:        "https://alice.example/profile/card#me",
		StorageRoots: []string{"https://alice.example/"},
	}

	clone := id.Clone()
	clone.StorageRoots[0] = "mutated"
	clone.PrivateTypeIndex = "https://alice.example/settings/movies.ttl"

	if id.StorageRoots[0] == "mutated" {
		t.Error("clone must not share storage roots")
	}
	if id.PrivateTypeIndex != "" {
		t.Error("clone must not write back to the original")
	}
}
