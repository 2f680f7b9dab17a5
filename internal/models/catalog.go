// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package models

import (
	"strings"
	"time"
)

// MediaContainer is the collection resource holding the user's movie
// documents. Created once per user and cached thereafter; mutated only by
// adding member records during import.
type MediaContainer struct {
	// URL is the container location.
	URL string `json:"url"`

	// Name is the container display name.
	Name string `json:"name"`

	// MovieURLs lists member movie document locations as reported by the
	// container listing.
	MovieURLs []string `json:"movieUrls"`

	// ResourceURLs lists constituent sub-documents of the container itself.
	ResourceURLs []string `json:"resourceUrls,omitempty"`

	// Movies holds the hydrated member records. The slice is replaced, not
	// mutated in place, when records arrive so external observers holding a
	// previous snapshot never see partial state.
	Movies []Movie `json:"movies"`
}

// Clone returns a deep copy of the container.
func (c *MediaContainer) Clone() *MediaContainer {
	if c == nil {
		return nil
	}
	out := *c
	out.MovieURLs = append([]string(nil), c.MovieURLs...)
	out.ResourceURLs = append([]string(nil), c.ResourceURLs...)
	out.Movies = make([]Movie, len(c.Movies))
	for i := range c.Movies {
		out.Movies[i] = *c.Movies[i].Clone()
	}
	return &out
}

// WithMovie returns a copy of the container with the movie appended to a
// freshly allocated Movies slice.
func (c *MediaContainer) WithMovie(m Movie) *MediaContainer {
	out := *c
	out.Movies = make([]Movie, len(c.Movies), len(c.Movies)+1)
	copy(out.Movies, c.Movies)
	out.Movies = append(out.Movies, m)
	return &out
}

// HasMovie reports whether a semantically equal movie is already present.
func (c *MediaContainer) HasMovie(m *Movie) bool {
	for i := range c.Movies {
		if c.Movies[i].IsSame(m) {
			return true
		}
	}
	return false
}

// Movie is one member record of the media container, including its nested
// watch actions.
type Movie struct {
	// URL is the movie document location.
	URL string `json:"url"`

	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ReleaseDate time.Time `json:"releaseDate,omitempty"`
	PosterURL   string    `json:"posterUrl,omitempty"`

	// ExternalURLs carries sameAs references (IMDB, TMDB), used as the
	// record's identity for deduplication.
	ExternalURLs []string `json:"externalUrls,omitempty"`

	// Actions holds the movie's watch actions; always carried with the
	// movie so no partial record is ever observable.
	Actions []WatchAction `json:"actions"`
}

// Clone returns a deep copy of the movie.
func (m *Movie) Clone() *Movie {
	if m == nil {
		return nil
	}
	out := *m
	out.ExternalURLs = append([]string(nil), m.ExternalURLs...)
	out.Actions = append([]WatchAction(nil), m.Actions...)
	return &out
}

// IsSame reports semantic equality: two records describe the same movie when
// they share an external reference, or failing that, the same canonical
// title slug. Reference equality is irrelevant.
func (m *Movie) IsSame(other *Movie) bool {
	if m == nil || other == nil {
		return false
	}
	for _, a := range m.ExternalURLs {
		for _, b := range other.ExternalURLs {
			if a != "" && a == b {
				return true
			}
		}
	}
	return m.Slug() != "" && m.Slug() == other.Slug()
}

// Slug returns the canonical identity slug derived from the title.
func (m *Movie) Slug() string {
	slug := strings.ToLower(strings.TrimSpace(m.Title))
	var b strings.Builder
	lastDash := true
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Watched reports whether the movie has at least one completed watch action.
func (m *Movie) Watched() bool {
	return len(m.Actions) > 0
}

// WatchAction records one viewing of a movie.
type WatchAction struct {
	// URL is the action subject location.
	URL string `json:"url"`

	// MovieURL references the watched movie.
	MovieURL string `json:"movieUrl"`

	// StartTime is when the viewing happened, zero when unknown.
	StartTime time.Time `json:"startTime,omitempty"`
}
