// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package store

import (
	"fmt"
	"time"

	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/rdf"
)

// MovieFromGraph maps a movie document's graph into the domain record,
// including its nested watch actions. The movie subject is the first subject
// typed schema:Movie; a document without one is malformed.
func MovieFromGraph(g *rdf.Graph) (*models.Movie, error) {
	typed := g.Statements("", rdf.TypeRDF, rdf.Movie)
	if len(typed) == 0 {
		return nil, &MalformedDocumentError{
			Location: g.Location(),
			Err:      fmt.Errorf("no schema:Movie subject"),
		}
	}
	subject := typed[0].Subject

	movie := &models.Movie{URL: subject}
	if st, ok := g.Statement(subject, rdf.Name); ok {
		movie.Title = st.Object
	}
	if movie.Title == "" {
		return nil, &MalformedDocumentError{
			Location: g.Location(),
			Err:      fmt.Errorf("movie %s has no name", subject),
		}
	}
	if st, ok := g.Statement(subject, rdf.Description); ok {
		movie.Description = st.Object
	}
	if st, ok := g.Statement(subject, rdf.Image); ok {
		movie.PosterURL = st.Object
	}
	if st, ok := g.Statement(subject, rdf.DatePublished); ok {
		if t, err := parseDate(st.Object); err == nil {
			movie.ReleaseDate = t
		}
	}
	for _, st := range g.Statements(subject, rdf.SameAs, "") {
		movie.ExternalURLs = append(movie.ExternalURLs, st.Object)
	}

	for _, st := range g.Statements("", rdf.TypeRDF, rdf.WatchAction) {
		action := models.WatchAction{URL: st.Subject, MovieURL: subject}
		if obj, ok := g.Statement(st.Subject, rdf.ActionObject); ok {
			action.MovieURL = obj.Object
		}
		if start, ok := g.Statement(st.Subject, rdf.StartTime); ok {
			if t, err := parseDate(start.Object); err == nil {
				action.StartTime = t
			}
		}
		movie.Actions = append(movie.Actions, action)
	}

	return movie, nil
}

// TriplesForMovie serializes a movie and its watch actions into the triples
// the engine writes to the movie's document.
func TriplesForMovie(m *models.Movie) []rdf.Triple {
	subject := m.URL
	triples := []rdf.Triple{
		{Subject: subject, Predicate: rdf.TypeRDF, Object: rdf.Movie},
		{Subject: subject, Predicate: rdf.Name, Object: m.Title},
	}
	if m.Description != "" {
		triples = append(triples, rdf.Triple{Subject: subject, Predicate: rdf.Description, Object: m.Description})
	}
	if m.PosterURL != "" {
		triples = append(triples, rdf.Triple{Subject: subject, Predicate: rdf.Image, Object: m.PosterURL})
	}
	if !m.ReleaseDate.IsZero() {
		triples = append(triples, rdf.Triple{Subject: subject, Predicate: rdf.DatePublished, Object: m.ReleaseDate.Format("2006-01-02")})
	}
	for _, ext := range m.ExternalURLs {
		triples = append(triples, rdf.Triple{Subject: subject, Predicate: rdf.SameAs, Object: ext})
	}
	for _, action := range m.Actions {
		triples = append(triples,
			rdf.Triple{Subject: action.URL, Predicate: rdf.TypeRDF, Object: rdf.WatchAction},
			rdf.Triple{Subject: action.URL, Predicate: rdf.ActionObject, Object: action.MovieURL},
			rdf.Triple{Subject: action.URL, Predicate: rdf.ActionStatus, Object: rdf.CompletedStatus},
		)
		if !action.StartTime.IsZero() {
			triples = append(triples, rdf.Triple{
				Subject: action.URL, Predicate: rdf.StartTime,
				Object: action.StartTime.Format(time.RFC3339),
			})
		}
	}
	return triples
}

// TriplesForContainer serializes a new, empty media container document.
func TriplesForContainer(location, name string) []rdf.Triple {
	return []rdf.Triple{
		{Subject: location, Predicate: rdf.TypeRDF, Object: rdf.Container},
		{Subject: location, Predicate: rdf.LabelRDFS, Object: name},
	}
}

// TriplesForRegistration serializes one type-index registration entry.
func TriplesForRegistration(reg models.TypeRegistration) []rdf.Triple {
	return []rdf.Triple{
		{Subject: reg.URL, Predicate: rdf.TypeRDF, Object: rdf.TypeRegistration},
		{Subject: reg.URL, Predicate: rdf.ForClass, Object: reg.ForClass},
		{Subject: reg.URL, Predicate: rdf.InstanceContainer, Object: reg.InstanceContainer},
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
