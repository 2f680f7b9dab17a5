// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package rdf provides the read-only triple view used to answer discovery
// questions over a single fetched pod document.
//
// A Graph is built once per fetched document and never mutated. Callers ask
// pattern questions ("does this subject have property P with value V?") via
// Statement, Statements, and Contains; the empty string acts as a wildcard in
// any position of a pattern.
package rdf

// Triple is one subject/predicate/object statement from a pod document.
// Objects are stored as their lexical form: IRIs keep their full form,
// literals are the bare string value.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// Graph is a read-only pattern-query view over one fetched document's triples.
// Triples keep the order they appeared in the source document; "first match"
// semantics everywhere follow that order.
type Graph struct {
	location string
	triples  []Triple
}

// NewGraph builds a Graph over the given triples. The slice is copied so the
// Graph stays immutable even if the caller retains the input.
func NewGraph(location string, triples []Triple) *Graph {
	owned := make([]Triple, len(triples))
	copy(owned, triples)
	return &Graph{location: location, triples: owned}
}

// Location returns the document location this graph was built from.
func (g *Graph) Location() string {
	return g.location
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Statement returns the first triple with the given subject and predicate.
func (g *Graph) Statement(subject, predicate string) (Triple, bool) {
	for _, t := range g.triples {
		if t.Subject == subject && t.Predicate == predicate {
			return t, true
		}
	}
	return Triple{}, false
}

// Statements returns all triples matching the pattern. The empty string is a
// wildcard in any position.
func (g *Graph) Statements(subject, predicate, object string) []Triple {
	var out []Triple
	for _, t := range g.triples {
		if matches(t, subject, predicate, object) {
			out = append(out, t)
		}
	}
	return out
}

// Contains reports whether at least one triple matches the pattern. The empty
// string is a wildcard in any position.
func (g *Graph) Contains(subject, predicate, object string) bool {
	for _, t := range g.triples {
		if matches(t, subject, predicate, object) {
			return true
		}
	}
	return false
}

// Triples returns a copy of all triples in document order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

func matches(t Triple, subject, predicate, object string) bool {
	if subject != "" && t.Subject != subject {
		return false
	}
	if predicate != "" && t.Predicate != predicate {
		return false
	}
	if object != "" && t.Object != object {
		return false
	}
	return true
}
