// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package rdf

// Vocabulary terms used by the catalog engine. Full IRIs are used at the
// storage boundary; internal code refers to these constants only.
const (
	// RDF / RDFS
	TypeRDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	LabelRDFS  = "http://www.w3.org/2000/01/rdf-schema#label"
	ModifiedDC = "http://purl.org/dc/terms/modified"

	// Solid type-index terms
	TypeRegistration  = "http://www.w3.org/ns/solid/terms#TypeRegistration"
	ForClass          = "http://www.w3.org/ns/solid/terms#forClass"
	InstanceContainer = "http://www.w3.org/ns/solid/terms#instanceContainer"
	PrivateTypeIndex  = "http://www.w3.org/ns/solid/terms#privateTypeIndex"

	// LDP container terms
	Container = "http://www.w3.org/ns/ldp#Container"
	Contains  = "http://www.w3.org/ns/ldp#contains"

	// schema.org media terms
	Movie           = "https://schema.org/Movie"
	WatchAction     = "https://schema.org/WatchAction"
	Name            = "https://schema.org/name"
	Description     = "https://schema.org/description"
	DatePublished   = "https://schema.org/datePublished"
	Image           = "https://schema.org/image"
	SameAs          = "https://schema.org/sameAs"
	ActionObject    = "https://schema.org/object"
	StartTime       = "https://schema.org/startTime"
	EndTime         = "https://schema.org/endTime"
	ActionStatus    = "https://schema.org/actionStatus"
	CompletedStatus = "https://schema.org/CompletedActionStatus"

	// FOAF profile terms
	FoafName  = "http://xmlns.com/foaf/0.1/name"
	FoafImage = "http://xmlns.com/foaf/0.1/img"

	// Workspace term pointing at the user's storage root
	Storage = "http://www.w3.org/ns/pim/space#storage"
)
