// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/rdf"
)

// typeIndexSlug is the path of a freshly provisioned private type index
// relative to the storage root.
const typeIndexSlug = "settings/privateTypeIndex.ttl"

// IndexProvisioner writes a new, empty private type index document into the
// user's first storage root.
type IndexProvisioner struct {
	docs Documents
}

// NewIndexProvisioner creates the default provisioner.
func NewIndexProvisioner(docs Documents) *IndexProvisioner {
	return &IndexProvisioner{docs: docs}
}

// CreatePrivateTypeIndex writes the index document and returns its location.
func (p *IndexProvisioner) CreatePrivateTypeIndex(ctx context.Context, identity *models.UserIdentity) (string, error) {
	if len(identity.StorageRoots) == 0 {
		return "", fmt.Errorf("identity %s has no storage roots", identity.WebID)
	}
	root := identity.StorageRoots[0]
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	location := root + typeIndexSlug

	triples := []rdf.Triple{
		{Subject: location, Predicate: rdf.TypeRDF, Object: "http://www.w3.org/ns/solid/terms#TypeIndex"},
		{Subject: location, Predicate: rdf.TypeRDF, Object: "http://www.w3.org/ns/solid/terms#UnlistedDocument"},
	}
	if err := p.docs.Save(ctx, location, triples); err != nil {
		return "", fmt.Errorf("save type index %s: %w", location, err)
	}
	return location, nil
}
