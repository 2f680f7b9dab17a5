// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/rdf"
)

// IdentityFromGraph maps a WebID profile document into the user identity.
// The profile must declare at least one storage root; name, avatar, and the
// private type index location are optional.
func IdentityFromGraph(g *rdf.Graph, webID string) (*models.UserIdentity, error) {
	identity := &models.UserIdentity{WebID: webID}

	if st, ok := g.Statement(webID, rdf.FoafName); ok {
		identity.Name = st.Object
	}
	if st, ok := g.Statement(webID, rdf.FoafImage); ok {
		identity.AvatarURL = st.Object
	}
	for _, st := range g.Statements(webID, rdf.Storage, "") {
		identity.StorageRoots = append(identity.StorageRoots, st.Object)
	}
	if st, ok := g.Statement(webID, rdf.PrivateTypeIndex); ok {
		identity.PrivateTypeIndex = st.Object
	}

	if len(identity.StorageRoots) == 0 {
		return nil, &MalformedDocumentError{
			Location: g.Location(),
			Err:      fmt.Errorf("profile %s declares no storage root", webID),
		}
	}
	return identity, nil
}

// LoadIdentity fetches the WebID profile document and maps it into the user
// identity. The profile document location is the WebID minus its fragment.
func (s *DocumentStore) LoadIdentity(ctx context.Context, webID string) (*models.UserIdentity, error) {
	location := webID
	if idx := strings.Index(location, "#"); idx >= 0 {
		location = location[:idx]
	}
	g, err := s.Load(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", location, err)
	}
	return IdentityFromGraph(g, webID)
}
