// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package store

import (
	"errors"
	"testing"

	"github.com/podtheca/podtheca/internal/rdf"
)

func TestIdentityFromGraph(t *testing.T) {
	webID := "https://alice.example/profile/card#me"
	doc := "https://alice.example/profile/card"
	g := rdf.NewGraph(doc, []rdf.Triple{
		{Subject: webID, Predicate: rdf.FoafName, Object: "Alice"},
		{Subject: webID, Predicate: rdf.FoafImage, Object: "https://alice.example/avatar.png"},
		{Subject: webID, Predicate: rdf.Storage, Object: "https://alice.example/"},
		{Subject: webID, Predicate: rdf.PrivateTypeIndex, Object: "https://alice.example/settings/privateTypeIndex.ttl"},
	})

	identity, err := IdentityFromGraph(g, webID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Name != "Alice" {
		t.Errorf("name = %q", identity.Name)
	}
	if identity.AvatarURL != "https://alice.example/avatar.png" {
		t.Errorf("avatar = %q", identity.AvatarURL)
	}
	if len(identity.StorageRoots) != 1 || identity.StorageRoots[0] != "https://alice.example/" {
		t.Errorf("storage roots = %v", identity.StorageRoots)
	}
	if identity.PrivateTypeIndex != "https://alice.example/settings/privateTypeIndex.ttl" {
		t.Errorf("type index = %q", identity.PrivateTypeIndex)
	}
}

func TestIdentityFromGraphRequiresStorage(t *testing.T) {
	webID := "https://alice.example/profile/card#me"
	g := rdf.NewGraph("https://alice.example/profile/card", []rdf.Triple{
		{Subject: webID, Predicate: rdf.FoafName, Object: "Alice"},
	})

	_, err := IdentityFromGraph(g, webID)
	var malformed *MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDocumentError, got %v", err)
	}
}

func TestIdentityFromGraphOptionalFields(t *testing.T) {
	webID := "https://bob.example/profile#me"
	g := rdf.NewGraph("https://bob.example/profile", []rdf.Triple{
		{Subject: webID, Predicate: rdf.Storage, Object: "https://bob.example/"},
	})

	identity, err := IdentityFromGraph(g, webID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Name != "" || identity.AvatarURL != "" || identity.PrivateTypeIndex != "" {
		t.Errorf("optional fields should be empty: %+v", identity)
	}
}
