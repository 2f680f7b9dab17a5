// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package models defines the domain types shared across the catalog engine:
// the user identity, the media container and its movies, and the type
// registrations that anchor catalog discovery.
package models

import "time"

// UserIdentity describes the logged-in pod owner. It is constructed at login,
// serialized into persisted session state, and never mutated afterwards
// except to cache the private type index location once discovered.
type UserIdentity struct {
	// WebID is the opaque stable identifier for the user.
	WebID string `json:"webId"`

	// Name is the display name from the profile document.
	Name string `json:"name"`

	// AvatarURL is an optional profile image reference.
	AvatarURL string `json:"avatarUrl,omitempty"`

	// StorageRoots lists candidate storage locations in profile order.
	StorageRoots []string `json:"storageRoots"`

	// PrivateTypeIndex is the known index document location, cached here
	// once discovered or provisioned so later sessions skip discovery.
	PrivateTypeIndex string `json:"privateTypeIndex,omitempty"`
}

// Clone returns a deep copy, used when identity state crosses the loader's
// execution-context boundary.
func (u *UserIdentity) Clone() *UserIdentity {
	if u == nil {
		return nil
	}
	out := *u
	out.StorageRoots = append([]string(nil), u.StorageRoots...)
	return &out
}

// TypeRegistration is one entry in the user's type index document: it maps a
// semantic class to the container storing instances of that class. Minted
// with a unique identifier when a container is provisioned; immutable once
// saved.
type TypeRegistration struct {
	// URL is the registration subject, a fragment inside the index document.
	URL string `json:"url"`

	// ForClass is the registered semantic class.
	ForClass string `json:"forClass"`

	// InstanceContainer is the container location holding instances.
	InstanceContainer string `json:"instanceContainer"`
}

// SessionState is the small persisted session snapshot: the identity plus
// the denylist epoch. Serialized with goccy/go-json.
type SessionState struct {
	Identity  *UserIdentity `json:"identity"`
	SavedAt   time.Time     `json:"savedAt"`
	Container string        `json:"container,omitempty"`
}
