// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// denylistKey is the fixed BadgerDB key for permanently-ignored documents.
const denylistKey = "catalog:ignored_documents"

// Denylist persists the set of document locations the user chose to ignore
// permanently after a malformed-document failure. Entries survive across
// sessions until explicitly removed.
type Denylist struct {
	db *badger.DB
}

// NewDenylist creates a denylist over the given BadgerDB instance.
func NewDenylist(db *badger.DB) *Denylist {
	return &Denylist{db: db}
}

// Add records a document location as permanently ignored. Idempotent.
func (d *Denylist) Add(location string) error {
	return d.update(func(set map[string]struct{}) {
		set[location] = struct{}{}
	})
}

// Remove clears a document location from the denylist. Idempotent.
func (d *Denylist) Remove(location string) error {
	return d.update(func(set map[string]struct{}) {
		delete(set, location)
	})
}

// Contains reports whether a location is denylisted.
func (d *Denylist) Contains(location string) (bool, error) {
	set, err := d.load()
	if err != nil {
		return false, err
	}
	_, ok := set[location]
	return ok, nil
}

// List returns all denylisted locations in sorted order.
func (d *Denylist) List() ([]string, error) {
	set, err := d.load()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(set))
	for loc := range set {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out, nil
}

// Clear removes every entry.
func (d *Denylist) Clear() error {
	return d.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(denylistKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (d *Denylist) load() (map[string]struct{}, error) {
	var locations []string

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(denylistKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &locations)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load denylist: %w", err)
	}

	set := make(map[string]struct{}, len(locations))
	for _, loc := range locations {
		set[loc] = struct{}{}
	}
	return set, nil
}

func (d *Denylist) update(mutate func(map[string]struct{})) error {
	set, err := d.load()
	if err != nil {
		return err
	}
	mutate(set)

	locations := make([]string, 0, len(set))
	for loc := range set {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	data, err := json.Marshal(locations)
	if err != nil {
		return fmt.Errorf("marshal denylist: %w", err)
	}

	err = d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(denylistKey), data)
	})
	if err != nil {
		return fmt.Errorf("store denylist: %w", err)
	}
	return nil
}
