// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/podtheca/podtheca/internal/models"
)

// sessionKey is the fixed BadgerDB key for the persisted session snapshot.
const sessionKey = "session:state"

// SessionStore persists the login session snapshot (identity plus resolved
// container) so a restart can skip re-discovery.
type SessionStore struct {
	db *badger.DB
}

// NewSessionStore creates a session store over the given BadgerDB instance.
func NewSessionStore(db *badger.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save persists the session snapshot.
func (s *SessionStore) Save(state *models.SessionState) error {
	state.SavedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(sessionKey), data)
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Load returns the persisted session snapshot, or nil when none was saved.
func (s *SessionStore) Load() (*models.SessionState, error) {
	var state models.SessionState

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if state.Identity == nil {
		return nil, nil
	}
	return &state, nil
}

// Clear removes the persisted session. Called on logout.
func (s *SessionStore) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(sessionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
