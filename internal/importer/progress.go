// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package importer

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const progressKey = "import:last_run"

// ProgressRecord summarizes one finished import run.
type ProgressRecord struct {
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Total       int       `json:"total"`
	Added       int       `json:"added"`
	Ignored     int       `json:"ignored"`
	Invalid     int       `json:"invalid"`
	Failed      int       `json:"failed"`
	Unprocessed int       `json:"unprocessed"`
	Cancelled   bool      `json:"cancelled"`
}

// ProgressTracker persists the last run summary in the local badger store so
// it survives restarts and is reportable over the status API.
type ProgressTracker struct {
	db *badger.DB
}

// NewProgressTracker wraps an open badger handle.
func NewProgressTracker(db *badger.DB) *ProgressTracker {
	return &ProgressTracker{db: db}
}

// Save overwrites the stored summary.
func (t *ProgressTracker) Save(record ProgressRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal import summary: %w", err)
	}
	err = t.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(progressKey), data)
	})
	if err != nil {
		return fmt.Errorf("persist import summary: %w", err)
	}
	return nil
}

// Last returns the stored summary, or nil when no run has finished yet.
func (t *ProgressTracker) Last() (*ProgressRecord, error) {
	var record *ProgressRecord
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(progressKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			record = &ProgressRecord{}
			return json.Unmarshal(val, record)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read import summary: %w", err)
	}
	return record, nil
}

// Clear removes the stored summary.
func (t *ProgressTracker) Clear() error {
	err := t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(progressKey))
	})
	if err != nil {
		return fmt.Errorf("clear import summary: %w", err)
	}
	return nil
}
