// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package importer

import (
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProgressTrackerRoundTrip(t *testing.T) {
	tracker := NewProgressTracker(openDB(t))

	if last, err := tracker.Last(); err != nil || last != nil {
		t.Fatalf("expected empty tracker, got %v, %v", last, err)
	}

	record := ProgressRecord{
		StartedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 1, 10, 0, 7, 0, time.UTC),
		Total:      5, Added: 2, Ignored: 1, Invalid: 1, Failed: 1,
	}
	if err := tracker.Save(record); err != nil {
		t.Fatalf("save: %v", err)
	}

	last, err := tracker.Last()
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last == nil || last.Total != 5 || last.Added != 2 || !last.StartedAt.Equal(record.StartedAt) {
		t.Errorf("round trip mismatch: %+v", last)
	}

	if err := tracker.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if last, err := tracker.Last(); err != nil || last != nil {
		t.Errorf("expected cleared tracker, got %v, %v", last, err)
	}
}
