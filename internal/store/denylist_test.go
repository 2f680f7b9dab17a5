// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package store

import (
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/podtheca/podtheca/internal/models"
)

func testDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})
	return db
}

func TestDenylistAddContainsRemove(t *testing.T) {
	d := NewDenylist(testDB(t))
	loc := "https://pod.example/movies/broken"

	if ok, _ := d.Contains(loc); ok {
		t.Error("expected empty denylist")
	}

	if err := d.Add(loc); err != nil {
		t.Fatalf("add: %v", err)
	}
	if ok, _ := d.Contains(loc); !ok {
		t.Error("expected location denylisted after Add")
	}

	// Idempotent add.
	if err := d.Add(loc); err != nil {
		t.Fatalf("second add: %v", err)
	}
	list, err := d.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 entry after duplicate add, got %d", len(list))
	}

	if err := d.Remove(loc); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ok, _ := d.Contains(loc); ok {
		t.Error("expected location cleared after Remove")
	}
}

func TestDenylistListSorted(t *testing.T) {
	d := NewDenylist(testDB(t))

	for _, loc := range []string{"https://z.example/doc", "https://a.example/doc", "https://m.example/doc"} {
		if err := d.Add(loc); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	list, err := d.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"https://a.example/doc", "https://m.example/doc", "https://z.example/doc"}
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("expected sorted list %v, got %v", want, list)
		}
	}
}

func TestDenylistClear(t *testing.T) {
	d := NewDenylist(testDB(t))
	_ = d.Add("https://pod.example/doc")

	if err := d.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	list, _ := d.List()
	if len(list) != 0 {
		t.Errorf("expected empty denylist after Clear, got %v", list)
	}

	// Clearing an already-empty denylist is fine.
	if err := d.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	s := NewSessionStore(testDB(t))

	if state, err := s.Load(); err != nil || state != nil {
		t.Fatalf("expected no session initially, got %v, %v", state, err)
	}

	in := &models.SessionState{
		Identity: &models.UserIdentity{
			WebID:        "https://alice.example/profile/card#me",
			Name:         "Alice",
			StorageRoots: []string{"https://alice.example/"},
		},
		Container: "https://alice.example/movies/",
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Identity.WebID != in.Identity.WebID {
		t.Errorf("expected WebID round-tripped, got %q", out.Identity.WebID)
	}
	if out.Container != in.Container {
		t.Errorf("expected container round-tripped, got %q", out.Container)
	}
	if out.SavedAt.IsZero() {
		t.Error("expected SavedAt stamped")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if state, _ := s.Load(); state != nil {
		t.Error("expected session gone after Clear")
	}
}
