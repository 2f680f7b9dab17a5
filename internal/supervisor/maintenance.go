// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package supervisor

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/podtheca/podtheca/internal/logging"
)

// BadgerGC periodically reclaims badger value-log space. It belongs in the
// catalog layer of the tree.
type BadgerGC struct {
	db       *badger.DB
	interval time.Duration
}

// NewBadgerGC builds the service. interval <= 0 selects 10 minutes.
func NewBadgerGC(db *badger.DB, interval time.Duration) *BadgerGC {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BadgerGC{db: db, interval: interval}
}

// Serve implements suture.Service.
func (g *BadgerGC) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := g.db.RunValueLogGC(0.5)
			switch {
			case err == nil:
				logging.Debug().Msg("Badger value log GC reclaimed space")
			case errors.Is(err, badger.ErrNoRewrite):
				// Nothing to reclaim this round.
			case errors.Is(err, badger.ErrGCInMemoryMode):
				// In-memory stores have no value log; stop ticking.
				return suppressRestart(ctx)
			default:
				logging.Warn().Err(err).Msg("Badger value log GC failed")
			}
		}
	}
}

func (g *BadgerGC) String() string { return "badger-gc" }

// suppressRestart parks until shutdown so the supervisor does not restart a
// service that has nothing left to do.
func suppressRestart(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}
