// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/podtheca/podtheca/internal/logging"
)

// flakyService fails a fixed number of times, then parks until shutdown.
type flakyService struct {
	failures int32
	starts   int32
}

func (s *flakyService) Serve(ctx context.Context) error {
	n := atomic.AddInt32(&s.starts, 1)
	if n <= atomic.LoadInt32(&s.failures) {
		return errors.New("transient failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *flakyService) String() string { return "flaky" }

func TestTreeRestartsFailedService(t *testing.T) {
	tree := NewTree(logging.NewSlogLogger(), TreeConfig{
		FailureBackoff: 10 * time.Millisecond,
	})

	svc := &flakyService{failures: 2}
	tree.AddCatalogService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(5 * time.Second)
	for atomic.LoadInt32(&svc.starts) < 3 {
		select {
		case <-deadline:
			t.Fatalf("service restarted %d times, want at least 3 starts", atomic.LoadInt32(&svc.starts))
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected serve error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancellation")
	}
}

func TestTreeStopsOnContextCancel(t *testing.T) {
	tree := NewTree(logging.NewSlogLogger(), DefaultTreeConfig())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancellation")
	}
}
