// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package importer ingests externally exported media records into the pod
// catalog. A run walks its records sequentially, classifying each into one
// of four buckets (added, ignored, invalid, failed); cancellation leaves the
// rest in a fifth unprocessed bucket. At most one run is active at a time.
package importer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/podtheca/podtheca/internal/logging"
	"github.com/podtheca/podtheca/internal/metrics"
	"github.com/podtheca/podtheca/internal/models"
)

// Catalog is the persistence surface an import writes through.
type Catalog interface {
	// Contains reports whether an equivalent movie is already cataloged.
	Contains(movie *models.Movie) bool
	// Add persists the movie as a new member record.
	Add(ctx context.Context, movie *models.Movie) error
}

// Enricher fills in record fields from external sources before persisting.
// Implementations must treat failures as per-record, not fatal.
type Enricher interface {
	Enrich(ctx context.Context, movie *models.Movie) error
}

// Status is a point-in-time snapshot of the active (or last) run.
type Status struct {
	Running   bool `json:"running"`
	Cancelled bool `json:"cancelled"`
	Current   int  `json:"current"`
	Total     int  `json:"total"`
}

// Importer runs the import pipeline.
type Importer struct {
	catalog  Catalog
	enricher Enricher
	progress *ProgressTracker
	formats  map[Format]FormatHandler

	mu        sync.Mutex
	running   bool
	cancelled bool
	current   int
	total     int
}

// New creates an importer. enricher and progress may be nil.
func New(catalog Catalog, enricher Enricher, progress *ProgressTracker) *Importer {
	return &Importer{
		catalog:  catalog,
		enricher: enricher,
		progress: progress,
		formats:  defaultFormats(),
	}
}

// Cancel requests that the active run stop at the next record boundary.
// It is idempotent and a no-op when no run is active.
func (imp *Importer) Cancel() {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	if imp.running && !imp.cancelled {
		imp.cancelled = true
		logging.Info().Msg("Import cancellation requested")
	}
}

// Status returns a snapshot of run progress.
func (imp *Importer) Status() Status {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	return Status{
		Running:   imp.running,
		Cancelled: imp.cancelled,
		Current:   imp.current,
		Total:     imp.total,
	}
}

// Run imports records of the given format. It returns ErrImportInProgress
// when a run is already active and ErrUnknownFormat for an unregistered
// format tag. Per-record problems land in the outcome buckets; only
// infrastructure faults (a broken validator) abort the run itself.
//
// Records already present in the catalog are ignored, and a record added
// earlier in the same run counts as present, so duplicates within one batch
// collapse to a single add.
func (imp *Importer) Run(ctx context.Context, records []RawRecord, format Format) (*Outcome, error) {
	handler, ok := imp.formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	imp.mu.Lock()
	if imp.running {
		imp.mu.Unlock()
		return nil, ErrImportInProgress
	}
	imp.running = true
	imp.cancelled = false
	imp.current = 0
	imp.total = len(records)
	imp.mu.Unlock()

	start := time.Now()
	metrics.ImportRunning.Set(1)
	defer func() {
		metrics.ImportRunning.Set(0)
		metrics.ImportDuration.Observe(time.Since(start).Seconds())
		imp.mu.Lock()
		imp.running = false
		imp.mu.Unlock()
	}()

	logging.Info().Int("records", len(records)).Str("format", string(format)).Msg("Import started")

	outcome := &Outcome{Total: len(records)}
	var added []*models.Movie

	for i, raw := range records {
		// Yield between records so Cancel and Status calls are never
		// starved by a long batch.
		runtime.Gosched()

		if imp.stopRequested(ctx) {
			outcome.Unprocessed = append(outcome.Unprocessed, records[i:]...)
			break
		}
		imp.setCurrent(i + 1)

		if err := imp.importRecord(ctx, handler, raw, outcome, &added); err != nil {
			return nil, err
		}
	}

	imp.recordResult(outcome, start)
	return outcome, nil
}

// importRecord pushes one record through validate, parse, duplicate check,
// enrich, and persist, appending it to the matching outcome bucket. A
// non-nil return aborts the whole run.
func (imp *Importer) importRecord(ctx context.Context, handler FormatHandler, raw RawRecord, outcome *Outcome, added *[]*models.Movie) error {
	if err := handler.Validate(raw); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		if verr.Unsuitable {
			outcome.Ignored = append(outcome.Ignored, IgnoredRecord{Title: verr.Title, Reason: verr.Reason()})
			metrics.ImportRecords.WithLabelValues("ignored").Inc()
			return nil
		}
		outcome.Invalid = append(outcome.Invalid, InvalidRecord{Title: verr.Title, Reasons: verr.Reasons})
		metrics.ImportRecords.WithLabelValues("invalid").Inc()
		return nil
	}

	movie, err := handler.Parse(raw)
	if err != nil {
		outcome.Failed = append(outcome.Failed, FailedRecord{Err: err.Error()})
		metrics.ImportRecords.WithLabelValues("failed").Inc()
		return nil
	}

	// Duplicate checks run before any network work: against the catalog
	// and against movies added earlier in this run.
	if imp.catalog.Contains(movie) || containsSame(*added, movie) {
		outcome.Ignored = append(outcome.Ignored, IgnoredRecord{Title: movie.Title, Reason: "already in catalog"})
		metrics.ImportRecords.WithLabelValues("ignored").Inc()
		return nil
	}

	if imp.enricher != nil {
		if err := imp.enricher.Enrich(ctx, movie); err != nil {
			outcome.Failed = append(outcome.Failed, FailedRecord{Title: movie.Title, Err: err.Error()})
			metrics.ImportRecords.WithLabelValues("failed").Inc()
			return nil
		}
	}

	if err := imp.catalog.Add(ctx, movie); err != nil {
		logging.Warn().Err(err).Str("title", movie.Title).Msg("Import record persist failed")
		outcome.Failed = append(outcome.Failed, FailedRecord{Title: movie.Title, Err: err.Error()})
		metrics.ImportRecords.WithLabelValues("failed").Inc()
		return nil
	}

	*added = append(*added, movie)
	outcome.Added = append(outcome.Added, movie.Title)
	metrics.ImportRecords.WithLabelValues("added").Inc()
	return nil
}

// stopRequested reports whether the run should stop before the next record,
// either via Cancel or via context cancellation.
func (imp *Importer) stopRequested(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	imp.mu.Lock()
	defer imp.mu.Unlock()
	return imp.cancelled
}

func (imp *Importer) setCurrent(n int) {
	imp.mu.Lock()
	imp.current = n
	imp.mu.Unlock()
}

// recordResult logs the run, updates metrics for the unprocessed tail, and
// persists the summary when a tracker is configured.
func (imp *Importer) recordResult(outcome *Outcome, start time.Time) {
	metrics.ImportRecords.WithLabelValues("unprocessed").Add(float64(len(outcome.Unprocessed)))

	imp.mu.Lock()
	cancelled := imp.cancelled
	imp.mu.Unlock()

	logging.Info().
		Int("total", outcome.Total).
		Int("added", len(outcome.Added)).
		Int("ignored", len(outcome.Ignored)).
		Int("invalid", len(outcome.Invalid)).
		Int("failed", len(outcome.Failed)).
		Int("unprocessed", len(outcome.Unprocessed)).
		Bool("cancelled", cancelled).
		Dur("duration", time.Since(start)).
		Msg("Import finished")

	if imp.progress != nil {
		record := ProgressRecord{
			StartedAt:   start,
			FinishedAt:  time.Now(),
			Total:       outcome.Total,
			Added:       len(outcome.Added),
			Ignored:     len(outcome.Ignored),
			Invalid:     len(outcome.Invalid),
			Failed:      len(outcome.Failed),
			Unprocessed: len(outcome.Unprocessed),
			Cancelled:   cancelled,
		}
		if err := imp.progress.Save(record); err != nil {
			logging.Warn().Err(err).Msg("Failed to persist import summary")
		}
	}
}

func containsSame(movies []*models.Movie, candidate *models.Movie) bool {
	for _, m := range movies {
		if m.IsSame(candidate) {
			return true
		}
	}
	return false
}
