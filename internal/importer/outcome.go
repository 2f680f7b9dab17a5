// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package importer

import (
	"errors"
	"strings"
)

// RawRecord is one externally-sourced candidate record, an opaque payload
// interpreted by the active format handler.
type RawRecord []byte

// IgnoredRecord is a benign skip with a human-readable reason.
type IgnoredRecord struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// InvalidRecord failed validation with one or more reasons.
type InvalidRecord struct {
	Title   string   `json:"title"`
	Reasons []string `json:"reasons"`
}

// FailedRecord hit an unexpected error during parse, enrichment, or persist.
type FailedRecord struct {
	Title string `json:"title"`
	Err   string `json:"error"`
}

// Outcome is the completed import log: four disjoint buckets plus the
// unprocessed tail left behind by cancellation. For every finished run,
// len(Added)+len(Ignored)+len(Invalid)+len(Failed)+len(Unprocessed) == Total.
type Outcome struct {
	Total       int             `json:"total"`
	Added       []string        `json:"added"`
	Ignored     []IgnoredRecord `json:"ignored"`
	Invalid     []InvalidRecord `json:"invalid"`
	Failed      []FailedRecord  `json:"failed"`
	Unprocessed []RawRecord     `json:"unprocessed"`
}

// Processed returns the number of records that reached a bucket.
func (o *Outcome) Processed() int {
	return len(o.Added) + len(o.Ignored) + len(o.Invalid) + len(o.Failed)
}

// Balanced reports whether the bucket invariant holds.
func (o *Outcome) Balanced() bool {
	return o.Processed()+len(o.Unprocessed) == o.Total
}

// ValidationError classifies a record that failed the active format's
// validator. Unsuitable marks the benign case (the record is well-formed but
// not importable, e.g. not a movie); everything else is a generic validation
// failure.
type ValidationError struct {
	Title      string
	Reasons    []string
	Unsuitable bool
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// Reason returns the first reason, for single-line ignore logging.
func (e *ValidationError) Reason() string {
	if len(e.Reasons) == 0 {
		return "unsuitable record"
	}
	return e.Reasons[0]
}

// ErrImportInProgress rejects a second Run while one is active.
var ErrImportInProgress = errors.New("import already in progress")

// ErrUnknownFormat rejects a Run with an unregistered format tag.
var ErrUnknownFormat = errors.New("unknown import format")
