// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package loader

import "github.com/podtheca/podtheca/internal/models"

// The worker and the consumer communicate exclusively through these message
// variants; no mutable state is shared across the boundary and every payload
// is a deep copy. The protocol for one run is: zero or more progress
// messages, then exactly one terminal doneMsg. A containerLoadedMsg always
// precedes any movieLoadedMsg; movie messages arrive in arbitrary order but
// each carries its full relations, so no partial record is observable.
type message interface {
	loaderMessage()
}

// unauthorizedMsg reports that the pod rejected the session mid-run.
type unauthorizedMsg struct{}

// containerLoadedMsg carries the hydrated container shell, member list known
// but movies not yet loaded.
type containerLoadedMsg struct {
	container *models.MediaContainer
}

// movieLoadedMsg carries one fully hydrated member record, watch actions
// included.
type movieLoadedMsg struct {
	movie models.Movie
}

// doneMsg terminates the run; err is nil on success.
type doneMsg struct {
	err error
}

func (unauthorizedMsg) loaderMessage()    {}
func (containerLoadedMsg) loaderMessage() {}
func (movieLoadedMsg) loaderMessage()     {}
func (doneMsg) loaderMessage()            {}
