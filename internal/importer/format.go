// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/podtheca/podtheca/internal/models"
)

// Format tags an import source format.
type Format string

// FormatJSON is the native JSON export format.
const FormatJSON Format = "json"

// FormatHandler validates and parses raw records of one source format.
// Validate returns *ValidationError for classifiable failures; any other
// error is an infrastructure fault and propagates out of the pipeline.
type FormatHandler interface {
	Validate(raw RawRecord) error
	Parse(raw RawRecord) (*models.Movie, error)
}

// validate is the shared singleton; it caches struct metadata and is safe
// for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// jsonRecord is the wire shape of one native-format record.
type jsonRecord struct {
	Type        string `json:"type" validate:"required"`
	Title       string `json:"title" validate:"required,max=512"`
	Description string `json:"description" validate:"max=4096"`
	ReleaseDate string `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
	PosterURL   string `json:"posterUrl" validate:"omitempty,url"`
	ExternalURL string `json:"externalUrl" validate:"omitempty,url"`
	WatchedAt   string `json:"watchedAt" validate:"omitempty"`
}

// jsonFormat handles FormatJSON.
type jsonFormat struct{}

// Validate classifies the raw record. Records that are valid but describe
// something other than a movie (series, episodes) are unsuitable, a benign
// skip; malformed payloads and tag violations are generic failures.
func (jsonFormat) Validate(raw RawRecord) error {
	var rec jsonRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return &ValidationError{Reasons: []string{fmt.Sprintf("not a JSON record: %v", err)}}
	}

	if err := validate.Struct(&rec); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			// Validator infrastructure fault, not a record problem.
			return fmt.Errorf("validator: %w", err)
		}
		reasons := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			reasons = append(reasons, fmt.Sprintf("field %s fails %q", fe.Field(), fe.Tag()))
		}
		return &ValidationError{Title: rec.Title, Reasons: reasons}
	}

	if rec.Type != "movie" {
		return &ValidationError{
			Title:      rec.Title,
			Reasons:    []string{fmt.Sprintf("record type %q is not importable", rec.Type)},
			Unsuitable: true,
		}
	}
	return nil
}

// Parse maps a validated raw record into the domain movie. The document URL
// is left empty; the catalog mints it on persist.
func (jsonFormat) Parse(raw RawRecord) (*models.Movie, error) {
	var rec jsonRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	movie := &models.Movie{
		Title:       rec.Title,
		Description: rec.Description,
		PosterURL:   rec.PosterURL,
	}
	if rec.ReleaseDate != "" {
		t, err := time.Parse("2006-01-02", rec.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("parse release date: %w", err)
		}
		movie.ReleaseDate = t
	}
	if rec.ExternalURL != "" {
		movie.ExternalURLs = []string{rec.ExternalURL}
	}
	if rec.WatchedAt != "" {
		watched, err := time.Parse(time.RFC3339, rec.WatchedAt)
		if err != nil {
			return nil, fmt.Errorf("parse watched date: %w", err)
		}
		movie.Actions = []models.WatchAction{{StartTime: watched}}
	}
	return movie, nil
}

// defaultFormats registers the built-in handlers.
func defaultFormats() map[Format]FormatHandler {
	return map[Format]FormatHandler{
		FormatJSON: jsonFormat{},
	}
}
