// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/podtheca/podtheca/internal/importer"
	"github.com/podtheca/podtheca/internal/logging"
)

// DocumentDenylist is the denylist surface the API manages.
type DocumentDenylist interface {
	Add(location string) error
	Remove(location string) error
	List() ([]string, error)
}

// Handler serves the engine's HTTP endpoints.
type Handler struct {
	importer *importer.Importer
	denylist DocumentDenylist
	progress *importer.ProgressTracker
	maxBatch int
}

// NewHandler wires the handler. progress may be nil.
func NewHandler(imp *importer.Importer, denylist DocumentDenylist, progress *importer.ProgressTracker, maxBatch int) *Handler {
	return &Handler{importer: imp, denylist: denylist, progress: progress, maxBatch: maxBatch}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// importRequest is the POST /api/v1/import body.
type importRequest struct {
	Format  string            `json:"format"`
	Records []json.RawMessage `json:"records"`
}

// ImportRun runs an import synchronously and returns the outcome buckets.
func (h *Handler) ImportRun(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if h.maxBatch > 0 && len(req.Records) > h.maxBatch {
		writeError(w, http.StatusRequestEntityTooLarge, "batch exceeds configured maximum")
		return
	}

	records := make([]importer.RawRecord, len(req.Records))
	for i, raw := range req.Records {
		records[i] = importer.RawRecord(raw)
	}

	outcome, err := h.importer.Run(r.Context(), records, importer.Format(req.Format))
	switch {
	case errors.Is(err, importer.ErrImportInProgress):
		writeError(w, http.StatusConflict, "an import is already running")
		return
	case errors.Is(err, importer.ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, "unknown import format")
		return
	case err != nil:
		logging.Error().Err(err).Msg("Import run failed")
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// importStatusResponse is the GET /api/v1/import/status body.
type importStatusResponse struct {
	importer.Status
	LastRun *importer.ProgressRecord `json:"lastRun,omitempty"`
}

// ImportStatus reports the active run's progress and the last finished run.
func (h *Handler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	resp := importStatusResponse{Status: h.importer.Status()}
	if h.progress != nil {
		last, err := h.progress.Last()
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to read last import summary")
		} else {
			resp.LastRun = last
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ImportCancel requests cancellation of the active run.
func (h *Handler) ImportCancel(w http.ResponseWriter, r *http.Request) {
	h.importer.Cancel()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancellation requested"})
}

// IgnoredList returns the denylisted document locations.
func (h *Handler) IgnoredList(w http.ResponseWriter, r *http.Request) {
	locations, err := h.denylist.List()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list denylist")
		writeError(w, http.StatusInternalServerError, "denylist unavailable")
		return
	}
	if locations == nil {
		locations = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"documents": locations})
}

// denylistRequest carries one document location.
type denylistRequest struct {
	Location string `json:"location"`
}

// IgnoredAdd denylists a document so future loads skip it.
func (h *Handler) IgnoredAdd(w http.ResponseWriter, r *http.Request) {
	var req denylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Location == "" {
		writeError(w, http.StatusBadRequest, "location required")
		return
	}
	if err := h.denylist.Add(req.Location); err != nil {
		logging.Error().Err(err).Str("document", req.Location).Msg("Failed to denylist document")
		writeError(w, http.StatusInternalServerError, "denylist unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
}

// IgnoredRemove lifts the denylist entry named by the location query
// parameter.
func (h *Handler) IgnoredRemove(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "location query parameter required")
		return
	}
	if err := h.denylist.Remove(location); err != nil {
		logging.Error().Err(err).Str("document", location).Msg("Failed to remove denylist entry")
		writeError(w, http.StatusInternalServerError, "denylist unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
