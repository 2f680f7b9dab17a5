// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package api exposes the engine's status and control surface over HTTP:
// health, metrics, import control, and denylist management.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig tunes the global middleware stack.
type RouterConfig struct {
	CORSOrigins     []string
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// DefaultRouterConfig returns the middleware defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   100,
		RateLimitWindow: time.Minute,
	}
}

// NewRouter assembles the chi router over the handler.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitReqs > 0 {
			r.Use(httprate.Limit(cfg.RateLimitReqs, cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP)))
		}

		r.Route("/import", func(r chi.Router) {
			r.Post("/", h.ImportRun)
			r.Get("/status", h.ImportStatus)
			r.Post("/cancel", h.ImportCancel)
		})

		r.Route("/ignored", func(r chi.Router) {
			r.Get("/", h.IgnoredList)
			r.Post("/", h.IgnoredAdd)
			r.Delete("/", h.IgnoredRemove)
		})
	})

	return r
}
