// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package metrics provides Prometheus metrics collection for observability.
//
// Collectors are registered via promauto at package load and exported in
// Prometheus text format at the status API's /metrics endpoint. Instrumented
// concerns: pod transport, document cache, catalog resolution, parallel
// catalog loading, and the import pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pod transport metrics
	PodRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pod_requests_total",
			Help: "Total number of pod document requests",
		},
		[]string{"method", "status"},
	)

	PodRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pod_request_duration_seconds",
			Help:    "Pod request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Document cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_cache_hits_total",
			Help: "Total number of document cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_cache_misses_total",
			Help: "Total number of document cache misses",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_cache_invalidations_total",
			Help: "Total number of explicit document cache invalidations",
		},
		[]string{"cache_type"},
	)

	// Catalog resolution metrics
	ResolverLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_lookups_total",
			Help: "Total number of container resolution attempts",
		},
		[]string{"result"}, // "memoized", "found", "not_found", "error"
	)

	ContainersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_containers_created_total",
			Help: "Total number of media containers provisioned",
		},
	)

	// Parallel loader metrics
	LoaderDocumentsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loader_documents_loaded_total",
			Help: "Total number of catalog documents loaded",
		},
		[]string{"kind"}, // "container", "movie"
	)

	LoaderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loader_catalog_load_duration_seconds",
			Help:    "Full catalog load duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	LoaderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loader_errors_total",
			Help: "Total number of catalog load failures",
		},
		[]string{"error_type"}, // "unauthorized", "malformed_document", "other"
	)

	// Import pipeline metrics
	ImportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_records_total",
			Help: "Total number of import records by outcome bucket",
		},
		[]string{"bucket"}, // "added", "ignored", "invalid", "failed", "unprocessed"
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "import_batch_duration_seconds",
			Help:    "Import batch duration in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	ImportRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "import_running",
			Help: "Whether an import batch is currently running (0 or 1)",
		},
	)
)
