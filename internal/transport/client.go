// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package transport provides the authenticated fetch used for all pod
// document access.
//
// The engine itself imposes no timeouts or retries on document operations;
// this package owns that policy. Every request goes through a client-side
// rate limiter and a circuit breaker so a slow or failing pod cannot stall
// the whole application. Authentication failures are surfaced as
// ErrUnauthorized, distinguishable from other network errors; callers force
// re-authentication rather than retrying silently.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/podtheca/podtheca/internal/logging"
	"github.com/podtheca/podtheca/internal/metrics"
)

// ErrUnauthorized signals that the pod rejected the session credentials.
// Recovery is forcing re-authentication, never a silent retry.
var ErrUnauthorized = errors.New("pod session unauthorized")

// ErrNotFound signals that the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Response is the result of a pod fetch.
type Response struct {
	StatusCode int
	Body       []byte

	// Modified is the server-reported modification time (Last-Modified),
	// zero when the server did not report one.
	Modified time.Time
}

// Options control a single fetch.
type Options struct {
	// Method defaults to GET.
	Method string

	// Body is the request payload for PUT/POST/PATCH.
	Body []byte

	// ContentType is sent when Body is non-empty.
	ContentType string

	// Accept overrides the Accept header.
	Accept string
}

// Fetcher is the authenticated fetch contract consumed by the engine.
type Fetcher interface {
	Fetch(ctx context.Context, location string, opts Options) (*Response, error)
}

// Config holds transport configuration.
type Config struct {
	// Token is the bearer session token; empty means unauthenticated.
	Token string

	// Timeout is the per-request timeout. Default: 30s.
	Timeout time.Duration

	// RequestsPerSecond caps the client-side request rate. Default: 20.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size. Default: 10.
	Burst int
}

// Client implements Fetcher over HTTP with bearer-token authentication,
// a rate limiter, and a circuit breaker.
type Client struct {
	http    *http.Client
	token   string
	cb      *gobreaker.CircuitBreaker[*Response]
	limiter *rate.Limiter
}

// NewClient creates a pod transport client.
//
// Circuit breaker configuration follows the same policy as other remote
// integrations: opens after a 60% failure rate with at least 10 requests in
// a one-minute window, waits two minutes before probing with up to 3
// half-open requests. Authentication and not-found responses count as
// successes so an expired session cannot trip the breaker.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 20
	}
	if cfg.Burst == 0 {
		cfg.Burst = 10
	}

	const cbName = "pod-transport"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening pod transport circuit")
			}
			return shouldTrip
		},
		IsSuccessful: func(err error) bool {
			// Auth failures and missing documents are application
			// conditions, not pod outages.
			return err == nil || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		token:   cfg.Token,
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// Fetch performs one authenticated pod request.
func (c *Client) Fetch(ctx context.Context, location string, opts Options) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	resp, err := c.cb.Execute(func() (*Response, error) {
		return c.do(ctx, method, location, opts)
	})
	metrics.PodRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("pod transport unavailable: %w", err)
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, location string, opts Options) (*Response, error) {
	var body io.Reader
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, location, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if len(opts.Body) > 0 && opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		metrics.PodRequestsTotal.WithLabelValues(method, "network_error").Inc()
		return nil, fmt.Errorf("%s %s: %w", method, location, err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing response body")
		}
	}()

	metrics.PodRequestsTotal.WithLabelValues(method, strconv.Itoa(httpResp.StatusCode)).Inc()

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s %s: %w", method, location, ErrUnauthorized)
	case httpResp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, location, ErrNotFound)
	case httpResp.StatusCode >= 400:
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, location, httpResp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var modified time.Time
	if lm := httpResp.Header.Get("Last-Modified"); lm != "" {
		if parsed, perr := http.ParseTime(lm); perr == nil {
			modified = parsed
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       payload,
		Modified:   modified,
	}, nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return -1
	}
}
