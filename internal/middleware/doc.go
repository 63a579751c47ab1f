// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for compression, performance
monitoring, and Prometheus metrics integration. Request ID generation and
correlation-ID logging live in internal/api's chi_middleware.go, mounted
first in the chain; these components run after it.

Key Components:

  - Compression: Gzip compression for every response to a gzip-accepting client
  - Performance Monitor: Request latency tracking with percentile calculations
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

internal/api.Router.SetupChi mounts these in order:

	r.Use(RequestIDWithLogging())          // internal/api/chi_middleware.go
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())
	r.Use(router.chiMW.RateLimit())
	r.Use(APISecurityHeaders())
	r.Use(asChiMiddleware(middleware.PrometheusMetrics))
	r.Use(router.perf.Middleware)
	r.Use(asChiMiddleware(middleware.Compression))

Usage Example - Compression:

	import "github.com/tomtom215/cartographus/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/api/v1/data",
	    middleware.Compression(handler),
	)

	// Every response is compressed when the request carries
	// Accept-Encoding: gzip

Usage Example - Performance Monitoring:

	// Create performance monitor
	perfMon := middleware.NewPerformanceMonitor(1000)

	// Wrap handler (matches chi's func(http.Handler) http.Handler shape)
	r.Use(perfMon.Middleware)

	// Get performance statistics
	stats := perfMon.GetStats()

Performance Characteristics:

  - Compression: 70-90% size reduction for JSON (text/json mime types)
  - Compression overhead: ~1-2ms for typical responses
  - Metrics overhead: <0.1ms per request
  - Performance monitor: rolling window of recent requests under a mutex

Compression Details:

The compression middleware:
  - Compresses responses of any size; there is no threshold
  - Supports gzip encoding (Accept-Encoding: gzip)
  - Applies to every content type; responses are not filtered by mime type
  - Automatically sets Content-Encoding header
  - Skips websocket upgrade requests outright

Performance Monitor:

The performance monitor tracks:
  - Request count per endpoint (each request's status code is recorded; no error rate is computed)
  - Latency percentiles (p50, p95, p99)
  - Rolling window of maxMetrics most recent requests
  - Logs any request exceeding LogSlowRequests' threshold via internal/logging

Thread Safety:

All middleware components are thread-safe:
  - Compression uses per-request gzip writers from a sync.Pool
  - Performance monitor uses sync.RWMutex
  - Prometheus metrics use atomic operations

See Also:

  - internal/auth: Authentication middleware
  - internal/api: HTTP handlers wrapped by middleware, request-ID/CORS/rate-limit stack
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
