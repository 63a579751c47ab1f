// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the orchestrator's actual surface: the HTTP/
// websocket API, the socket fabric, the session & transaction engine,
// the video queue, and the embedded event bus.

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Socket Fabric Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of connected devices (GM + player)",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of socket frames broadcast to rooms",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of inbound socket frames dispatched",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of websocket errors",
		},
		[]string{"error_type"},
	)

	// Session & Transaction Engine Metrics
	TransactionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_processed_total",
			Help: "Total number of scan transactions processed, by outcome",
		},
		[]string{"status"}, // accepted, rejected, duplicate
	)

	ScanProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scan_processing_duration_seconds",
			Help:    "Duration of a single scan's engine processing",
			Buckets: prometheus.DefBuckets,
		},
	)

	OfflineQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "offline_queue_depth",
			Help: "Current number of scans buffered while no session is active",
		},
	)

	SessionActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_active",
			Help: "Whether a game session is currently running (1) or not (0)",
		},
	)

	// Video Queue Metrics
	VideoQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_queue_depth",
			Help: "Current number of pending items in the video queue",
		},
	)

	VideoQueueDegraded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_queue_degraded",
			Help: "Whether the video queue is running without a reachable player (1) or not (0)",
		},
	)

	VideoConflictsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_conflicts_rejected_total",
			Help: "Total number of video enqueue attempts rejected because something was already playing",
		},
	)

	// Event Bus Metrics
	EventBusPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventbus_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"subject"},
	)

	EventBusPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventbus_publish_errors_total",
			Help: "Total number of domain event publish failures",
		},
	)

	// Circuit Breaker Metrics (external video player RPC)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records a completed HTTP API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request due to rate limiting.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordTransaction records a processed scan transaction's outcome.
func RecordTransaction(status string, duration time.Duration) {
	TransactionsProcessed.WithLabelValues(status).Inc()
	ScanProcessingDuration.Observe(duration.Seconds())
}

// RecordVideoConflict records a video enqueue attempt rejected by the arbiter.
func RecordVideoConflict() {
	VideoConflictsRejected.Inc()
}

// RecordEventPublished records a successful domain event publish.
func RecordEventPublished(subject string) {
	EventBusPublished.WithLabelValues(subject).Inc()
}

// RecordEventPublishError records a failed domain event publish.
func RecordEventPublishError() {
	EventBusPublishErrors.Inc()
}

// circuitStateValue maps a breaker state name to the gauge's numeric encoding.
func circuitStateValue(state string) float64 {
	switch state {
	case "open":
		return 2
	case "half-open":
		return 1
	default:
		return 0
	}
}

// RecordCircuitBreakerTransition records a state transition for a named breaker.
func RecordCircuitBreakerTransition(name, fromState, toState string) {
	CircuitBreakerTransitions.WithLabelValues(name, fromState, toState).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(circuitStateValue(toState))
}
