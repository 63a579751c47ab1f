// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package metrics provides Prometheus metrics collection and export for the
orchestrator: the HTTP/websocket API surface, the session & transaction
engine, the video queue, and the embedded event bus.

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format via
promhttp.Handler(), wired in internal/api.Router.

# Available Metrics

HTTP API:
  - api_requests_total (counter): method, endpoint, status_code
  - api_request_duration_seconds (histogram): method, endpoint
  - api_active_requests (gauge)
  - api_rate_limit_hits_total (counter): endpoint

Socket fabric:
  - websocket_connections (gauge)
  - websocket_messages_sent_total / websocket_messages_received_total (counters)
  - websocket_errors_total (counter): error_type

Session & transaction engine:
  - transactions_processed_total (counter): status (accepted, rejected, duplicate)
  - scan_processing_duration_seconds (histogram)
  - offline_queue_depth (gauge)
  - session_active (gauge)

Video queue:
  - video_queue_depth (gauge)
  - video_queue_degraded (gauge)
  - video_conflicts_rejected_total (counter)

Event bus:
  - eventbus_published_total (counter): subject
  - eventbus_publish_errors_total (counter)

External player circuit breaker:
  - circuit_breaker_state (gauge): name
  - circuit_breaker_state_transitions_total (counter): name, from_state, to_state

System:
  - app_info (gauge): version, go_version
  - app_uptime_seconds (gauge)

# See Also

  - internal/middleware: the PrometheusMetrics HTTP middleware that calls
    RecordAPIRequest/TrackActiveRequest on every request
  - internal/session: RecordTransaction on every processed scan,
    SessionActive on every lifecycle transition
  - internal/video: VideoQueueDepth/VideoQueueDegraded on every queue
    mutation, RecordVideoConflict on a busy-player rejection
  - internal/wsfabric: WSConnections/WSMessagesSent/WSMessagesReceived/
    WSErrors on connect, disconnect, deliver, and read/write failure
  - internal/videoplayer: records circuit breaker transitions
  - internal/eventbus: records publish counters
*/
package metrics
