// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package metrics provides Prometheus metrics for Fibermap.

All collectors are registered on the default registry through promauto and
exposed at /metrics.

# Available Metrics

SmartOLT upstream:
  - smartolt_requests_total{feed, result}
  - smartolt_request_duration_seconds{feed}
  - smartolt_feed_records{feed}
  - cache_hits_total{cache_key}, cache_misses_total{cache_key}

Reconciliation:
  - reconcile_duration_seconds
  - reconcile_devices{status}
  - coordinate_resolutions_total{method}
  - dashboard_mock_served_total

Store, API, sync, WebSocket, circuit breaker:
  - store_operation_duration_seconds{operation}, store_operation_errors_total{operation}
  - api_requests_total{method, endpoint, status_code}, api_request_duration_seconds
  - sync_duration_seconds, sync_records_processed_total, sync_errors_total{error_type}
  - websocket_connections, websocket_messages_sent_total
  - circuit_breaker_state{name}: 0 closed, 1 half-open, 2 open
*/
package metrics
