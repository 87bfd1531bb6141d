// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

// Package middleware provides HTTP instrumentation shared by the API router.
//
// PrometheusMetrics records api_requests_total, api_request_duration_seconds
// and api_active_requests, labelled by method, chi route pattern and status.
// Requests that match no route are labelled "unmatched".
//
// CORS, rate limiting, request ids and panic recovery come from the chi
// ecosystem and are wired in internal/api.
package middleware
