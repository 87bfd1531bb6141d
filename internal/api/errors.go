// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

// Error codes for API responses
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeSyncFailed         = "SYNC_ERROR"
	ErrCodeStore              = "STORE_ERROR"
	ErrCodeDashboard          = "DASHBOARD_ERROR"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
