// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package models defines the data structures shared by the reconciliation
engine, the device store and the HTTP API.

Model Categories:

1. Device Models:
  - DeviceStatus: Closed status set (Online, Power fail, LOS, Offline, Unconfigured)
  - DashboardOnu: One reconciled ONU with a guaranteed coordinate
  - StoredOnu: Persisted form with nullable signal, coordinates and last_online

2. Dashboard Models:
  - DashboardStats: Per-status counts
  - MapConfig: Client map center, zoom and refresh interval (ms)
  - DashboardResponse: GET /api/dashboard payload
  - SyncResult: GET /api/sync/smartolt payload

3. Diagnostics:
  - DeviceDiagnostics: Raw feed records and coordinate resolution for one serial

4. API Envelope:
  - APIResponse, Metadata, APIError: Health and error responses
  - HealthStatus: GET /api/health payload

JSON Field Naming:

Dashboard payloads keep the camelCase keys the map client reads (isMock,
mapConfig, powerFail). Stored devices use the snake_case column names of the
device table (zone_name, olt_name, last_online).
*/
package models
