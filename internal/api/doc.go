// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package api provides the HTTP surface of the Fibermap service.

Routes:

	GET /api/dashboard        reconciled devices, stats and map config (mock fallback)
	GET /api/onus             synced devices with coordinates, by name
	GET /api/debug-onu?sn=    coordinate diagnostics for one serial
	GET /api/sync/smartolt    manual sync (admin token or ?secret=CRON_SECRET)
	GET /api/health           health summary
	GET /api/health/live      liveness probe
	GET /api/health/ready     readiness probe (device store)
	GET /api/ws               websocket (dashboard_updated, sync_completed)
	GET /metrics              Prometheus

Response Format:

The dashboard, onus, sync and debug payloads keep the shapes the map client
already reads and are not wrapped. Health responses and all errors use the
models.APIResponse envelope:

	{
	  "status": "error",
	  "error": {"code": "UNAUTHORIZED", "message": "Unauthorized"},
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "..."}
	}

Middleware:

Every request gets an X-Request-ID, real-IP extraction, panic recovery,
Prometheus instrumentation and CORS. Per-IP limits (go-chi/httprate) are
tighter on sync, diagnostics and websocket upgrades; the sync route is the
one that spends SmartOLT quota.
*/
package api
