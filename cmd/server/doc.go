// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Command server runs the fibermap backend: the SmartOLT reconciliation engine,
the dashboard API, the websocket hub and the periodic device store sync.

# Architecture

	fibermap
	├── data-layer
	│   └── store-gc          Badger value log GC
	├── messaging-layer
	│   ├── websocket-hub     dashboard_updated / sync_completed pushes
	│   └── sync-manager      SmartOLT → device store, every SYNC_INTERVAL
	└── api-layer
	    └── http-server       chi router, /api/* and /metrics

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Device store: BadgerDB, on disk or in memory
 4. SmartOLT client: feed cache, circuit breaker, quota guard
 5. Reconciliation engine and mock generator
 6. WebSocket hub and sync manager
 7. HTTP server and supervisor tree

# Configuration

	# SmartOLT (mock data is served while either is unset)
	SMARTOLT_BASE_URL=https://example.smartolt.com
	SMARTOLT_API_TOKEN=<token>
	SMARTOLT_QUOTA_PER_HOUR=3

	# Map (NEXT_PUBLIC_* names are accepted too)
	MAP_CENTER_LAT=-6.2088
	MAP_CENTER_LNG=106.8456
	MAP_ZOOM=12
	REFRESH_INTERVAL=30000
	MOCK_DEVICE_COUNT=500

	# Sync and store
	SYNC_INTERVAL=5m             # 0 = on-demand only
	STORE_PATH=/data/devices
	STORE_IN_MEMORY=false
	STORE_GC_INTERVAL=10m        # 0 = never

	# Sync authorization
	CRON_SECRET=<secret>         # ?secret= on /api/sync/smartolt
	JWT_SECRET=<secret>          # admin bearer tokens

	# Server
	HTTP_PORT=3000
	LOG_LEVEL=info
	LOG_FORMAT=json

A config file may be given with CONFIG_PATH; environment variables win.

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
HTTP_SHUTDOWN_TIMEOUT, an in-flight sync finishes, then the store is closed.
*/
package main
