// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package config provides layered configuration loading for Fibermap.

Configuration is assembled by Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Struct defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/fibermap/config.yaml)
 3. Environment variables, mapped explicitly by envTransformFunc

# Key Environment Variables

SmartOLT upstream:
  - SMARTOLT_BASE_URL, SMARTOLT_API_TOKEN: upstream credentials (both
    required for live data; absent credentials serve mock data)
  - SMARTOLT_TIMEOUT: per-request deadline (default 30s)
  - SMARTOLT_DETAILS_TTL / SMARTOLT_GPS_TTL / SMARTOLT_ZONES_TTL: cache
    lifetimes (20m / 20m / 30m)

Map:
  - NEXT_PUBLIC_MAP_CENTER_LAT / NEXT_PUBLIC_MAP_CENTER_LNG (or MAP_CENTER_*):
    anchor for synthetic coordinates (default -6.2088, 106.8456)
  - NEXT_PUBLIC_MAP_ZOOM, NEXT_PUBLIC_REFRESH_INTERVAL

Sync and security:
  - SYNC_INTERVAL: background store sync period, 0 disables
  - CRON_SECRET: shared secret accepted by /api/sync/smartolt
  - JWT_SECRET: HS256 key for admin bearer tokens
*/
package config
