// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package models

import (
	"time"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status           string       `json:"status"`
	Mode             string       `json:"mode"` // "live" (SmartOLT configured) or "mock"
	Version          string       `json:"version"`
	StoreConnected   bool         `json:"store_connected"`
	StoredDevices    int          `json:"stored_devices"`
	SmartOLTBreaker  string       `json:"smartolt_breaker,omitempty"`
	FeedCache        *CacheHealth `json:"feed_cache,omitempty"`
	WebSocketClients int          `json:"websocket_clients"`
	LastSyncTime     *time.Time   `json:"last_sync_time,omitempty"`
	Uptime           float64      `json:"uptime_seconds"`
}

// CacheHealth summarizes the SmartOLT feed cache.
type CacheHealth struct {
	Keys      int64   `json:"keys"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate_percent"`
}
