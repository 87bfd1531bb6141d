// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/fibermap/internal/models"
)

// Version is reported by the health endpoint. Set at build time with
// -ldflags "-X github.com/tomtom215/fibermap/internal/api.Version=...".
var Version = "dev"

// Health handles GET /api/health.
//
// Status is "healthy" when the store answers and the SmartOLT breaker is not
// open, else "degraded". The feed cache counters are included when a cache
// is wired. Mode is "live" with SmartOLT credentials and "mock"
// without.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storeConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	stored := 0
	if storeConnected {
		if n, err := h.store.Count(r.Context()); err == nil {
			stored = n
		}
	}

	var feedCache *models.CacheHealth
	if h.cache != nil {
		stats := h.cache.GetStats()
		feedCache = &models.CacheHealth{
			Keys:      stats.TotalKeys,
			Hits:      stats.Hits,
			Misses:    stats.Misses,
			Evictions: stats.Evictions,
			HitRate:   h.cache.HitRate(),
		}
	}

	mode := "mock"
	breaker := ""
	if h.upstream != nil {
		if h.upstream.Configured() {
			mode = "live"
		}
		breaker = h.upstream.BreakerState()
	}

	status := "healthy"
	if !storeConnected || breaker == "open" {
		status = "degraded"
	}

	var lastSyncPtr *time.Time
	if h.sync != nil {
		if lastSync := h.sync.LastSyncTime(); !lastSync.IsZero() {
			lastSyncPtr = &lastSync
		}
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:           status,
			Mode:             mode,
			Version:          Version,
			StoreConnected:   storeConnected,
			StoredDevices:    stored,
			SmartOLTBreaker:  breaker,
			FeedCache:        feedCache,
			WebSocketClients: clients,
			LastSyncTime:     lastSyncPtr,
			Uptime:           time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthLive handles liveness probes. It returns 200 while the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthReady handles readiness probes. It returns 503 until the device
// store answers; SmartOLT availability does not affect readiness because the
// dashboard falls back to mock data.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.store.Ping(r.Context()) != nil {
		respondRequestError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Device store is not ready", nil, nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"ready": true},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}
