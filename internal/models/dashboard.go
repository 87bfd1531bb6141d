// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package models

import (
	"time"
)

// DashboardStats counts devices per status.
type DashboardStats struct {
	Total        int `json:"total"`
	Online       int `json:"online"`
	LOS          int `json:"los"`
	Offline      int `json:"offline"`
	PowerFail    int `json:"powerFail"`
	Unconfigured int `json:"unconfigured"`
}

// Add counts one device with the given status.
func (s *DashboardStats) Add(status DeviceStatus) {
	s.Total++
	switch status {
	case StatusOnline:
		s.Online++
	case StatusLOS:
		s.LOS++
	case StatusOffline:
		s.Offline++
	case StatusPowerFail:
		s.PowerFail++
	case StatusUnconfigured:
		s.Unconfigured++
	}
}

// ComputeStats aggregates per-status counts for a device list.
func ComputeStats(onus []DashboardOnu) DashboardStats {
	var stats DashboardStats
	for i := range onus {
		stats.Add(onus[i].Status)
	}
	return stats
}

// MapConfig is the client map configuration. RefreshInterval is in milliseconds.
type MapConfig struct {
	CenterLat       float64 `json:"centerLat"`
	CenterLng       float64 `json:"centerLng"`
	Zoom            int     `json:"zoom"`
	RefreshInterval int     `json:"refreshInterval"`
}

// DashboardResponse is the payload of GET /api/dashboard.
type DashboardResponse struct {
	Onus      []DashboardOnu `json:"onus"`
	Stats     DashboardStats `json:"stats"`
	MapConfig MapConfig      `json:"mapConfig"`
	Timestamp time.Time      `json:"timestamp"`
	IsMock    bool           `json:"isMock"`
}

// SyncResult is the payload of a successful GET /api/sync/smartolt.
type SyncResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SyncedCount  int    `json:"syncedCount"`
	CacheCleared bool   `json:"cacheCleared,omitempty"`
}

// BuildDashboard assembles the dashboard payload. A nil device list is
// returned as an empty array.
func BuildDashboard(onus []DashboardOnu, isMock bool, mapConfig MapConfig, now time.Time) DashboardResponse {
	if onus == nil {
		onus = []DashboardOnu{}
	}
	return DashboardResponse{
		Onus:      onus,
		Stats:     ComputeStats(onus),
		MapConfig: mapConfig,
		Timestamp: now.UTC(),
		IsMock:    isMock,
	}
}
