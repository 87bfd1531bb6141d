// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package models

import (
	"time"
)

// DeviceDiagnostics explains how a single serial number resolves across the
// SmartOLT feeds. Raw records are kept as decoded so every upstream field is
// visible.
type DeviceDiagnostics struct {
	RequestedSN string            `json:"requested_sn"`
	Timestamp   time.Time         `json:"timestamp"`
	Resolution  ResolutionSummary `json:"logic_test"`
	Summary     FeedPresence      `json:"debug_summary"`
	Raw         RawFeedRecords    `json:"raw_data"`
	Stored      *StoredOnu        `json:"stored_record,omitempty"`
}

// ResolutionSummary is the coordinate the dashboard would use for the device.
type ResolutionSummary struct {
	Lat          float64     `json:"resolved_lat"`
	Lng          float64     `json:"resolved_lng"`
	Method       string      `json:"method"`
	DetailHasLat bool        `json:"detail_has_lat"`
	DetailHasLng bool        `json:"detail_has_lng"`
	LatValue     interface{} `json:"lat_value,omitempty"`
}

// FeedPresence records which feeds contained the serial number.
type FeedPresence struct {
	FoundInDetails  bool `json:"found_in_details"`
	FoundInGPS      bool `json:"found_in_gps_endpoint"`
	FoundInStatuses bool `json:"found_in_statuses"`
}

// RawFeedRecords holds the matching record from each feed, or nil.
type RawFeedRecords struct {
	Detail interface{} `json:"detail_endpoint"`
	GPS    interface{} `json:"gps_endpoint"`
	Status interface{} `json:"status_endpoint"`
}
