// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package models

import (
	"time"
)

// DeviceStatus is the closed set of ONU states shown on the dashboard.
type DeviceStatus string

// Device states. The first four come from the SmartOLT status feed; Unconfigured
// is assigned to devices that only appear in the unconfigured feed.
const (
	StatusOnline       DeviceStatus = "Online"
	StatusPowerFail    DeviceStatus = "Power fail"
	StatusLOS          DeviceStatus = "LOS"
	StatusOffline      DeviceStatus = "Offline"
	StatusUnconfigured DeviceStatus = "Unconfigured"
)

// AllStatuses lists every DeviceStatus in display order.
var AllStatuses = []DeviceStatus{
	StatusOnline,
	StatusPowerFail,
	StatusLOS,
	StatusOffline,
	StatusUnconfigured,
}

// CoerceFeedStatus maps a raw status-feed value into the closed enumeration.
// Anything other than Online, Power fail, LOS or Offline becomes Offline,
// including "Unconfigured": that state is reserved for the unconfigured feed.
func CoerceFeedStatus(raw string) DeviceStatus {
	switch s := DeviceStatus(raw); s {
	case StatusOnline, StatusPowerFail, StatusLOS, StatusOffline:
		return s
	default:
		return StatusOffline
	}
}

// DashboardOnu is one reconciled ONU as served to the map.
//
// Every record carries a usable coordinate: either a GPS fix or a
// deterministic synthetic position around the map center.
type DashboardOnu struct {
	ID      string       `json:"id"`
	SN      string       `json:"sn"`
	Name    string       `json:"name"`
	Status  DeviceStatus `json:"status"`
	Lat     float64      `json:"lat"`
	Lng     float64      `json:"lng"`
	OLTName string       `json:"olt_name"`
	Zone    string       `json:"zone"`
	Board   string       `json:"board,omitempty"`
	Port    string       `json:"port,omitempty"`
}

// StoredOnu is the persisted form of a DashboardOnu, keyed by ID.
type StoredOnu struct {
	ID         string       `json:"id"`
	SN         string       `json:"sn"`
	Name       string       `json:"name"`
	ZoneName   string       `json:"zone_name"`
	OLTName    string       `json:"olt_name"`
	Status     DeviceStatus `json:"status"`
	Signal     *float64     `json:"signal"`
	Latitude   *float64     `json:"latitude"`
	Longitude  *float64     `json:"longitude"`
	LastOnline *time.Time   `json:"last_online"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (s *StoredOnu) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// NewStoredOnu converts a reconciled device into its stored form, stamping
// last_online with seenAt.
func NewStoredOnu(d DashboardOnu, seenAt time.Time) StoredOnu {
	lat, lng := d.Lat, d.Lng
	seen := seenAt
	return StoredOnu{
		ID:         d.ID,
		SN:         d.SN,
		Name:       d.Name,
		ZoneName:   d.Zone,
		OLTName:    d.OLTName,
		Status:     d.Status,
		Latitude:   &lat,
		Longitude:  &lng,
		LastOnline: &seen,
		UpdatedAt:  seenAt,
	}
}
