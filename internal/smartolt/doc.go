// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package smartolt fetches ONU data from the SmartOLT FTTH management API and
reconciles it into one record per device.

SmartOLT exposes the same devices through several feeds that disagree about
freshness and completeness:

	Feed          Endpoint                                   Limit      Cache
	statuses      /api/onu/get_onus_statuses                 none       live
	unconfigured  /api/onu/unconfigured_onus                 none       live
	details       /api/onu/get_all_onus_details              3/hour     20 min
	zones         /api/system/get_zones                      -          30 min
	gps           /api/onu/get_all_onus_gps_coordinates      3/hour     20 min

The serial number is the join key across all of them.

# Components

  - Client: fail-soft fetches with per-feed caching, circuit breaker and quota guard
  - Resolver: GPS fix, else detail coordinates, else SeededOffset around the map center
  - Engine: Reconcile merges the feeds; Diagnose explains a single serial
  - Merge: the pure merge step, usable without any I/O

# Usage

	c := cache.New()
	client := smartolt.NewClient(&cfg.SmartOLT, c)
	engine := smartolt.NewEngine(client, smartolt.Point{Lat: -6.2088, Lng: 106.8456}, smartolt.DefaultOffsetRadiusKm)

	devices := engine.Reconcile(ctx)

# Failure Semantics

No feed failure is fatal. Missing credentials, transport errors, non-2xx
responses and "status": false bodies all become empty feeds at the Client
boundary and are logged there. The merge then falls back field by field:
serial for name, "OLT-<id>" and "Zone-<id>" labels, and a deterministic
synthetic coordinate, so every emitted device has a position.
*/
package smartolt
