// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package cache provides a thread-safe in-memory key/value store with per-entry TTL.

The cache keeps the rate-limited SmartOLT feeds (ONU details, zones, GPS
coordinates) between dashboard refreshes so the upstream quota of roughly
three calls per hour is never exceeded.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.Mutex)
  - Per-entry TTL via SetWithTTL; an entry is still served at its expiry instant
  - Lazy expiration on Get; no background goroutine
  - Explicit instances, so tests never share state
  - Clear for a forced refresh of every feed
  - Hit/miss/eviction statistics via GetStats and HitRate

# Usage Example

	c := cache.New()
	c.SetWithTTL("onu_details", details, 20*time.Minute)

	if v, ok := c.Get("onu_details"); ok {
	    details := v.([]smartolt.OnuDetail)
	    _ = details
	}

# Persistence

Entries are not persisted across restarts. Upstream feeds are re-fetchable at
the cost of quota.
*/
package cache
