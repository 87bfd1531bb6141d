// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package cache

import "time"

// Cacher is what the SmartOLT client needs from a cache. Tests give each
// client its own instance so feeds never leak between cases.
type Cacher interface {
	Get(key string) (interface{}, bool)
	SetWithTTL(key string, value interface{}, ttl time.Duration)
}

var _ Cacher = (*Cache)(nil)
