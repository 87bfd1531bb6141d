// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package smartolt

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// quotaGuard enforces the per-hour call budget SmartOLT applies to its
// rate-limited endpoints. Each request path (including the olt_id query of
// per-OLT GPS calls) gets its own token bucket, refilled evenly across the
// hour with a burst equal to the hourly budget.
//
// The feed cache normally keeps calls well under the budget; the guard only
// matters after a cache Clear or with many concurrent cold starts, where it
// stops Fibermap from burning the account's quota.
type quotaGuard struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// newQuotaGuard returns nil when perHour <= 0, which disables the guard.
func newQuotaGuard(perHour int) *quotaGuard {
	if perHour <= 0 {
		return nil
	}
	return &quotaGuard{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Hour / time.Duration(perHour)),
		burst:    perHour,
	}
}

// Allow consumes one call from the budget for path.
func (q *quotaGuard) Allow(path string) bool {
	if q == nil {
		return true
	}

	q.mu.Lock()
	limiter, ok := q.limiters[path]
	if !ok {
		limiter = rate.NewLimiter(q.limit, q.burst)
		q.limiters[path] = limiter
	}
	q.mu.Unlock()

	return limiter.Allow()
}
