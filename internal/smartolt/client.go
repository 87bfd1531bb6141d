// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
client.go - SmartOLT REST API client

Client Features:
  - X-Token authentication, GET only, JSON responses
  - One fetch operation per upstream feed with its own caching policy
  - Fail-soft: every Fetch* method absorbs errors, logs them, and returns an
    empty result; nothing is propagated to the reconciliation engine
  - Failed or self-declared unsuccessful responses are never cached, so the
    next call retries

Caching (keys shared with anything else holding the same cache.Cacher):
  - onu_details: 20 min, only when status is true and "onus" is present
  - zones: 30 min, whenever status is true (an empty list is cached too)
  - onu_coordinates: 20 min, only when at least one record was fetched
  - statuses and unconfigured ONUs are always live

Resilience Mechanisms:
  - Per-request deadline from the HTTP client timeout (default 30s)
  - Circuit breaker around every call (see circuit_breaker.go)
  - Hourly quota guard for the details and GPS endpoints (see quota.go)
  - HTTP 429 exponential backoff honoring Retry-After, within the timeout
*/

//nolint:staticcheck // File documentation, not package doc
package smartolt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fibermap/internal/cache"
	"github.com/tomtom215/fibermap/internal/config"
	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/metrics"
)

// Upstream endpoint paths.
const (
	PathStatuses     = "/api/onu/get_onus_statuses"
	PathDetails      = "/api/onu/get_all_onus_details"
	PathZones        = "/api/system/get_zones"
	PathUnconfigured = "/api/onu/unconfigured_onus"
	PathCoordinates  = "/api/onu/get_all_onus_gps_coordinates"
)

// Cache keys for the cached feeds.
const (
	CacheKeyDetails     = "onu_details"
	CacheKeyZones       = "zones"
	CacheKeyCoordinates = "onu_coordinates"
)

// Feed names used in logs and metric labels.
const (
	feedStatuses       = "statuses"
	feedDetails        = "details"
	feedZones          = "zones"
	feedUnconfigured   = "unconfigured"
	feedCoordinates    = "gps"
	feedCoordinatesOLT = "gps_per_olt"
)

// maxErrorBodySize limits how much of an error response body is read (64KB)
const maxErrorBodySize = 64 * 1024

// ErrNotConfigured is returned internally when the base URL or token is missing.
var ErrNotConfigured = errors.New("smartolt: missing base URL or API token")

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Path string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("smartolt %s: HTTP %d: %s", e.Path, e.Code, e.Body)
}

// readBodyForError reads up to maxErrorBodySize bytes from an error response body.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client fetches the SmartOLT feeds.
//
// Slices returned from cached feeds are shared with the cache and must be
// treated as read-only.
type Client struct {
	baseURL    string
	apiToken   string
	client     *http.Client
	cache      cache.Cacher
	breaker    *circuitBreaker
	quota      *quotaGuard
	detailsTTL time.Duration
	zonesTTL   time.Duration
	gpsTTL     time.Duration

	maxRetries     int           // Maximum retries for HTTP 429
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

// NewClient creates a SmartOLT client backed by the given cache.
//
// The client is configured with:
//   - cfg.Timeout as the HTTP deadline for each request
//   - 3 maximum retries for HTTP 429
//   - 1-second base delay for exponential backoff
func NewClient(cfg *config.SmartOLTConfig, c cache.Cacher) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiToken: cfg.APIToken,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:          c,
		breaker:        newCircuitBreaker(breakerName),
		quota:          newQuotaGuard(cfg.QuotaPerHour),
		detailsTTL:     cfg.DetailsTTL,
		zonesTTL:       cfg.ZonesTTL,
		gpsTTL:         cfg.GPSTTL,
		maxRetries:     3,
		retryBaseDelay: time.Second,
	}
}

// Configured reports whether both the base URL and token are set.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiToken != ""
}

// BreakerState returns the circuit breaker state for health reporting.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// FetchStatuses returns every ONU status. Always live, never cached.
func (c *Client) FetchStatuses(ctx context.Context) []OnuStatus {
	var env responseEnvelope[OnuStatus]
	if !c.call(ctx, feedStatuses, PathStatuses, false, &env) {
		return nil
	}
	if !env.Status {
		logging.CtxWarn(ctx).Str("feed", feedStatuses).Msg("SmartOLT declared request unsuccessful")
		return nil
	}
	metrics.UpstreamRecords.WithLabelValues(feedStatuses).Set(float64(len(env.Response)))
	return env.Response
}

// FetchUnconfigured returns ONUs registered on an OLT but not yet configured.
// Always live, never cached.
func (c *Client) FetchUnconfigured(ctx context.Context) []UnconfiguredOnu {
	var env responseEnvelope[UnconfiguredOnu]
	if !c.call(ctx, feedUnconfigured, PathUnconfigured, false, &env) {
		return nil
	}
	if !env.Status {
		logging.CtxWarn(ctx).Str("feed", feedUnconfigured).Msg("SmartOLT declared request unsuccessful")
		return nil
	}
	metrics.UpstreamRecords.WithLabelValues(feedUnconfigured).Set(float64(len(env.Response)))
	return env.Response
}

// FetchDetails returns ONU details (names, OLT names, zone names).
// Cache-first; the endpoint allows about 3 calls per hour.
func (c *Client) FetchDetails(ctx context.Context) []OnuDetail {
	if cached, ok := cachedSlice[OnuDetail](c.cache, CacheKeyDetails); ok {
		logging.Debug().Int("count", len(cached)).Msg("Using cached ONU details")
		return cached
	}

	logging.CtxInfo(ctx).Msg("Fetching ONU details (rate-limited: 3/hour)")
	var env onusEnvelope[OnuDetail]
	if !c.call(ctx, feedDetails, PathDetails, true, &env) {
		return nil
	}
	if !env.Status || env.Onus == nil {
		logging.CtxWarn(ctx).Str("feed", feedDetails).Msg("get_all_onus_details returned no data")
		return nil
	}

	c.cache.SetWithTTL(CacheKeyDetails, env.Onus, c.detailsTTL)
	metrics.UpstreamRecords.WithLabelValues(feedDetails).Set(float64(len(env.Onus)))
	logging.CtxInfo(ctx).Int("count", len(env.Onus)).Dur("ttl", c.detailsTTL).Msg("Cached ONU details")
	return env.Onus
}

// FetchZones returns the zone id to name list. Cache-first.
func (c *Client) FetchZones(ctx context.Context) []Zone {
	if cached, ok := cachedSlice[Zone](c.cache, CacheKeyZones); ok {
		return cached
	}

	var env responseEnvelope[Zone]
	if !c.call(ctx, feedZones, PathZones, false, &env) {
		return nil
	}
	if !env.Status {
		logging.CtxWarn(ctx).Str("feed", feedZones).Msg("SmartOLT declared request unsuccessful")
		return nil
	}

	zones := env.Response
	if zones == nil {
		zones = []Zone{}
	}
	c.cache.SetWithTTL(CacheKeyZones, zones, c.zonesTTL)
	metrics.UpstreamRecords.WithLabelValues(feedZones).Set(float64(len(zones)))
	logging.CtxInfo(ctx).Int("count", len(zones)).Msg("Cached zones")
	return zones
}

// FetchCoordinates returns GPS coordinates. Cache-first.
//
// On a cache miss the bulk endpoint is tried first. When it yields no records
// (it answers 403 or empty for some account permission setups) and oltIDs is
// non-empty, each OLT is queried in turn and the results concatenated. The
// per-OLT calls are sequential so they do not trip the same limit. Only a
// non-empty result is cached.
func (c *Client) FetchCoordinates(ctx context.Context, oltIDs []string) []OnuCoordinate {
	return c.fetchCoordinates(ctx, oltIDs, true)
}

// FetchDeviceCoordinates is FetchCoordinates narrowed to the OLT one device
// hangs off. It reads the shared cache and caches a bulk result, but a
// per-OLT result covers a single OLT and is never cached.
func (c *Client) FetchDeviceCoordinates(ctx context.Context, oltID string) []OnuCoordinate {
	var oltIDs []string
	if oltID != "" {
		oltIDs = []string{oltID}
	}
	return c.fetchCoordinates(ctx, oltIDs, false)
}

func (c *Client) fetchCoordinates(ctx context.Context, oltIDs []string, cachePerOLT bool) []OnuCoordinate {
	if cached, ok := cachedSlice[OnuCoordinate](c.cache, CacheKeyCoordinates); ok {
		logging.Debug().Int("count", len(cached)).Msg("Using cached GPS coordinates")
		return cached
	}
	if !c.Configured() {
		c.warnNotConfigured(ctx, feedCoordinates)
		return nil
	}

	logging.CtxInfo(ctx).Msg("Fetching GPS coordinates (rate-limited: 3/hour)")
	var bulk onusEnvelope[OnuCoordinate]
	if c.call(ctx, feedCoordinates, PathCoordinates, true, &bulk) && bulk.Status && len(bulk.Onus) > 0 {
		c.cache.SetWithTTL(CacheKeyCoordinates, bulk.Onus, c.gpsTTL)
		metrics.UpstreamRecords.WithLabelValues(feedCoordinates).Set(float64(len(bulk.Onus)))
		logging.CtxInfo(ctx).Int("count", len(bulk.Onus)).Msg("Cached GPS coordinates")
		return bulk.Onus
	}

	if len(oltIDs) == 0 {
		return nil
	}

	logging.CtxInfo(ctx).Int("olts", len(oltIDs)).Msg("Bulk GPS returned nothing, trying per-OLT")
	var all []OnuCoordinate
	for _, oltID := range oltIDs {
		if ctx.Err() != nil {
			break
		}
		var perOLT onusEnvelope[OnuCoordinate]
		path := PathCoordinates + "?olt_id=" + url.QueryEscape(oltID)
		if c.call(ctx, feedCoordinatesOLT, path, true, &perOLT) && perOLT.Status && perOLT.Onus != nil {
			all = append(all, perOLT.Onus...)
		}
	}

	if len(all) > 0 && cachePerOLT {
		c.cache.SetWithTTL(CacheKeyCoordinates, all, c.gpsTTL)
		metrics.UpstreamRecords.WithLabelValues(feedCoordinates).Set(float64(len(all)))
		logging.CtxInfo(ctx).Int("count", len(all)).Msg("Cached GPS coordinates (per-OLT fallback)")
	}
	return all
}

// call performs one GET and decodes a 2xx body into out. Every failure is
// logged and recorded here and reported as false. quotaLimited applies the
// hourly budget for rate-limited endpoints.
func (c *Client) call(ctx context.Context, feed, path string, quotaLimited bool, out interface{}) bool {
	if !c.Configured() {
		c.warnNotConfigured(ctx, feed)
		return false
	}
	if quotaLimited && !c.quota.Allow(path) {
		metrics.RecordUpstreamRequest(feed, "throttled", 0)
		logging.CtxWarn(ctx).Str("feed", feed).Str("path", path).Msg("SmartOLT hourly quota exhausted, skipping call")
		return false
	}

	start := time.Now()
	_, err := c.breaker.execute(func() (interface{}, error) {
		return nil, c.getJSON(ctx, path, out)
	})
	duration := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordUpstreamRequest(feed, "success", duration)
		return true
	case isRejected(err):
		metrics.RecordUpstreamRequest(feed, "rejected", 0)
	default:
		metrics.RecordUpstreamRequest(feed, "error", duration)
	}
	logging.CtxErr(ctx, err).Str("feed", feed).Str("path", path).Msg("SmartOLT request failed")
	return false
}

func (c *Client) warnNotConfigured(ctx context.Context, feed string) {
	metrics.RecordUpstreamRequest(feed, "unconfigured", 0)
	logging.CtxWarn(ctx).Str("feed", feed).Msg("Missing SMARTOLT_BASE_URL or SMARTOLT_API_TOKEN")
}

// getJSON issues the request and decodes a 2xx response. The HTTP client
// timeout bounds the whole exchange, 429 backoff included.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	if c.client.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.client.Timeout)
		defer cancel()
	}

	resp, err := c.doRequestWithRateLimit(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Path: path, Body: string(readBodyForError(resp.Body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// doRequestWithRateLimit performs a GET with automatic HTTP 429 handling.
// Backoff is exponential from retryBaseDelay unless Retry-After (seconds) is given.
// When the backoff would outlast the context deadline the 429 is returned as is.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("X-Token", c.apiToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Cache-Control", "no-store")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt == c.maxRetries {
			return resp, nil
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
			return resp, nil
		}
		_ = resp.Body.Close()

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// cachedSlice returns a cached feed and records the lookup.
func cachedSlice[T any](c cache.Cacher, key string) ([]T, bool) {
	v, ok := c.Get(key)
	if ok {
		if typed, isSlice := v.([]T); isSlice {
			metrics.RecordCacheLookup(key, true)
			return typed, true
		}
	}
	metrics.RecordCacheLookup(key, false)
	return nil, false
}
