// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package smartolt

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/fibermap/internal/cache"
	"github.com/tomtom215/fibermap/internal/config"
)

const testToken = "test-token"

// testCenter is the default Jakarta map center.
var testCenter = Point{Lat: -6.2088, Lng: 106.8456}

// testClock is a manually advanced time source for the feed cache.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeUpstream is an httptest SmartOLT. Routes are keyed by path, or by
// path plus "?" plus raw query for per-OLT GPS calls. Unknown routes answer 404.
type fakeUpstream struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	routes map[string]fakeRoute
	calls  map[string]int
}

type fakeRoute struct {
	status int
	body   string
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{
		t:      t,
		routes: make(map[string]fakeRoute),
		calls:  make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	f.mu.Lock()
	f.calls[key]++
	route, ok := f.routes[key]
	f.mu.Unlock()

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("X-Token") != testToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.status)
	_, _ = w.Write([]byte(route.body))
}

// respond registers a JSON body for key with HTTP 200.
func (f *fakeUpstream) respond(key, body string) {
	f.respondStatus(key, http.StatusOK, body)
}

func (f *fakeUpstream) respondStatus(key string, status int, body string) {
	f.mu.Lock()
	f.routes[key] = fakeRoute{status: status, body: body}
	f.mu.Unlock()
}

// callCount returns how many requests hit key.
func (f *fakeUpstream) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

// emptyFeeds registers successful empty responses for every feed.
func (f *fakeUpstream) emptyFeeds() {
	f.respond(PathStatuses, `{"status":true,"response":[]}`)
	f.respond(PathUnconfigured, `{"status":true,"response":[]}`)
	f.respond(PathDetails, `{"status":true,"onus":[]}`)
	f.respond(PathZones, `{"status":true,"response":[]}`)
	f.respond(PathCoordinates, `{"status":true,"onus":[]}`)
}

func testSmartOLTConfig(baseURL string) *config.SmartOLTConfig {
	return &config.SmartOLTConfig{
		BaseURL:      baseURL,
		APIToken:     testToken,
		Timeout:      5 * time.Second,
		DetailsTTL:   20 * time.Minute,
		ZonesTTL:     30 * time.Minute,
		GPSTTL:       20 * time.Minute,
		QuotaPerHour: 0,
	}
}

// newTestClient returns a client against f with an isolated cache on clock.
func newTestClient(t *testing.T, f *fakeUpstream, clock *testClock) (*Client, *cache.Cache) {
	t.Helper()
	c := cache.New(cache.WithClock(clock.Now))
	client := NewClient(testSmartOLTConfig(f.server.URL), c)
	client.retryBaseDelay = time.Millisecond
	return client, c
}
