// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/fibermap/internal/auth"
	"github.com/tomtom215/fibermap/internal/metrics"
	"github.com/tomtom215/fibermap/internal/models"
)

func TestDashboard_Live(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	rec := doRequest(t, http.HandlerFunc(env.handler.Dashboard), httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}

	resp := decodeBody[models.DashboardResponse](t, rec)
	if resp.IsMock {
		t.Error("isMock = true for live data")
	}
	if len(resp.Onus) != 3 || resp.Onus[0].ID != "1" || resp.Onus[2].ID != "u-HWTC1" {
		t.Errorf("onus = %+v", resp.Onus)
	}
	want := models.DashboardStats{Total: 3, Online: 1, LOS: 1, Unconfigured: 1}
	if resp.Stats != want {
		t.Errorf("stats = %+v, want %+v", resp.Stats, want)
	}
	wantMap := models.MapConfig{CenterLat: -6.2088, CenterLng: 106.8456, Zoom: 12, RefreshInterval: 30000}
	if resp.MapConfig != wantMap {
		t.Errorf("mapConfig = %+v", resp.MapConfig)
	}
	if !resp.Timestamp.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", resp.Timestamp)
	}
}

func TestDashboard_MockFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		configured    bool
		devices       []models.DashboardOnu
		wantReconcile int
	}{
		{name: "no credentials", configured: false, devices: sampleDevices(), wantReconcile: 0},
		{name: "empty reconcile", configured: true, devices: nil, wantReconcile: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)
			env.upstream.configured = tt.configured
			env.engine.devices = tt.devices
			before := testutil.ToFloat64(metrics.DashboardMockServed)

			rec := doRequest(t, http.HandlerFunc(env.handler.Dashboard), httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}

			resp := decodeBody[models.DashboardResponse](t, rec)
			if !resp.IsMock {
				t.Error("isMock = false")
			}
			if len(resp.Onus) != 25 || resp.Stats.Total != 25 {
				t.Errorf("got %d devices (total %d), want 25", len(resp.Onus), resp.Stats.Total)
			}
			if resp.Onus[0].ID != "ONU-00001" {
				t.Errorf("first id = %q", resp.Onus[0].ID)
			}
			if env.engine.calls != tt.wantReconcile {
				t.Errorf("reconcile calls = %d, want %d", env.engine.calls, tt.wantReconcile)
			}
			if testutil.ToFloat64(metrics.DashboardMockServed)-before < 1 {
				t.Error("mock served counter not incremented")
			}
		})
	}
}

func TestDashboard_DefaultMockCount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	env.cfg.Map.MockDeviceCount = 0
	env.upstream.configured = false

	rec := doRequest(t, http.HandlerFunc(env.handler.Dashboard), httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	resp := decodeBody[models.DashboardResponse](t, rec)
	if len(resp.Onus) != 500 {
		t.Errorf("got %d devices, want 500", len(resp.Onus))
	}
}

func TestDashboard_CanceledRequest(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	env.engine.devices = nil
	env.engine.onCalled = func(context.Context) { cancel() }

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil).WithContext(ctx)
	rec := doRequest(t, http.HandlerFunc(env.handler.Dashboard), req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	resp := decodeBody[models.APIResponse](t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeDashboard || resp.Error.Message != "Failed to fetch dashboard data" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestOnus(t *testing.T) {
	t.Parallel()

	lat, lng := -6.2, 106.8
	env := newTestEnv(t, false)
	env.store.devices = []models.StoredOnu{
		{ID: "1", SN: "A", Name: "Alice", Status: models.StatusOnline, Latitude: &lat, Longitude: &lng},
	}

	rec := doRequest(t, http.HandlerFunc(env.handler.Onus), httptest.NewRequest(http.MethodGet, "/api/onus", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	onus := decodeBody[[]models.StoredOnu](t, rec)
	if len(onus) != 1 || onus[0].Name != "Alice" || *onus[0].Latitude != lat {
		t.Errorf("onus = %+v", onus)
	}
	if !strings.Contains(rec.Body.String(), `"signal":null`) {
		t.Errorf("body %s missing null signal", rec.Body.String())
	}
}

func TestOnus_EmptyAndError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	rec := doRequest(t, http.HandlerFunc(env.handler.Onus), httptest.NewRequest(http.MethodGet, "/api/onus", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty store: status %d body %s", rec.Code, rec.Body.String())
	}

	env.store.listErr = errStoreDown
	rec = doRequest(t, http.HandlerFunc(env.handler.Onus), httptest.NewRequest(http.MethodGet, "/api/onus", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	resp := decodeBody[models.APIResponse](t, rec)
	if resp.Status != "error" || resp.Error.Code != ErrCodeStore {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDebugOnu(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	rec := doRequest(t, http.HandlerFunc(env.handler.DebugOnu), httptest.NewRequest(http.MethodGet, "/api/debug-onu?sn=ZTEGC8A1B2C3", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.engine.diagSN != "ZTEGC8A1B2C3" {
		t.Errorf("diagnosed %q", env.engine.diagSN)
	}
	body := rec.Body.String()
	for _, key := range []string{`"requested_sn":"ZTEGC8A1B2C3"`, `"method":"GPS_ENDPOINT"`, `"found_in_gps_endpoint":true`} {
		if !strings.Contains(body, key) {
			t.Errorf("body %s missing %s", body, key)
		}
	}
}

func TestDebugOnu_StoredRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sn         string
		wantStored bool
	}{
		{name: "synced device", sn: "ZTEG00000001", wantStored: true},
		{name: "never synced", sn: "ZTEG99999999", wantStored: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)
			env.store.devices = []models.StoredOnu{{ID: "ZTEG00000001", SN: "ZTEG00000001", Name: "Alice"}}

			rec := doRequest(t, http.HandlerFunc(env.handler.DebugOnu), httptest.NewRequest(http.MethodGet, "/api/debug-onu?sn="+tt.sn, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			diag := decodeBody[models.DeviceDiagnostics](t, rec)
			if (diag.Stored != nil) != tt.wantStored {
				t.Fatalf("stored_record = %+v, want present=%v", diag.Stored, tt.wantStored)
			}
			if tt.wantStored && diag.Stored.Name != "Alice" {
				t.Errorf("stored_record = %+v", diag.Stored)
			}
		})
	}
}

func TestDebugOnu_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		wantHint bool
	}{
		{name: "missing", query: "", wantHint: true},
		{name: "empty", query: "?sn=", wantHint: true},
		{name: "whitespace", query: "?sn=ZTEG%201", wantHint: false},
		{name: "too long", query: "?sn=" + strings.Repeat("A", 65), wantHint: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)
			rec := doRequest(t, http.HandlerFunc(env.handler.DebugOnu), httptest.NewRequest(http.MethodGet, "/api/debug-onu"+tt.query, nil))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			resp := decodeBody[models.APIResponse](t, rec)
			if resp.Error == nil || resp.Error.Code != ErrCodeValidation {
				t.Fatalf("error = %+v", resp.Error)
			}
			_, hasHint := resp.Error.Details["hint"]
			if hasHint != tt.wantHint {
				t.Errorf("hint present = %v, want %v", hasHint, tt.wantHint)
			}
			if env.engine.diagSN != "" {
				t.Error("engine called for invalid request")
			}
		})
	}
}

func TestSyncSmartOLT_Authorization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		bearer     string
		wantStatus int
		wantRole   string
	}{
		{name: "no credentials", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", query: "?secret=nope", wantStatus: http.StatusUnauthorized},
		{name: "empty secret", query: "?secret=", wantStatus: http.StatusUnauthorized},
		{name: "cron secret", query: "?secret=" + testCronSecret, wantStatus: http.StatusOK, wantRole: auth.RoleCron},
		{name: "admin token", bearer: "ADMIN", wantStatus: http.StatusOK, wantRole: auth.RoleAdmin},
		{name: "user token", bearer: "USER", wantStatus: http.StatusUnauthorized},
		{name: "oversized secret", query: "?secret=" + strings.Repeat("x", 300), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)
			env.sync.synced = 3

			req := httptest.NewRequest(http.MethodGet, "/api/sync/smartolt"+tt.query, nil)
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+adminToken(t, tt.bearer))
			}
			rec := doRequest(t, http.HandlerFunc(env.handler.SyncSmartOLT), req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if env.sync.callCount() != 0 {
					t.Error("sync ran without authorization")
				}
				return
			}

			result := decodeBody[models.SyncResult](t, rec)
			want := models.SyncResult{Success: true, Message: "Sync completed successfully", SyncedCount: 3}
			if result != want {
				t.Errorf("result = %+v, want %+v", result, want)
			}
			if env.sync.caller == nil || env.sync.caller.Role != tt.wantRole {
				t.Errorf("caller = %v, want role %s", env.sync.caller, tt.wantRole)
			}
		})
	}
}

func TestSyncSmartOLT_Refresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		refresh     string
		wantStatus  int
		wantCleared bool
	}{
		{name: "no refresh keeps cached feeds", wantStatus: http.StatusOK},
		{name: "refresh=0 keeps cached feeds", refresh: "0", wantStatus: http.StatusOK},
		{name: "refresh=1 clears cached feeds", refresh: "1", wantStatus: http.StatusOK, wantCleared: true},
		{name: "refresh=true clears cached feeds", refresh: "true", wantStatus: http.StatusOK, wantCleared: true},
		{name: "unknown refresh value", refresh: "yes", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)
			env.sync.synced = 2
			env.cache.SetWithTTL("onu_details", []string{"cached"}, time.Hour)
			env.cache.SetWithTTL("zones", []string{"cached"}, time.Hour)

			target := "/api/sync/smartolt?secret=" + testCronSecret
			if tt.refresh != "" {
				target += "&refresh=" + tt.refresh
			}
			rec := doRequest(t, http.HandlerFunc(env.handler.SyncSmartOLT), httptest.NewRequest(http.MethodGet, target, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			wantKeys := 2
			if tt.wantCleared {
				wantKeys = 0
			}
			if n := env.cache.Len(); n != wantKeys {
				t.Errorf("cached keys = %d, want %d", n, wantKeys)
			}
			if tt.wantStatus != http.StatusOK {
				if env.sync.callCount() != 0 {
					t.Error("sync ran for invalid request")
				}
				return
			}
			if result := decodeBody[models.SyncResult](t, rec); result.CacheCleared != tt.wantCleared {
				t.Errorf("cacheCleared = %v, want %v", result.CacheCleared, tt.wantCleared)
			}
		})
	}
}

func TestSyncSmartOLT_Failure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	env.sync.err = errors.New("no devices returned from SmartOLT")

	rec := doRequest(t, http.HandlerFunc(env.handler.SyncSmartOLT), httptest.NewRequest(http.MethodGet, "/api/sync/smartolt?secret="+testCronSecret, nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	resp := decodeBody[models.APIResponse](t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeSyncFailed || resp.Error.Message != "Failed to sync with SmartOLT" {
		t.Fatalf("error = %+v", resp.Error)
	}
	if resp.Error.Details["details"] != "no devices returned from SmartOLT" {
		t.Errorf("details = %v", resp.Error.Details)
	}
}

type healthEnvelope struct {
	Status string              `json:"status"`
	Data   models.HealthStatus `json:"data"`
}

func TestHealth(t *testing.T) {
	t.Parallel()

	lastSync := time.Date(2026, 3, 1, 11, 55, 0, 0, time.UTC)
	tests := []struct {
		name       string
		configured bool
		breaker    string
		pingErr    error
		wantStatus string
		wantMode   string
	}{
		{name: "healthy live", configured: true, breaker: "closed", wantStatus: "healthy", wantMode: "live"},
		{name: "mock mode", configured: false, breaker: "closed", wantStatus: "healthy", wantMode: "mock"},
		{name: "breaker open", configured: true, breaker: "open", wantStatus: "degraded", wantMode: "live"},
		{name: "store down", configured: true, breaker: "closed", pingErr: errStoreDown, wantStatus: "degraded", wantMode: "live"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, false)
			env.upstream.configured = tt.configured
			env.upstream.breaker = tt.breaker
			env.store.pingErr = tt.pingErr
			env.sync.lastSync = lastSync

			rec := doRequest(t, http.HandlerFunc(env.handler.Health), httptest.NewRequest(http.MethodGet, "/api/health", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}

			resp := decodeBody[healthEnvelope](t, rec)
			if resp.Status != "success" {
				t.Errorf("envelope status = %q", resp.Status)
			}
			if resp.Data.Status != tt.wantStatus || resp.Data.Mode != tt.wantMode {
				t.Errorf("health = %s/%s, want %s/%s", resp.Data.Status, resp.Data.Mode, tt.wantStatus, tt.wantMode)
			}
			if resp.Data.StoreConnected != (tt.pingErr == nil) || resp.Data.SmartOLTBreaker != tt.breaker {
				t.Errorf("health = %+v", resp.Data)
			}
			if resp.Data.LastSyncTime == nil || !resp.Data.LastSyncTime.Equal(lastSync) {
				t.Errorf("last sync = %v", resp.Data.LastSyncTime)
			}
		})
	}
}

func TestHealth_StoreAndCacheCounters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	env.store.devices = []models.StoredOnu{{ID: "ZTEG00000001"}, {ID: "ZTEG00000002"}}
	env.cache.SetWithTTL("onu_details", []string{"a"}, time.Hour)
	env.cache.Get("onu_details")
	env.cache.Get("zones")

	rec := doRequest(t, http.HandlerFunc(env.handler.Health), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	resp := decodeBody[healthEnvelope](t, rec)

	if resp.Data.StoredDevices != 2 {
		t.Errorf("stored_devices = %d, want 2", resp.Data.StoredDevices)
	}
	fc := resp.Data.FeedCache
	if fc == nil {
		t.Fatal("feed_cache missing")
	}
	if fc.Keys != 1 || fc.Hits != 1 || fc.Misses != 1 || fc.HitRate != 50 {
		t.Errorf("feed_cache = %+v, want 1 key, 1 hit, 1 miss, 50%%", *fc)
	}
}

func TestHealth_NoCacheWired(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	h := NewHandler(Dependencies{Config: env.cfg, Store: env.store, Sync: env.sync})

	rec := doRequest(t, http.HandlerFunc(h.Health), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if strings.Contains(rec.Body.String(), "feed_cache") {
		t.Errorf("body %s reports a feed cache", rec.Body.String())
	}
}

func TestHealthLiveAndReady(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)

	rec := doRequest(t, http.HandlerFunc(env.handler.HealthLive), httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"alive":true`) {
		t.Errorf("live: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, http.HandlerFunc(env.handler.HealthReady), httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ready":true`) {
		t.Errorf("ready: %d %s", rec.Code, rec.Body.String())
	}

	env.store.pingErr = errStoreDown
	rec = doRequest(t, http.HandlerFunc(env.handler.HealthReady), httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready with store down: %d", rec.Code)
	}
}
