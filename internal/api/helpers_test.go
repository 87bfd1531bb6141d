// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fibermap/internal/auth"
	"github.com/tomtom215/fibermap/internal/cache"
	"github.com/tomtom215/fibermap/internal/config"
	"github.com/tomtom215/fibermap/internal/mock"
	"github.com/tomtom215/fibermap/internal/models"
	ws "github.com/tomtom215/fibermap/internal/websocket"
)

const (
	testJWTSecret  = "this_is_a_very_long_secret_key_with_32_plus_characters"
	testCronSecret = "cron-secret"
	testOrigin     = "http://localhost:3000"
)

type fakeEngine struct {
	mu       sync.Mutex
	devices  []models.DashboardOnu
	diagSN   string
	calls    int
	onCalled func(ctx context.Context)
}

func (f *fakeEngine) Reconcile(ctx context.Context) []models.DashboardOnu {
	f.mu.Lock()
	f.calls++
	hook := f.onCalled
	f.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	return f.devices
}

func (f *fakeEngine) Diagnose(_ context.Context, sn string) models.DeviceDiagnostics {
	f.mu.Lock()
	f.diagSN = sn
	f.mu.Unlock()
	return models.DeviceDiagnostics{
		RequestedSN: sn,
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Resolution:  models.ResolutionSummary{Lat: -6.1, Lng: 106.8, Method: "GPS_ENDPOINT"},
		Summary:     models.FeedPresence{FoundInGPS: true},
	}
}

type fakeUpstream struct {
	configured bool
	breaker    string
}

func (f *fakeUpstream) Configured() bool     { return f.configured }
func (f *fakeUpstream) BreakerState() string { return f.breaker }

type fakeStore struct {
	devices []models.StoredOnu
	listErr error
	pingErr error
}

func (f *fakeStore) List(context.Context) ([]models.StoredOnu, error) {
	return f.devices, f.listErr
}

func (f *fakeStore) Get(_ context.Context, id string) (*models.StoredOnu, error) {
	for i := range f.devices {
		if f.devices[i].ID == id {
			d := f.devices[i]
			return &d, nil
		}
	}
	return nil, errDeviceMissing
}

func (f *fakeStore) Count(context.Context) (int, error) {
	return len(f.devices), f.listErr
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

type fakeSync struct {
	mu       sync.Mutex
	synced   int
	err      error
	calls    int
	caller   *auth.Claims
	lastSync time.Time
}

func (f *fakeSync) TriggerSync(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.caller = auth.GetClaims(ctx)
	return f.synced, f.err
}

func (f *fakeSync) LastSyncTime() time.Time { return f.lastSync }

func (f *fakeSync) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var (
	errStoreDown     = errors.New("store is closed")
	errDeviceMissing = errors.New("device not found")
)

func testConfig() *config.Config {
	return &config.Config{
		Map: config.MapConfig{
			CenterLat:       -6.2088,
			CenterLng:       106.8456,
			Zoom:            12,
			RefreshInterval: 30000,
			OffsetRadiusKm:  12,
			MockDeviceCount: 25,
		},
		Security: config.SecurityConfig{
			CronSecret:        testCronSecret,
			JWTSecret:         testJWTSecret,
			CORSOrigins:       []string{testOrigin},
			RateLimitDisabled: true,
		},
	}
}

type testEnv struct {
	cfg      *config.Config
	engine   *fakeEngine
	upstream *fakeUpstream
	store    *fakeStore
	cache    *cache.Cache
	sync     *fakeSync
	hub      *ws.Hub
	handler  *Handler
}

func sampleDevices() []models.DashboardOnu {
	return []models.DashboardOnu{
		{ID: "1", SN: "ZTEG00000001", Name: "Alice", Status: models.StatusOnline, Lat: -6.2, Lng: 106.8, OLTName: "OLT-1", Zone: "North"},
		{ID: "2", SN: "ZTEG00000002", Name: "Bob", Status: models.StatusLOS, Lat: -6.3, Lng: 106.9, OLTName: "OLT-1", Zone: "North"},
		{ID: "u-HWTC1", SN: "HWTC1", Name: "HWTC1", Status: models.StatusUnconfigured, Lat: -6.21, Lng: 106.85, OLTName: "OLT-2", Zone: "Unknown"},
	}
}

// newTestEnv builds a handler with fakes. hub is nil unless withHub.
func newTestEnv(t *testing.T, withHub bool) *testEnv {
	t.Helper()

	env := &testEnv{
		cfg:      testConfig(),
		engine:   &fakeEngine{devices: sampleDevices()},
		upstream: &fakeUpstream{configured: true, breaker: "closed"},
		store:    &fakeStore{},
		cache:    cache.New(),
		sync:     &fakeSync{},
	}
	if withHub {
		env.hub = ws.NewHub()
		ctx, cancel := context.WithCancel(context.Background())
		go env.hub.RunWithContext(ctx)
		t.Cleanup(func() {
			cancel()
			<-env.hub.Done()
		})
	}

	env.handler = NewHandler(Dependencies{
		Config:     env.cfg,
		Engine:     env.engine,
		Upstream:   env.upstream,
		Mock:       mock.NewGenerator(env.cfg.Map.CenterLat, env.cfg.Map.CenterLng, mock.WithRand(rand.New(rand.NewSource(42)))),
		Store:      env.store,
		Cache:      env.cache,
		Sync:       env.sync,
		Authorizer: auth.NewSyncAuthorizer(&env.cfg.Security),
		WSHub:      env.hub,
	})
	env.handler.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return env
}

func (env *testEnv) router() http.Handler {
	return NewRouter(env.handler, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&env.cfg.Security))).SetupChi()
}

func doRequest(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	m, err := auth.NewJWTManager(testJWTSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := m.GenerateToken("noc", role)
	if err != nil {
		t.Fatal(err)
	}
	return token
}
