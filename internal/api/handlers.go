// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

import (
	"context"
	"time"

	"github.com/tomtom215/fibermap/internal/auth"
	"github.com/tomtom215/fibermap/internal/cache"
	"github.com/tomtom215/fibermap/internal/config"
	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/models"
	ws "github.com/tomtom215/fibermap/internal/websocket"
)

// Engine reconciles and diagnoses SmartOLT devices.
// Implemented by *smartolt.Engine.
type Engine interface {
	Reconcile(ctx context.Context) []models.DashboardOnu
	Diagnose(ctx context.Context, sn string) models.DeviceDiagnostics
}

// Upstream reports SmartOLT client state.
// Implemented by *smartolt.Client.
type Upstream interface {
	Configured() bool
	BreakerState() string
}

// MockSource generates demo devices.
// Implemented by *mock.Generator.
type MockSource interface {
	Generate(count int) []models.DashboardOnu
}

// DeviceStore reads synced devices.
// Implemented by *store.BadgerStore.
type DeviceStore interface {
	List(ctx context.Context) ([]models.StoredOnu, error)
	Get(ctx context.Context, id string) (*models.StoredOnu, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// FeedCache is the SmartOLT feed cache as seen by health and sync.
// Implemented by *cache.Cache.
type FeedCache interface {
	Clear()
	GetStats() cache.Stats
	HitRate() float64
}

// SyncTrigger runs on-demand syncs.
// Implemented by *sync.Manager.
type SyncTrigger interface {
	TriggerSync(ctx context.Context) (int, error)
	LastSyncTime() time.Time
}

// Dependencies groups what the handlers need. Cache and WSHub may be nil.
type Dependencies struct {
	Config     *config.Config
	Engine     Engine
	Upstream   Upstream
	Mock       MockSource
	Store      DeviceStore
	Cache      FeedCache
	Sync       SyncTrigger
	Authorizer *auth.SyncAuthorizer
	WSHub      *ws.Hub
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: JSON and error responses
//   - handlers_dashboard.go: Dashboard, Onus, DebugOnu
//   - handlers_sync.go: SyncSmartOLT
//   - handlers_health.go: Health, HealthLive, HealthReady
//   - handlers_websocket.go: WebSocket upgrade
type Handler struct {
	config     *config.Config
	engine     Engine
	upstream   Upstream
	mock       MockSource
	store      DeviceStore
	cache      FeedCache
	sync       SyncTrigger
	authorizer *auth.SyncAuthorizer
	audit      *logging.SecurityLogger
	wsHub      *ws.Hub
	startTime  time.Time
	now        func() time.Time
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(api.Dependencies{
//	    Config:     cfg,
//	    Engine:     engine,
//	    Upstream:   client,
//	    Mock:       mock.NewGenerator(cfg.Map.CenterLat, cfg.Map.CenterLng),
//	    Store:      deviceStore,
//	    Cache:      feedCache,
//	    Sync:       syncManager,
//	    Authorizer: auth.NewSyncAuthorizer(&cfg.Security),
//	    WSHub:      hub,
//	})
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		config:     deps.Config,
		engine:     deps.Engine,
		upstream:   deps.Upstream,
		mock:       deps.Mock,
		store:      deps.Store,
		cache:      deps.Cache,
		sync:       deps.Sync,
		authorizer: deps.Authorizer,
		audit:      logging.NewSecurityLogger(),
		wsHub:      deps.WSHub,
		startTime:  time.Now(),
		now:        time.Now,
	}
}

// mapConfig returns the client map settings.
func (h *Handler) mapConfig() models.MapConfig {
	m := h.config.Map
	return models.MapConfig{
		CenterLat:       m.CenterLat,
		CenterLng:       m.CenterLng,
		Zoom:            m.Zoom,
		RefreshInterval: m.RefreshInterval,
	}
}
