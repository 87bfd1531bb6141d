// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/fibermap/internal/api"
	"github.com/tomtom215/fibermap/internal/auth"
	"github.com/tomtom215/fibermap/internal/cache"
	"github.com/tomtom215/fibermap/internal/config"
	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/mock"
	"github.com/tomtom215/fibermap/internal/smartolt"
	"github.com/tomtom215/fibermap/internal/store"
	"github.com/tomtom215/fibermap/internal/supervisor"
	"github.com/tomtom215/fibermap/internal/supervisor/services"
	"github.com/tomtom215/fibermap/internal/sync"
	ws "github.com/tomtom215/fibermap/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	deviceStore, err := store.Open(&cfg.Store)
	if err != nil {
		return fmt.Errorf("open device store: %w", err)
	}
	defer func() {
		if err := deviceStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing device store")
		}
	}()

	feedCache := cache.New()
	client := smartolt.NewClient(&cfg.SmartOLT, feedCache)
	center := smartolt.Point{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng}
	engine := smartolt.NewEngine(client, center, cfg.Map.OffsetRadiusKm)

	if client.Configured() {
		logging.Info().Str("base_url", cfg.SmartOLT.BaseURL).Msg("SmartOLT configured")
	} else {
		logging.Warn().Msg("SMARTOLT_BASE_URL or SMARTOLT_API_TOKEN unset; dashboard serves mock data")
	}

	hub := ws.NewHub()
	syncManager := sync.NewManager(engine, deviceStore, &cfg.Sync, hub)

	handler := api.NewHandler(api.Dependencies{
		Config:     cfg,
		Engine:     engine,
		Upstream:   client,
		Mock:       mock.NewGenerator(cfg.Map.CenterLat, cfg.Map.CenterLng),
		Store:      deviceStore,
		Cache:      feedCache,
		Sync:       syncManager,
		Authorizer: auth.NewSyncAuthorizer(&cfg.Security),
		WSHub:      hub,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Store.GCInterval > 0 && !cfg.Store.InMemory {
		tree.AddDataService(services.NewStoreGCService(deviceStore, cfg.Store.GCInterval, store.DefaultGCDiscardRatio))
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewSyncService(syncManager))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}
