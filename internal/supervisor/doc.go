// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package supervisor runs fibermap's long-lived services under a suture v4
supervisor tree.

# Layers

	fibermap
	├── data-layer
	│   └── store-gc          (Badger value log GC, if STORE_GC_INTERVAL > 0)
	├── messaging-layer
	│   ├── websocket-hub
	│   └── sync-manager      (periodic SmartOLT sync, if SYNC_INTERVAL > 0)
	└── api-layer
	    └── http-server

Each layer counts failures independently. A sync manager stuck in a restart
loop backs off without taking the HTTP server down, so the dashboard keeps
serving (from mock data if SmartOLT is unreachable).

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewSyncService(syncManager))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

Supervisor events (service start, panic, backoff) are logged through
sutureslog into the zerolog-backed slog handler from the logging package.

The wrappers for individual components live in the services subpackage.
*/
package supervisor
