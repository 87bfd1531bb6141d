// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

// Package services adapts fibermap components to suture.Service.
//
// Each wrapper translates a component's own lifecycle into
// Serve(ctx) error and names itself through fmt.Stringer so supervisor
// events identify it:
//
//   - HTTPServerService: ListenAndServe with graceful Shutdown
//   - WebSocketHubService: websocket.Hub.RunWithContext
//   - SyncService: sync.Manager Start/Stop around the periodic SmartOLT sync
//   - StoreGCService: periodic value log GC for the Badger device store
//
// Wrappers depend on small interfaces rather than the concrete packages, so
// they are tested with in-package fakes.
package services
