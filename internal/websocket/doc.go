// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package websocket pushes live notifications to dashboard clients.

The map polls /api/dashboard on its refresh interval; this package lets it
react sooner. It uses gorilla/websocket with a hub-and-client layout:

  - Hub: owns the client set and fans out broadcasts, run under suture
  - Client: one connection with a read goroutine (answers pings) and a write
    goroutine (delivers messages and keepalive pings)

Message Types:

  - dashboard_updated: a fresh reconciliation is available; carries stats
  - sync_completed: the store sync finished; carries count, duration, error
  - ping / pong: client keepalive

Broadcasts never block the caller. A full hub queue drops the message and a
client whose buffer is full is disconnected.

Example:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	hub.BroadcastSyncCompleted(count, time.Since(start), nil)
*/
package websocket
