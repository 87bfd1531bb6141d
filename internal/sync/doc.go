// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package sync copies reconciled SmartOLT devices into the device store.

A run reconciles the three SmartOLT feeds, converts every device to a
StoredOnu stamped with the run time, and upserts them by id. Runs happen on a
ticker (SYNC_INTERVAL) and on demand through POST /api/sync. Concurrent runs
are serialized.

An empty reconciliation fails with ErrNoDevices and writes nothing; mock
devices are never persisted.

Usage:

	mgr := sync.NewManager(engine, deviceStore, &cfg.Sync, hub)
	if err := mgr.Start(ctx); err != nil {
	    return err
	}
	defer mgr.Stop()

	n, err := mgr.TriggerSync(ctx)
*/
package sync
