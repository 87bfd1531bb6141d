// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

// Package store persists reconciled devices written by the sync job and
// serves them to /api/onus.
//
// BadgerStore keeps one JSON record per device under "device:<id>". Writes
// replace whole records, which makes a sync run idempotent. List skips
// devices without coordinates and orders the rest by name.
//
// Set STORE_IN_MEMORY=true to run without a data directory.
package store
