// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

// Package mock generates synthetic ONU devices for the dashboard when
// SmartOLT credentials are missing or reconciliation returns nothing.
//
// Generated devices follow the same shape as reconciled ones, so the map,
// legend and stats render identically. The status mix is weighted toward
// Online (16 of 20) with one each of LOS, Power fail, Offline and
// Unconfigured.
//
// Example:
//
//	gen := mock.NewGenerator(-6.2088, 106.8456)
//	onus := gen.Generate(mock.DefaultCount)
package mock
