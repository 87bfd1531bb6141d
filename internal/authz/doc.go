// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

// Package authz decides which roles may perform privileged actions, using a
// Casbin RBAC model.
//
// The built-in policy lets ADMIN and CRON trigger a SmartOLT sync. A CSV
// policy file (AUTHZ_POLICY_PATH) replaces it, for example to grant a NOC
// role through a role hierarchy:
//
//	p, ADMIN, sync:smartolt, trigger
//	p, CRON, sync:smartolt, trigger
//	g, NOC, ADMIN
package authz
