// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
Package auth authorizes manual SmartOLT syncs.

Two credentials are accepted by GET /api/sync/smartolt:

  - an HS256 JWT with role "ADMIN", sent as "Authorization: Bearer <token>"
    or in the "token" cookie (JWT_SECRET)
  - the shared cron secret as ?secret=<CRON_SECRET>, compared in constant time

An empty CRON_SECRET never matches, so an unset secret cannot be guessed by
sending an empty query parameter.

Example:

	authz := auth.NewSyncAuthorizer(&cfg.Security)
	claims, err := authz.Authorize(r, r.URL.Query().Get("secret"))
	if errors.Is(err, auth.ErrUnauthorized) {
	    http.Error(w, "unauthorized", http.StatusUnauthorized)
	    return
	}
*/
package auth
