// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

import (
	"net/http"

	"github.com/tomtom215/fibermap/internal/auth"
	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/models"
	"github.com/tomtom215/fibermap/internal/validation"
)

// SyncSmartOLT handles GET /api/sync/smartolt.
//
// Callers need an admin bearer token or ?secret=<CRON_SECRET>. The sync
// copies the reconciled device list into the store; an empty reconciliation
// is a 500 and writes nothing. With ?refresh=1 the feed cache is cleared
// first so the rate-limited feeds are fetched again.
func (h *Handler) SyncSmartOLT(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := validation.SyncRequest{Secret: query.Get("secret"), Refresh: query.Get("refresh")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondRequestError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	requestID := logging.RequestIDFromContext(r.Context())
	claims, err := h.authorizer.Authorize(r, req.Secret)
	if err != nil {
		h.audit.LogSyncDenied(r.RemoteAddr, r.UserAgent(), requestID, err.Error())
		respondRequestError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized", nil, nil)
		return
	}
	h.audit.LogSyncAuthorized(claims.Username, claims.Role, r.RemoteAddr, requestID)
	ctx := auth.ContextWithClaims(r.Context(), claims)

	logging.CtxInfo(ctx).Stringer("caller", claims).Bool("refresh", req.ForceRefresh()).Msg("Manual SmartOLT sync requested")
	cleared := false
	if req.ForceRefresh() && h.cache != nil {
		h.cache.Clear()
		cleared = true
	}

	synced, err := h.sync.TriggerSync(ctx)
	if err != nil {
		respondRequestError(w, r, http.StatusInternalServerError, ErrCodeSyncFailed, "Failed to sync with SmartOLT",
			map[string]interface{}{"details": err.Error()}, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SyncResult{
		Success:      true,
		Message:      "Sync completed successfully",
		SyncedCount:  synced,
		CacheCleared: cleared,
	})
}
