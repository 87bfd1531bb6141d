// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

import (
	"net/http"

	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/metrics"
	"github.com/tomtom215/fibermap/internal/mock"
	"github.com/tomtom215/fibermap/internal/models"
	"github.com/tomtom215/fibermap/internal/validation"
)

// Dashboard handles GET /api/dashboard.
//
// Devices come from a live reconciliation. When SmartOLT credentials are
// missing, or reconciliation yields nothing (bad token, exhausted quota,
// empty network), mock devices are served with isMock=true so the map is
// never blank.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var onus []models.DashboardOnu
	isMock := false

	if h.upstream.Configured() {
		logging.CtxInfo(ctx).Msg("Fetching dashboard devices from SmartOLT")
		onus = h.engine.Reconcile(ctx)

		if err := ctx.Err(); err != nil {
			respondRequestError(w, r, http.StatusInternalServerError, ErrCodeDashboard, "Failed to fetch dashboard data", nil, err)
			return
		}
		if len(onus) == 0 {
			logging.CtxWarn(ctx).Msg("SmartOLT returned 0 ONUs, falling back to mock data")
			onus = h.mockDevices()
			isMock = true
		}
	} else {
		logging.CtxInfo(ctx).Msg("No SmartOLT credentials, using mock data")
		onus = h.mockDevices()
		isMock = true
	}

	if isMock {
		metrics.DashboardMockServed.Inc()
	}

	resp := models.BuildDashboard(onus, isMock, h.mapConfig(), h.now())
	if h.wsHub != nil {
		h.wsHub.BroadcastDashboardUpdated(resp.Stats, isMock)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) mockDevices() []models.DashboardOnu {
	count := h.config.Map.MockDeviceCount
	if count <= 0 {
		count = mock.DefaultCount
	}
	return h.mock.Generate(count)
}

// Onus handles GET /api/onus: synced devices that have coordinates, ordered
// by name.
func (h *Handler) Onus(w http.ResponseWriter, r *http.Request) {
	onus, err := h.store.List(r.Context())
	if err != nil {
		respondRequestError(w, r, http.StatusInternalServerError, ErrCodeStore, "Failed to fetch ONU data", nil, err)
		return
	}
	if onus == nil {
		onus = []models.StoredOnu{}
	}
	writeJSON(w, http.StatusOK, onus)
}

// DebugOnu handles GET /api/debug-onu?sn=<serial>, showing how one serial
// resolves across the SmartOLT feeds and, once synced, its stored record.
func (h *Handler) DebugOnu(w http.ResponseWriter, r *http.Request) {
	req := validation.DebugOnuRequest{SN: r.URL.Query().Get("sn")}
	if apiErr := validateRequest(&req); apiErr != nil {
		details := apiErr.Details
		if req.SN == "" {
			details = map[string]interface{}{"hint": "Please provide ?sn=ZTEGC..."}
		}
		respondRequestError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, details, nil)
		return
	}

	logging.CtxInfo(r.Context()).Str("sn", sanitizeLogValue(req.SN)).Msg("Diagnosing ONU")
	diag := h.engine.Diagnose(r.Context(), req.SN)
	if h.store != nil {
		if rec, err := h.store.Get(r.Context(), req.SN); err == nil {
			diag.Stored = rec
		}
	}
	writeJSON(w, http.StatusOK, diag)
}
