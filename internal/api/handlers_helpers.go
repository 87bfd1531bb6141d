// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/models"
	"github.com/tomtom215/fibermap/internal/validation"
)

// sanitizeLogValue escapes control characters so caller-supplied strings
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if isControl(r) {
			fmt.Fprintf(&b, `\x%02x`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// writeJSON encodes payload with no envelope. Dashboard responses are never
// cacheable.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Err(err).Msg("encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Debug().Err(err).Msg("write response")
	}
}

func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	writeJSON(w, status, response)
}

// respondRequestError writes the error envelope tagged with the request id.
// cause, when set, is logged with the request's correlation fields and never
// sent to the client.
func respondRequestError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, cause error) {
	ctx := r.Context()
	if cause != nil {
		logging.CtxErr(ctx, cause).
			Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Int("status", status).
			Msg("request failed")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(ctx),
		},
		Error: &models.APIError{Code: code, Message: message, Details: details},
	})
}

// validateRequest returns nil when v passes its validate tags.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	e := verr.ToAPIError()
	return &models.APIError{Code: e.Code, Message: e.Message, Details: e.Details}
}
