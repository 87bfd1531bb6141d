// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package validation

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// DebugOnuRequest is the query of GET /api/debug-onu. SmartOLT serials are
// 12 characters; the length cap leaves room for MAC-style ids.
type DebugOnuRequest struct {
	SN string `query:"sn" validate:"required,max=64,onu_serial"`
}

// SyncRequest is the query of GET /api/sync/smartolt.
type SyncRequest struct {
	Secret  string `query:"secret" validate:"omitempty,max=256"`
	Refresh string `query:"refresh" validate:"omitempty,oneof=0 1 true false"`
}

// ForceRefresh reports whether the caller asked to bypass the feed cache.
func (r SyncRequest) ForceRefresh() bool {
	return r.Refresh == "1" || r.Refresh == "true"
}

// validateOnuSerial accepts printable characters other than whitespace.
func validateOnuSerial(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
