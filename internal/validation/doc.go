// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is created lazily and shared; it caches struct
// metadata and is safe for concurrent use. Failures are returned as
// *RequestValidationError and converted to the API error envelope with
// ToAPIError. Fields are named by their `query` tag when present, so
// messages match the parameter the caller sent.
//
// # Request Types
//
//   - DebugOnuRequest: sn is required, at most 64 characters, no whitespace
//   - SyncRequest: optional cron secret, at most 256 characters, and an
//     optional refresh flag (0, 1, true or false)
//
// # Custom Validators
//
//   - onu_serial: printable characters other than whitespace
//
// # Usage
//
//	req := validation.DebugOnuRequest{SN: r.URL.Query().Get("sn")}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    http.Error(w, apiErr.Message, http.StatusBadRequest)
//	    return
//	}
package validation
