// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

// Package logging provides centralized zerolog-based structured logging for Fibermap.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once at startup
//   - JSON output for production, console output for development
//   - Request and correlation id propagation through context.Context
//   - An slog handler so the suture supervisor tree logs through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("feed", "details").Int("count", 42).Msg("Cached ONU details")
//	logging.CtxWarn(ctx).Msg("SmartOLT declared request unsuccessful")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Testing
//
// NewTestLogger writes to any io.Writer so tests can assert on output:
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
package logging
