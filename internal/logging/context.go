// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// idKey selects one of the ids carried on a context.
type idKey int

const (
	correlationID idKey = iota
	requestID
)

// field names used in log output
var idFields = [...]string{
	correlationID: "correlation_id",
	requestID:     "request_id",
}

// GenerateCorrelationID returns a short id grouping the logs of one sync run
// or one request chain.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

// GenerateRequestID returns a full UUID.
func GenerateRequestID() string {
	return uuid.NewString()
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationID, id)
}

// ContextWithNewCorrelationID tags ctx with a fresh correlation id.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationID)
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestID, id)
}

func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestID)
}

func idFrom(ctx context.Context, key idKey) string {
	id, _ := ctx.Value(key).(string)
	return id
}

// Ctx returns the process logger with the ids on ctx attached.
//
//	logging.Ctx(ctx).Info().Msg("sync started")
//	// {"level":"info","correlation_id":"abc12345","message":"sync started"}
func Ctx(ctx context.Context) *zerolog.Logger {
	zc := With()
	for key, field := range idFields {
		if id := idFrom(ctx, idKey(key)); id != "" {
			zc = zc.Str(field, id)
		}
	}
	l := zc.Logger()
	return &l
}

func CtxInfo(ctx context.Context) *zerolog.Event { return Ctx(ctx).Info() }
func CtxWarn(ctx context.Context) *zerolog.Event { return Ctx(ctx).Warn() }

// CtxErr is Ctx(ctx).Err(err).
func CtxErr(ctx context.Context, err error) *zerolog.Event { return Ctx(ctx).Err(err) }

// WithComponent returns a child logger tagged with component.
//
//	log := logging.WithComponent("smartolt")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
