// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/fibermap/internal/authz"
	"github.com/tomtom215/fibermap/internal/config"
	"github.com/tomtom215/fibermap/internal/logging"
)

// ErrUnauthorized is returned when a sync request carries neither an admin
// token nor the cron secret.
var ErrUnauthorized = errors.New("unauthorized: admin token or cron secret required")

// RoleCron is assigned to requests authorized by the cron secret.
const RoleCron = "CRON"

type contextKey string

// ClaimsContextKey holds the *Claims of an authorized request.
const ClaimsContextKey contextKey = "claims"

// SyncAuthorizer decides who may trigger a SmartOLT sync: a bearer token
// whose role the policy allows, or the shared cron secret passed as ?secret=.
type SyncAuthorizer struct {
	jwtManager *JWTManager // nil when JWT_SECRET is unset
	cronSecret []byte      // empty disables secret access
	policy     *authz.Enforcer
}

// NewSyncAuthorizer builds an authorizer from the security config. With
// neither JWT_SECRET nor CRON_SECRET set every sync request is rejected.
func NewSyncAuthorizer(cfg *config.SecurityConfig) *SyncAuthorizer {
	a := &SyncAuthorizer{cronSecret: []byte(cfg.CronSecret), policy: loadPolicy(cfg.AuthzPolicyPath)}

	if cfg.JWTSecret != "" {
		// Only fails on an empty secret
		a.jwtManager, _ = NewJWTManager(cfg.JWTSecret, 0)
	}
	if a.jwtManager == nil && len(a.cronSecret) == 0 {
		logging.Warn().Msg("Neither JWT_SECRET nor CRON_SECRET is set; manual sync is disabled")
	}
	return a
}

// NewSyncAuthorizerWithManager is used when tokens are issued by an existing
// manager. It applies the built-in policy.
func NewSyncAuthorizerWithManager(m *JWTManager, cronSecret string) *SyncAuthorizer {
	return &SyncAuthorizer{jwtManager: m, cronSecret: []byte(cronSecret), policy: authz.MustNewDefault()}
}

// WithPolicy replaces the role policy.
func (a *SyncAuthorizer) WithPolicy(policy *authz.Enforcer) *SyncAuthorizer {
	a.policy = policy
	return a
}

// loadPolicy falls back to the built-in policy when the file is unusable.
func loadPolicy(path string) *authz.Enforcer {
	if path == "" {
		return authz.MustNewDefault()
	}
	policy, err := authz.NewEnforcer(path)
	if err != nil {
		logging.Error().Err(err).Str("path", path).Msg("Failed to load AUTHZ_POLICY_PATH, using built-in policy")
		return authz.MustNewDefault()
	}
	logging.Info().Str("path", path).Int("rules", len(policy.Policy())).Msg("Sync authorization policy loaded")
	return policy
}

// Authorize checks the request's bearer token (header or "token" cookie) and
// then the supplied cron secret. It returns the claims of the caller.
func (a *SyncAuthorizer) Authorize(r *http.Request, secret string) (*Claims, error) {
	if a.jwtManager != nil {
		if token, ok := extractToken(r); ok {
			claims, err := a.jwtManager.ValidateToken(token)
			switch {
			case err != nil:
				logging.CtxWarn(r.Context()).Err(err).Msg("Sync token validation failed")
			case a.policy.CanTriggerSync(claims.Role):
				return claims, nil
			default:
				logging.CtxWarn(r.Context()).
					Str("username", claims.Username).
					Str("role", claims.Role).
					Msg("Sync requested by a role the policy does not allow")
			}
		}
	}

	if a.secretMatches(secret) && a.policy.CanTriggerSync(RoleCron) {
		return &Claims{Username: "cron", Role: RoleCron}, nil
	}
	return nil, ErrUnauthorized
}

func (a *SyncAuthorizer) secretMatches(secret string) bool {
	if len(a.cronSecret) == 0 || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), a.cronSecret) == 1
}

// extractToken reads a bearer token from the Authorization header, falling
// back to the "token" cookie.
func extractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	cookie, err := r.Cookie("token")
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// ContextWithClaims stores claims on ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// GetClaims returns the claims stored by ContextWithClaims, or nil.
func GetClaims(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// String identifies the caller in logs.
func (c *Claims) String() string {
	if c == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s(%s)", c.Username, c.Role)
}
