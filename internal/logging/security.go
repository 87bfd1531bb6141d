// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// Access audit event names.
const (
	EventSyncAuthorized = "sync_authorized"
	EventSyncDenied     = "sync_denied"
)

// SecurityEvent is one audited access decision.
type SecurityEvent struct {
	Event     string
	Username  string
	Role      string
	IPAddress string
	UserAgent string
	RequestID string
	Success   bool
	Error     string
}

// SecurityLogger writes access decisions for privileged endpoints under
// component=auth. Usernames, errors and user agents are sanitized first.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger returns a SecurityLogger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "auth").Logger(),
	}
}

// NewSecurityLoggerWithLogger returns a SecurityLogger writing to logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent writes event. Denials are logged at warn level.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	var e *zerolog.Event
	status := "success"
	if event.Success {
		e = l.logger.Info()
	} else {
		e = l.logger.Warn()
		status = "failed"
	}
	e = e.Str("event", event.Event).Str("status", status)

	if event.Username != "" {
		e = e.Str("username", SanitizeUsername(event.Username))
	}
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.RequestID != "" {
		e = e.Str("request_id", event.RequestID)
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}
	e.Msg("")
}

// LogSyncAuthorized records a sync trigger that passed authorization.
func (l *SecurityLogger) LogSyncAuthorized(username, role, ip, requestID string) {
	l.LogEvent(&SecurityEvent{
		Event:     EventSyncAuthorized,
		Username:  username,
		Role:      role,
		IPAddress: ip,
		RequestID: requestID,
		Success:   true,
	})
}

// LogSyncDenied records a rejected sync trigger.
func (l *SecurityLogger) LogSyncDenied(ip, userAgent, requestID, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     EventSyncDenied,
		IPAddress: ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Success:   false,
		Error:     reason,
	})
}

// SanitizeToken keeps the first and last 4 characters of a token.
// Example: "eyJhbGciOiJIUzI1NiJ9.e30.sig" -> "eyJh....sig"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUsername keeps the first 2 characters.
// Example: "operator" -> "op***"
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

var sensitiveErrorWords = []string{
	"password",
	"secret",
	"token",
	"key",
	"bearer",
	"authorization",
	"cookie",
}

// SanitizeError replaces messages that may quote credentials with a generic
// one and truncates the rest.
func SanitizeError(err string) string {
	lower := strings.ToLower(err)
	for _, word := range sensitiveErrorWords {
		if strings.Contains(lower, word) {
			return "authentication error"
		}
	}
	return truncateString(err, 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
