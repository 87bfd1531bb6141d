// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "***"},
		{"exactly12chr", "***"},
		{"eyJhbGciOiJIUzI1NiJ9.payload.signature", "eyJh...ture"},
	}

	for _, tt := range tests {
		if got := SanitizeToken(tt.input); got != tt.expected {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"ab", "***"},
		{"operator", "op***"},
	}

	for _, tt := range tests {
		if got := SanitizeUsername(tt.input); got != tt.expected {
			t.Errorf("SanitizeUsername(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"unauthorized: admin token or cron secret required", "authentication error"},
		{"invalid Bearer header", "authentication error"},
		{"connection reset", "connection reset"},
		{strings.Repeat("x", 250), strings.Repeat("x", 200) + "..."},
	}

	for _, tt := range tests {
		if got := SanitizeError(tt.input); got != tt.expected {
			t.Errorf("SanitizeError(%.20q) = %.20q, want %.20q", tt.input, got, tt.expected)
		}
	}
}

func TestSecurityLogger_LogSyncAuthorized(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	secLog := NewSecurityLoggerWithLogger(zerolog.New(&buf))

	secLog.LogSyncAuthorized("operator", "ADMIN", "10.0.0.7", "req-1")

	out := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"component":"auth"`,
		`"event":"sync_authorized"`,
		`"status":"success"`,
		`"username":"op***"`,
		`"role":"ADMIN"`,
		`"ip":"10.0.0.7"`,
		`"request_id":"req-1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
	if strings.Contains(out, "operator") {
		t.Errorf("username leaked unsanitized: %s", out)
	}
}

func TestSecurityLogger_LogSyncDenied(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	secLog := NewSecurityLoggerWithLogger(zerolog.New(&buf))

	secLog.LogSyncDenied("10.0.0.8", strings.Repeat("A", 150), "req-2", "unauthorized: admin token or cron secret required")

	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"event":"sync_denied"`,
		`"status":"failed"`,
		`"error":"authentication error"`,
		`"user_agent":"` + strings.Repeat("A", 100) + `..."`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
	if strings.Contains(out, "username") {
		t.Errorf("denied event should not carry a username: %s", out)
	}
}

func TestNewSecurityLogger(t *testing.T) {
	t.Parallel()

	if NewSecurityLogger() == nil {
		t.Error("expected non-nil security logger")
	}
}
