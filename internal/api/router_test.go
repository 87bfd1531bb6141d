// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/fibermap/internal/models"
	ws "github.com/tomtom215/fibermap/internal/websocket"
)

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	router := env.router()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodGet, path: "/api/health", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/health/live", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/health/ready", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/dashboard", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/onus", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/debug-onu?sn=X1", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/debug-onu", want: http.StatusBadRequest},
		{method: http.MethodGet, path: "/api/sync/smartolt", want: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/sync/smartolt?secret=" + testCronSecret, want: http.StatusOK},
		{method: http.MethodPost, path: "/api/dashboard", want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/api/nope", want: http.StatusNotFound},
		{method: http.MethodGet, path: "/metrics", want: http.StatusOK},
	}

	for _, tt := range tests {
		rec := doRequest(t, router, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestRouter_Headers(t *testing.T) {
	t.Parallel()

	router := newTestEnv(t, false).router()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := doRequest(t, router, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("security headers missing: %v", rec.Header())
	}

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not generated")
	}
}

func TestRouter_DashboardCompressed(t *testing.T) {
	t.Parallel()

	router := newTestEnv(t, false).router()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rec := doRequest(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	router := newTestEnv(t, false).router()

	tests := []struct {
		origin string
		want   string
	}{
		{origin: testOrigin, want: testOrigin},
		{origin: "http://evil.example", want: ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := doRequest(t, router, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestRouter_SyncRateLimited(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	env.cfg.Security.RateLimitDisabled = false
	router := env.router()

	var last *httptest.ResponseRecorder
	for i := 0; i < RateLimitSync.Requests+1; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/sync/smartolt?secret="+testCronSecret, nil)
		req.RemoteAddr = "192.0.2.10:40000"
		last = doRequest(t, router, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", last.Code)
	}
	resp := decodeBody[models.APIResponse](t, last)
	if resp.Error == nil || resp.Error.Code != ErrCodeRateLimited {
		t.Errorf("error = %+v", resp.Error)
	}
	if n := env.sync.callCount(); n != RateLimitSync.Requests {
		t.Errorf("syncs = %d, want %d", n, RateLimitSync.Requests)
	}

	// Other clients keep their own budget
	req := httptest.NewRequest(http.MethodGet, "/api/sync/smartolt?secret="+testCronSecret, nil)
	req.RemoteAddr = "192.0.2.11:40000"
	if rec := doRequest(t, router, req); rec.Code != http.StatusOK {
		t.Errorf("second client status = %d", rec.Code)
	}
}

func dialTestServer(t *testing.T, server *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, resp, err
}

func TestWebSocket_OriginCheck(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, true)
	server := httptest.NewServer(env.router())
	t.Cleanup(server.Close)

	for _, origin := range []string{"", "http://evil.example"} {
		conn, resp, err := dialTestServer(t, server, origin)
		if err == nil {
			_ = conn.Close()
			t.Errorf("origin %q: dial succeeded", origin)
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("origin %q: response = %v, want 403", origin, resp)
		}
	}
}

func TestWebSocket_ReceivesDashboardUpdate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, true)
	server := httptest.NewServer(env.router())
	t.Cleanup(server.Close)

	conn, _, err := dialTestServer(t, server, testOrigin)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.GetClientCount() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if env.hub.GetClientCount() != 1 {
		t.Fatal("client never registered")
	}

	resp, err := http.Get(server.URL + "/api/dashboard")
	if err != nil {
		t.Fatalf("GET dashboard: %v", err)
	}
	_ = resp.Body.Close()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var msg ws.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != ws.MessageTypeDashboardUpdated {
		t.Fatalf("type = %q, want %q", msg.Type, ws.MessageTypeDashboardUpdated)
	}
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", msg.Data)
	}
	if data["isMock"] != false {
		t.Errorf("isMock = %v", data["isMock"])
	}
}

func TestWebSocket_NoHub(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, false)
	rec := doRequest(t, http.HandlerFunc(env.handler.WebSocket), httptest.NewRequest(http.MethodGet, "/api/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
