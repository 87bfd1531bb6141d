// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package config

import (
	"fmt"
	"math"
	"net/url"

	"github.com/tomtom215/fibermap/internal/logging"
)

// Validate checks that configuration values are usable.
//
// Missing SmartOLT credentials are deliberately not an error: the client
// warns at call time and the dashboard falls back to mock data.
func (c *Config) Validate() error {
	if err := c.validateSmartOLT(); err != nil {
		return err
	}

	if err := c.validateMap(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateSmartOLT() error {
	if c.SmartOLT.BaseURL != "" {
		if err := validateHTTPURL(c.SmartOLT.BaseURL, "SMARTOLT_BASE_URL"); err != nil {
			return err
		}
	}
	if c.SmartOLT.Timeout <= 0 {
		return fmt.Errorf("SMARTOLT_TIMEOUT must be positive, got %v", c.SmartOLT.Timeout)
	}
	if c.SmartOLT.DetailsTTL <= 0 || c.SmartOLT.ZonesTTL <= 0 || c.SmartOLT.GPSTTL <= 0 {
		return fmt.Errorf("SmartOLT cache TTLs must be positive")
	}
	if c.SmartOLT.QuotaPerHour < 0 {
		return fmt.Errorf("SMARTOLT_QUOTA_PER_HOUR must be >= 0, got %d", c.SmartOLT.QuotaPerHour)
	}
	return nil
}

func (c *Config) validateMap() error {
	m := c.Map
	if math.IsNaN(m.CenterLat) || m.CenterLat < -90 || m.CenterLat > 90 {
		return fmt.Errorf("MAP_CENTER_LAT must be between -90 and 90, got %v", m.CenterLat)
	}
	if math.IsNaN(m.CenterLng) || m.CenterLng < -180 || m.CenterLng > 180 {
		return fmt.Errorf("MAP_CENTER_LNG must be between -180 and 180, got %v", m.CenterLng)
	}
	if m.Zoom <= 0 {
		return fmt.Errorf("MAP_ZOOM must be positive, got %d", m.Zoom)
	}
	if m.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %d", m.RefreshInterval)
	}
	if m.OffsetRadiusKm < 0 {
		return fmt.Errorf("OFFSET_RADIUS_KM must be >= 0, got %v", m.OffsetRadiusKm)
	}
	if m.MockDeviceCount < 0 {
		return fmt.Errorf("MOCK_DEVICE_COUNT must be >= 0, got %d", m.MockDeviceCount)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("SYNC_INTERVAL must be >= 0, got %v", c.Sync.Interval)
	}
	if c.Store.GCInterval < 0 {
		return fmt.Errorf("STORE_GC_INTERVAL must be >= 0, got %v", c.Store.GCInterval)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that rawURL is an http(s) base URL: scheme and host
// present, no path beyond "/", no query string.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, u.Scheme)
	case u.Host == "":
		return fmt.Errorf("%s host is required", fieldName)
	case u.Path != "" && u.Path != "/":
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, u.Path)
	case u.RawQuery != "":
		return fmt.Errorf("%s should not contain query parameters", fieldName)
	}
	return nil
}
