// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Values are layered by LoadWithKoanf: struct defaults, then an optional
// YAML file, then environment variables.
type Config struct {
	SmartOLT SmartOLTConfig `koanf:"smartolt"`
	Map      MapConfig      `koanf:"map"`
	Sync     SyncConfig     `koanf:"sync"`
	Store    StoreConfig    `koanf:"store"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SmartOLTConfig holds upstream SmartOLT API settings.
type SmartOLTConfig struct {
	BaseURL  string        `koanf:"base_url"`
	APIToken string        `koanf:"api_token"`
	Timeout  time.Duration `koanf:"timeout"`

	// Cache lifetimes for the rate-limited feeds.
	DetailsTTL time.Duration `koanf:"details_ttl"`
	ZonesTTL   time.Duration `koanf:"zones_ttl"`
	GPSTTL     time.Duration `koanf:"gps_ttl"`

	// QuotaPerHour bounds calls to the details and bulk GPS endpoints.
	// Zero disables the local guard.
	QuotaPerHour int `koanf:"quota_per_hour"`
}

// HasCredentials reports whether both the base URL and token are configured.
func (c SmartOLTConfig) HasCredentials() bool {
	return c.BaseURL != "" && c.APIToken != ""
}

// MapConfig holds dashboard map settings and the synthetic coordinate anchor.
type MapConfig struct {
	CenterLat       float64 `koanf:"center_lat"`
	CenterLng       float64 `koanf:"center_lng"`
	Zoom            int     `koanf:"zoom"`
	RefreshInterval int     `koanf:"refresh_interval"` // milliseconds
	OffsetRadiusKm  float64 `koanf:"offset_radius_km"`
	MockDeviceCount int     `koanf:"mock_device_count"`
}

// SyncConfig holds periodic store sync settings
type SyncConfig struct {
	Interval time.Duration `koanf:"interval"` // 0 disables the background loop
}

// StoreConfig holds device store settings
type StoreConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval"` // 0 disables value log GC
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds sync authorization and HTTP hardening settings
type SecurityConfig struct {
	CronSecret        string        `koanf:"cron_secret"`
	JWTSecret         string        `koanf:"jwt_secret"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	AuthzPolicyPath   string        `koanf:"authz_policy_path"` // empty uses the built-in policy
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file, and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
