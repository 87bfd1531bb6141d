// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fibermap/config.yaml",
	"/etc/fibermap/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Map defaults match the Jakarta deployment the dashboard was built for.
const (
	DefaultCenterLat = -6.2088
	DefaultCenterLng = 106.8456
)

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		SmartOLT: SmartOLTConfig{
			BaseURL:      "",
			APIToken:     "",
			Timeout:      30 * time.Second,
			DetailsTTL:   20 * time.Minute,
			ZonesTTL:     30 * time.Minute,
			GPSTTL:       20 * time.Minute,
			QuotaPerHour: 3,
		},
		Map: MapConfig{
			CenterLat:       DefaultCenterLat,
			CenterLng:       DefaultCenterLng,
			Zoom:            12,
			RefreshInterval: 30000,
			OffsetRadiusKm:  12,
			MockDeviceCount: 500,
		},
		Sync: SyncConfig{
			Interval: 5 * time.Minute,
		},
		Store: StoreConfig{
			Path:       "/data/devices",
			InMemory:   false,
			GCInterval: 10 * time.Minute,
		},
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			Timeout:         60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SMARTOLT_BASE_URL -> smartolt.base_url, NEXT_PUBLIC_MAP_ZOOM -> map.zoom
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// The NEXT_PUBLIC_ names are accepted so existing deployment env files keep working.
var envMappings = map[string]string{
	// SmartOLT upstream
	"smartolt_base_url":       "smartolt.base_url",
	"smartolt_api_token":      "smartolt.api_token",
	"smartolt_timeout":        "smartolt.timeout",
	"smartolt_details_ttl":    "smartolt.details_ttl",
	"smartolt_zones_ttl":      "smartolt.zones_ttl",
	"smartolt_gps_ttl":        "smartolt.gps_ttl",
	"smartolt_quota_per_hour": "smartolt.quota_per_hour",

	// Map
	"next_public_map_center_lat":   "map.center_lat",
	"next_public_map_center_lng":   "map.center_lng",
	"next_public_map_zoom":         "map.zoom",
	"next_public_refresh_interval": "map.refresh_interval",
	"map_center_lat":               "map.center_lat",
	"map_center_lng":               "map.center_lng",
	"map_zoom":                     "map.zoom",
	"refresh_interval":             "map.refresh_interval",
	"offset_radius_km":             "map.offset_radius_km",
	"mock_device_count":            "map.mock_device_count",

	// Sync and store
	"sync_interval":     "sync.interval",
	"store_path":        "store.path",
	"store_in_memory":   "store.in_memory",
	"store_gc_interval": "store.gc_interval",

	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Security
	"cron_secret":         "security.cron_secret",
	"jwt_secret":          "security.jwt_secret",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"authz_policy_path":   "security.authz_policy_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so unrelated env never leaks into config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
