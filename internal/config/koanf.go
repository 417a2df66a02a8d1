// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

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

	"github.com/tomtom215/cohortcast/internal/models"
)

// DefaultConfigPaths lists the config file locations searched in order
// when CONFIG_PATH is unset or points at a missing file. The first file
// found is used; none is required.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cohortcast/config.yaml",
	"/etc/cohortcast/config.yml",
}

// ConfigPathEnvVar is the environment variable that names an explicit
// config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the lowest configuration layer. The config file
// and the environment override it field by field.
func defaultConfig() *Config {
	// Metric defaults live with the model so request overrides merge over
	// the same values.
	mc := models.DefaultMetricConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8350,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    32 << 20, // 32MB of inline rows
			Environment:     "development",
		},
		Metrics: MetricsConfig{
			RetentionDays:     mc.RetentionDays,
			RollingWindowDays: mc.RollingWindowDays,
			LTVProjectionDays: mc.LTVProjectionDays,
			WhaleThreshold:    mc.WhaleThreshold,
			DolphinThreshold:  mc.DolphinThreshold,
			MinnowThreshold:   mc.MinnowThreshold,
		},
		Predictor: PredictorConfig{
			GameType:         "default",
			MinDataPoints:    500, // 5 cohorts to train
			ValidationSplit:  0.2,
			StateKey:         "retention_predictor_state",
			AutosaveInterval: 5 * time.Minute,
			LoadOnStartup:    true,
		},
		Store: StoreConfig{
			Backend:            "badger", // embedded, no external service needed
			Path:               "/data/state",
			RedisAddr:          "localhost:6379",
			KeyPrefix:          "cohortcast:",
			Timeout:            5 * time.Second,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 1000,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"}, // tighten in production
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration and validates it.
//
// Layers, in increasing order of precedence:
//  1. Struct defaults from defaultConfig
//  2. An optional YAML file (see findConfigFile)
//  3. Environment variables listed in envMappings
//
// Comma-separated environment values for slice fields are split after the
// environment layer is applied.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults.
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file, when one exists.
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment. Unmapped variables are dropped by envTransformFunc.
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

// findConfigFile returns the config file to load, or "" when none exists.
// CONFIG_PATH wins when it names an existing file; otherwise
// DefaultConfigPaths are tried in order.
func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are slice fields that accept comma-separated values
// from the environment, e.g. CORS_ORIGINS=https://a.example,https://b.example.
var sliceConfigPaths = []string{
	"metrics.retention_days",
	"security.cors_origins",
}

// processSliceFields splits string values at sliceConfigPaths into trimmed,
// non-empty elements. Values that are already slices (from YAML) are left
// alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		parts := strings.Split(s, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Unlisted variables are ignored, so unrelated process environment never
// leaks into the configuration. Names follow the ones used in deployment
// manifests rather than the YAML structure.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"max_body_bytes":   "server.max_body_bytes",
	"environment":      "server.environment",

	"retention_days":      "metrics.retention_days",
	"rolling_window_days": "metrics.rolling_window_days",
	"ltv_projection_days": "metrics.ltv_projection_days",
	"whale_threshold":     "metrics.whale_threshold",
	"dolphin_threshold":   "metrics.dolphin_threshold",
	"minnow_threshold":    "metrics.minnow_threshold",

	"game_type":                   "predictor.game_type",
	"predictor_min_data_points":   "predictor.min_data_points",
	"predictor_validation_split":  "predictor.validation_split",
	"predictor_state_key":         "predictor.state_key",
	"predictor_autosave_interval": "predictor.autosave_interval",
	"predictor_load_on_startup":   "predictor.load_on_startup",

	"state_store":                  "store.backend",
	"state_store_path":             "store.path",
	"state_store_in_memory":        "store.in_memory",
	"redis_addr":                   "store.redis_addr",
	"redis_password":               "store.redis_password",
	"redis_db":                     "store.redis_db",
	"state_store_key_prefix":       "store.key_prefix",
	"state_store_timeout":          "store.timeout",
	"state_store_breaker_failures": "store.breaker_max_failures",
	"state_store_breaker_timeout":  "store.breaker_timeout",

	"cache_enabled":     "cache.enabled",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",

	// Comma-separated; see sliceConfigPaths.
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config path. An
// empty result tells koanf to skip the variable.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
