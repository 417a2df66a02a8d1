// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package config

import (
	"time"

	"github.com/tomtom215/cohortcast/internal/models"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Predictor PredictorConfig `koanf:"predictor"`
	Store     StoreConfig     `koanf:"store"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// MaxBodyBytes caps request bodies; datasets arrive inline.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
	// Environment is development, staging or production.
	Environment string `koanf:"environment"`
}

// MetricsConfig holds the default metric calculation settings. Request
// overrides are merged on top.
type MetricsConfig struct {
	RetentionDays     []int   `koanf:"retention_days"`
	RollingWindowDays int     `koanf:"rolling_window_days"`
	LTVProjectionDays int     `koanf:"ltv_projection_days"`
	WhaleThreshold    float64 `koanf:"whale_threshold"`
	DolphinThreshold  float64 `koanf:"dolphin_threshold"`
	MinnowThreshold   float64 `koanf:"minnow_threshold"`
}

// PredictorConfig holds retention predictor settings.
type PredictorConfig struct {
	GameType         string        `koanf:"game_type"`
	MinDataPoints    int           `koanf:"min_data_points"`
	ValidationSplit  float64       `koanf:"validation_split"`
	StateKey         string        `koanf:"state_key"`
	AutosaveInterval time.Duration `koanf:"autosave_interval"`
	LoadOnStartup    bool          `koanf:"load_on_startup"`
}

// StoreConfig selects the model state backend.
type StoreConfig struct {
	// Backend is badger, redis or memory.
	Backend  string `koanf:"backend"`
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	KeyPrefix string        `koanf:"key_prefix"`
	Timeout   time.Duration `koanf:"timeout"`

	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// CacheConfig controls the calculation result cache.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int64         `koanf:"max_entries"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error. Default: info
	Level string `koanf:"level"`
	// Format: json or console. Default: json
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MetricConfig converts the metrics section to the engine configuration,
// with retention days de-duplicated and sorted.
func (m MetricsConfig) MetricConfig() models.MetricConfig {
	return models.MetricConfig{
		RetentionDays:     m.RetentionDays,
		RollingWindowDays: m.RollingWindowDays,
		LTVProjectionDays: m.LTVProjectionDays,
		WhaleThreshold:    m.WhaleThreshold,
		DolphinThreshold:  m.DolphinThreshold,
		MinnowThreshold:   m.MinnowThreshold,
	}.Merge(nil)
}

// IsProduction reports whether the service runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
