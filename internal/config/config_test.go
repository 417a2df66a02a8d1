// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "HTTP_PORT"},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "HTTP_PORT"},
		{name: "unknown environment", mutate: func(c *Config) { c.Server.Environment = "prod" }, wantErr: "ENVIRONMENT"},
		{name: "tiny body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 10 }, wantErr: "MAX_BODY_BYTES"},
		{name: "no retention days", mutate: func(c *Config) { c.Metrics.RetentionDays = nil }, wantErr: "RETENTION_DAYS"},
		{name: "negative retention day", mutate: func(c *Config) { c.Metrics.RetentionDays = []int{1, -7} }, wantErr: "RETENTION_DAYS"},
		{name: "zero rolling window", mutate: func(c *Config) { c.Metrics.RollingWindowDays = 0 }, wantErr: "ROLLING_WINDOW_DAYS"},
		{name: "dolphin above whale", mutate: func(c *Config) { c.Metrics.DolphinThreshold = 150 }, wantErr: "WHALE_THRESHOLD"},
		{name: "minnow above dolphin", mutate: func(c *Config) { c.Metrics.MinnowThreshold = 25 }, wantErr: "DOLPHIN_THRESHOLD"},
		{name: "zero minnow", mutate: func(c *Config) { c.Metrics.MinnowThreshold = 0 }, wantErr: "MINNOW_THRESHOLD"},
		{name: "split of one", mutate: func(c *Config) { c.Predictor.ValidationSplit = 1 }, wantErr: "VALIDATION_SPLIT"},
		{name: "empty state key", mutate: func(c *Config) { c.Predictor.StateKey = " " }, wantErr: "STATE_KEY"},
		{name: "autosave disabled", mutate: func(c *Config) { c.Predictor.AutosaveInterval = 0 }},
		{name: "autosave too fast", mutate: func(c *Config) { c.Predictor.AutosaveInterval = time.Millisecond }, wantErr: "AUTOSAVE"},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "sqlite" }, wantErr: "STATE_STORE"},
		{name: "badger without path", mutate: func(c *Config) { c.Store.Path = "" }, wantErr: "STATE_STORE_PATH"},
		{name: "badger in memory", mutate: func(c *Config) { c.Store.Path = ""; c.Store.InMemory = true }},
		{name: "redis without addr", mutate: func(c *Config) { c.Store.Backend = "redis"; c.Store.RedisAddr = "" }, wantErr: "REDIS_ADDR"},
		{name: "redis breaker off", mutate: func(c *Config) { c.Store.Backend = "redis"; c.Store.BreakerMaxFailures = 0 }, wantErr: "BREAKER_FAILURES"},
		{name: "cache zero ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: "CACHE_TTL"},
		{name: "cache disabled zero ttl", mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }},
		{name: "wildcard cors in production", mutate: func(c *Config) { c.Server.Environment = "production" }, wantErr: "CORS_ORIGINS"},
		{name: "production with origins", mutate: func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"https://dash.example.com"}
		}},
		{name: "rate limit zero", mutate: func(c *Config) { c.Security.RateLimitReqs = 0 }, wantErr: "RATE_LIMIT_REQUESTS"},
		{name: "rate limit disabled", mutate: func(c *Config) { c.Security.RateLimitDisabled = true; c.Security.RateLimitReqs = 0 }},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "LOG_LEVEL"},
		{name: "uppercase log level", mutate: func(c *Config) { c.Logging.Level = "DEBUG" }},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestMetricConfig(t *testing.T) {
	t.Parallel()
	m := MetricsConfig{
		RetentionDays:     []int{30, 1, 7, 7},
		RollingWindowDays: 3,
		LTVProjectionDays: 60,
		WhaleThreshold:    50,
		DolphinThreshold:  10,
		MinnowThreshold:   0.5,
	}
	mc := m.MetricConfig()
	if len(mc.RetentionDays) != 3 || mc.RetentionDays[0] != 1 || mc.RetentionDays[2] != 30 {
		t.Errorf("RetentionDays = %v, want [1 7 30]", mc.RetentionDays)
	}
	if mc.RollingWindowDays != 3 || mc.LTVProjectionDays != 60 || mc.MinnowThreshold != 0.5 {
		t.Errorf("MetricConfig = %+v", mc)
	}
	mc.RetentionDays[0] = 99
	if m.RetentionDays[1] != 1 {
		t.Error("MetricConfig aliases the config slice")
	}
}
