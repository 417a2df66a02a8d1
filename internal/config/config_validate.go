// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package config

import (
	"fmt"
	"strings"
	"time"
)

var (
	validEnvironments = []string{"development", "staging", "production"}
	validBackends     = []string{"badger", "redis", "memory"}
	validLogLevels    = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled"}
	validLogFormats   = []string{"json", "console"}
)

// Validate checks the configuration section by section and returns the
// first problem found.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	if err := c.validatePredictor(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024, got %d", c.Server.MaxBodyBytes)
	}
	if !oneOf(c.Server.Environment, validEnvironments) {
		return fmt.Errorf("ENVIRONMENT must be one of %s, got %q", strings.Join(validEnvironments, ", "), c.Server.Environment)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	m := c.Metrics
	if len(m.RetentionDays) == 0 {
		return fmt.Errorf("RETENTION_DAYS must list at least one day")
	}
	for _, d := range m.RetentionDays {
		if d < 0 {
			return fmt.Errorf("RETENTION_DAYS must not contain negative days, got %d", d)
		}
	}
	if m.RollingWindowDays < 1 {
		return fmt.Errorf("ROLLING_WINDOW_DAYS must be at least 1, got %d", m.RollingWindowDays)
	}
	if m.LTVProjectionDays < 1 {
		return fmt.Errorf("LTV_PROJECTION_DAYS must be at least 1, got %d", m.LTVProjectionDays)
	}
	return c.validateSpenderThresholds()
}

// validateSpenderThresholds requires whale > dolphin > minnow > 0 so the
// tiers partition paying users.
func (c *Config) validateSpenderThresholds() error {
	m := c.Metrics
	if m.MinnowThreshold <= 0 {
		return fmt.Errorf("MINNOW_THRESHOLD must be positive, got %v", m.MinnowThreshold)
	}
	if m.DolphinThreshold <= m.MinnowThreshold {
		return fmt.Errorf("DOLPHIN_THRESHOLD (%v) must exceed MINNOW_THRESHOLD (%v)", m.DolphinThreshold, m.MinnowThreshold)
	}
	if m.WhaleThreshold <= m.DolphinThreshold {
		return fmt.Errorf("WHALE_THRESHOLD (%v) must exceed DOLPHIN_THRESHOLD (%v)", m.WhaleThreshold, m.DolphinThreshold)
	}
	return nil
}

func (c *Config) validatePredictor() error {
	p := c.Predictor
	if p.MinDataPoints < 0 {
		return fmt.Errorf("PREDICTOR_MIN_DATA_POINTS must not be negative, got %d", p.MinDataPoints)
	}
	if p.ValidationSplit <= 0 || p.ValidationSplit >= 1 {
		return fmt.Errorf("PREDICTOR_VALIDATION_SPLIT must be between 0 and 1 (exclusive), got %v", p.ValidationSplit)
	}
	if strings.TrimSpace(p.StateKey) == "" {
		return fmt.Errorf("PREDICTOR_STATE_KEY must not be empty")
	}
	if p.AutosaveInterval != 0 && p.AutosaveInterval < time.Second {
		return fmt.Errorf("PREDICTOR_AUTOSAVE_INTERVAL must be 0 (disabled) or at least 1s, got %v", p.AutosaveInterval)
	}
	return nil
}

func (c *Config) validateStore() error {
	s := c.Store
	if !oneOf(s.Backend, validBackends) {
		return fmt.Errorf("STATE_STORE must be one of %s, got %q", strings.Join(validBackends, ", "), s.Backend)
	}
	switch s.Backend {
	case "badger":
		if s.Path == "" && !s.InMemory {
			return fmt.Errorf("STATE_STORE_PATH is required when STATE_STORE=badger")
		}
	case "redis":
		if s.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STATE_STORE=redis")
		}
		if s.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative, got %d", s.RedisDB)
		}
		if s.BreakerMaxFailures == 0 {
			return fmt.Errorf("STATE_STORE_BREAKER_FAILURES must be at least 1")
		}
		if s.BreakerTimeout <= 0 {
			return fmt.Errorf("STATE_STORE_BREAKER_TIMEOUT must be positive")
		}
	}
	if s.Timeout < 0 {
		return fmt.Errorf("STATE_STORE_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED=true")
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1, got %d", c.Cache.MaxEntries)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Server.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	if !oneOf(strings.ToLower(c.Logging.Level), validLogLevels) {
		return fmt.Errorf("LOG_LEVEL must be one of %s, got %q", strings.Join(validLogLevels, ", "), c.Logging.Level)
	}
	if !oneOf(strings.ToLower(c.Logging.Format), validLogFormats) {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
