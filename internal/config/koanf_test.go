// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8350 {
		t.Errorf("Server.Port = %d, want 8350", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Metrics.RetentionDays, []int{1, 3, 7, 14, 30}) {
		t.Errorf("Metrics.RetentionDays = %v", cfg.Metrics.RetentionDays)
	}
	if cfg.Metrics.WhaleThreshold != 100 || cfg.Metrics.DolphinThreshold != 20 || cfg.Metrics.MinnowThreshold != 1 {
		t.Errorf("spender thresholds = %+v", cfg.Metrics)
	}
	if cfg.Predictor.MinDataPoints != 500 || cfg.Predictor.ValidationSplit != 0.2 {
		t.Errorf("predictor defaults = %+v", cfg.Predictor)
	}
	if cfg.Predictor.StateKey != "retention_predictor_state" {
		t.Errorf("Predictor.StateKey = %q", cfg.Predictor.StateKey)
	}
	if cfg.Store.Backend != "badger" {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"HTTP_PORT", "server.port"},
		{"RETENTION_DAYS", "metrics.retention_days"},
		{"WHALE_THRESHOLD", "metrics.whale_threshold"},
		{"GAME_TYPE", "predictor.game_type"},
		{"PREDICTOR_AUTOSAVE_INTERVAL", "predictor.autosave_interval"},
		{"STATE_STORE", "store.backend"},
		{"REDIS_ADDR", "store.redis_addr"},
		{"CACHE_TTL", "cache.ttl"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9000\n")

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() with missing file = %q, want empty", got)
	}
}

func TestLoad_EnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("RETENTION_DAYS", "30, 7,1")
	t.Setenv("WHALE_THRESHOLD", "250.5")
	t.Setenv("GAME_TYPE", "puzzle")
	t.Setenv("PREDICTOR_AUTOSAVE_INTERVAL", "90s")
	t.Setenv("STATE_STORE", "memory")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Metrics.RetentionDays, []int{30, 7, 1}) {
		t.Errorf("RetentionDays = %v", cfg.Metrics.RetentionDays)
	}
	if got := cfg.Metrics.MetricConfig().RetentionDays; !reflect.DeepEqual(got, []int{1, 7, 30}) {
		t.Errorf("MetricConfig().RetentionDays = %v, want sorted", got)
	}
	if cfg.Metrics.WhaleThreshold != 250.5 {
		t.Errorf("WhaleThreshold = %v", cfg.Metrics.WhaleThreshold)
	}
	if cfg.Predictor.GameType != "puzzle" || cfg.Predictor.AutosaveInterval != 90*time.Second {
		t.Errorf("Predictor = %+v", cfg.Predictor)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9200
  environment: staging
metrics:
  retention_days: [1, 7]
  ltv_projection_days: 180
predictor:
  game_type: idle
  load_on_startup: false
store:
  backend: redis
  redis_addr: redis:6379
cache:
  enabled: false
`)
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9200 || cfg.Server.Environment != "staging" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if !reflect.DeepEqual(cfg.Metrics.RetentionDays, []int{1, 7}) || cfg.Metrics.LTVProjectionDays != 180 {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Predictor.GameType != "idle" || cfg.Predictor.LoadOnStartup {
		t.Errorf("Predictor = %+v", cfg.Predictor)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.RedisAddr != "redis:6379" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	// Untouched sections keep their defaults.
	if cfg.Metrics.WhaleThreshold != 100 {
		t.Errorf("WhaleThreshold = %v, want default", cfg.Metrics.WhaleThreshold)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9300\nlogging:\n  level: warn\n")
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9400")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9400 {
		t.Errorf("Server.Port = %d, want env value 9400", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want file value warn", cfg.Logging.Level)
	}
}

func TestLoad_InvalidFails(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("STATE_STORE", "etcd")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "server: [unclosed\n")
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
