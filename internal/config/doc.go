// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package config loads the Cohortcast service configuration with koanf.

# Sources

Later sources override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: $CONFIG_PATH, ./config.yaml, or /etc/cohortcast/config.yaml
 3. Environment variables, through an explicit name mapping

# Example config.yaml

	server:
	  port: 8350
	  environment: production
	metrics:
	  retention_days: [1, 7, 30]
	  whale_threshold: 200
	predictor:
	  game_type: puzzle
	  autosave_interval: 2m
	store:
	  backend: redis
	  redis_addr: redis:6379
	security:
	  cors_origins: ["https://dash.example.com"]

# Environment Variables

	HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT, MAX_BODY_BYTES, ENVIRONMENT
	RETENTION_DAYS (comma separated), ROLLING_WINDOW_DAYS, LTV_PROJECTION_DAYS
	WHALE_THRESHOLD, DOLPHIN_THRESHOLD, MINNOW_THRESHOLD
	GAME_TYPE, PREDICTOR_MIN_DATA_POINTS, PREDICTOR_VALIDATION_SPLIT,
	PREDICTOR_STATE_KEY, PREDICTOR_AUTOSAVE_INTERVAL, PREDICTOR_LOAD_ON_STARTUP
	STATE_STORE, STATE_STORE_PATH, STATE_STORE_IN_MEMORY, STATE_STORE_KEY_PREFIX,
	STATE_STORE_TIMEOUT, STATE_STORE_BREAKER_FAILURES, STATE_STORE_BREAKER_TIMEOUT,
	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
	CACHE_ENABLED, CACHE_TTL, CACHE_MAX_ENTRIES
	CORS_ORIGINS (comma separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Durations use Go syntax (30s, 5m). Validate rejects inconsistent settings
such as spender thresholds that are not strictly decreasing from whale to
minnow.
*/
package config
