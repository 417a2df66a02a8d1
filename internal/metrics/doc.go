// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the API router at /metrics:

	curl http://localhost:8350/metrics

# Available Metrics

Calculation Metrics:
  - metrics_calculation_duration_seconds: full calculation latency (histogram)
  - metrics_calculation_rows: rows per calculation (histogram)
  - metrics_calculation_confidence: completeness score (histogram)
  - metrics_blocks_total: per-block outcome (counter)
    Labels: block (retention, engagement, monetization, progression), outcome (computed, skipped)

Predictor Metrics:
  - predictor_predictions_total: served predictions (counter)
    Labels: kind (retention, d30, ltv), method
  - predictor_prediction_confidence: prediction confidence (histogram)
  - predictor_trainings_total: training runs (counter)
    Labels: result (success, insufficient_data)
  - predictor_training_cohorts: cohorts in the last successful training (gauge)
  - predictor_evaluation_error: last holdout evaluation (gauge)
    Labels: measure (mse, mae, r2)

State Store Metrics:
  - state_store_operations_total: persistence operations (counter)
    Labels: backend, operation, result
  - state_store_operation_duration_seconds: persistence latency (histogram)

HTTP Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total

Cache and Circuit Breaker Metrics:
  - cache_hits_total, cache_misses_total, cache_entries
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_state_transitions_total

# Usage

Record helpers wrap the raw collectors:

	start := time.Now()
	result := calc.Calculate(ctx, data, columns, cfg)
	metrics.RecordCalculation(time.Since(start), len(data.Rows), result.Confidence,
	    allBlocks, result.AvailableMetrics)

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
