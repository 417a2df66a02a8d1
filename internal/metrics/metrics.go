// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Metric calculations (per-block outcome, duration, dataset size)
// - Retention predictor (predictions, training, evaluation)
// - Model state persistence (badger / redis / memory)
// - API endpoint latency and throughput
// - Result cache efficiency and circuit breaker state

var (
	// Calculation Metrics
	CalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metrics_calculation_duration_seconds",
			Help:    "Duration of full metric calculations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
	)

	CalculationRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metrics_calculation_rows",
			Help:    "Number of rows per metric calculation",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		},
	)

	MetricBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrics_blocks_total",
			Help: "Metric blocks by outcome",
		},
		[]string{"block", "outcome"}, // outcome: "computed", "skipped"
	)

	CalculationConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metrics_calculation_confidence",
			Help:    "Data completeness confidence of metric calculations",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	// Predictor Metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_predictions_total",
			Help: "Total number of predictions served",
		},
		[]string{"kind", "method"}, // kind: "retention", "d30", "ltv"
	)

	PredictionConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "predictor_prediction_confidence",
			Help:    "Confidence of served predictions",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"kind"},
	)

	ModelTrainings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_trainings_total",
			Help: "Total number of training runs",
		},
		[]string{"result"}, // "success", "insufficient_data"
	)

	ModelTrainingCohorts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "predictor_training_cohorts",
			Help: "Number of cohorts used by the last successful training run",
		},
	)

	ModelEvaluationError = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "predictor_evaluation_error",
			Help: "Error of the last holdout evaluation",
		},
		[]string{"measure"}, // "mse", "mae", "r2"
	)

	// State Store Metrics
	StateStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_store_operations_total",
			Help: "Total number of model state store operations",
		},
		[]string{"backend", "operation", "result"}, // result: "success", "not_found", "error"
	)

	StateStoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "state_store_operation_duration_seconds",
			Help:    "Duration of model state store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordCalculation records one full metrics calculation.
// computed lists the blocks that produced a result; every other name in
// blocks is recorded as skipped.
func RecordCalculation(duration time.Duration, rows int, confidence float64, blocks, computed []string) {
	CalculationDuration.Observe(duration.Seconds())
	CalculationRows.Observe(float64(rows))
	CalculationConfidence.Observe(confidence)

	done := make(map[string]bool, len(computed))
	for _, b := range computed {
		done[b] = true
	}
	for _, b := range blocks {
		outcome := "skipped"
		if done[b] {
			outcome = "computed"
		}
		MetricBlocks.WithLabelValues(b, outcome).Inc()
	}
}

// RecordPrediction records a served prediction
func RecordPrediction(kind, method string, confidence float64) {
	PredictionsTotal.WithLabelValues(kind, method).Inc()
	PredictionConfidence.WithLabelValues(kind).Observe(confidence)
}

// RecordTraining records a training run. cohorts is only used on success.
func RecordTraining(cohorts int, err error) {
	if err != nil {
		ModelTrainings.WithLabelValues("insufficient_data").Inc()
		return
	}
	ModelTrainings.WithLabelValues("success").Inc()
	ModelTrainingCohorts.Set(float64(cohorts))
}

// RecordEvaluation records the result of a holdout evaluation
func RecordEvaluation(mse, mae, r2 float64) {
	ModelEvaluationError.WithLabelValues("mse").Set(mse)
	ModelEvaluationError.WithLabelValues("mae").Set(mae)
	ModelEvaluationError.WithLabelValues("r2").Set(r2)
}

// RecordStateStoreOperation records a state store operation
func RecordStateStoreOperation(backend, operation, result string, duration time.Duration) {
	StateStoreOperations.WithLabelValues(backend, operation, result).Inc()
	StateStoreDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordCircuitBreakerTransition records a breaker state change. States are
// the gobreaker state names ("closed", "half-open", "open").
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	if to == "closed" {
		CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
	}
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
