// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package api exposes the metrics calculator and the retention predictor over
HTTP using the Chi router.

# Response Format

Every endpoint answers with the same envelope:

	{
	  "success": true,
	  "data": { ... },
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Errors set success to false and carry a machine-readable code:

	{
	  "success": false,
	  "error": {"code": "INSUFFICIENT_DATA", "message": "...", "details": {...}},
	  "meta": { ... }
	}

# Endpoints

	POST /api/v1/metrics/calculate   rows + column meanings -> CalculatedMetrics
	POST /api/v1/predict/retention   observed day values -> RetentionPrediction
	POST /api/v1/predict/d30         d1, d7 -> d30
	POST /api/v1/predict/ltv         curve (or trained curve), ARPDAU -> LTVPrediction
	POST /api/v1/model/train         cohorts -> ModelState (422 on too few cohorts)
	POST /api/v1/model/evaluate      cohorts -> ModelMetrics
	GET  /api/v1/model/features      feature importance table
	GET  /api/v1/model/state         current ModelState
	POST /api/v1/model/save          persist state
	POST /api/v1/model/load          restore state, {"loaded": bool}
	GET  /api/v1/health/live         liveness probe
	GET  /api/v1/health/ready        readiness probe (pings the state store)
	GET  /metrics                    Prometheus exposition

# Middleware

Requests pass through request ID propagation, panic recovery, Prometheus
instrumentation, CORS (go-chi/cors) and, outside the health probes, an
IP-keyed rate limiter (go-chi/httprate) and a request body size limit.
Request bodies are decoded with goccy/go-json and validated with
go-playground/validator through the validation package.
*/
package api
