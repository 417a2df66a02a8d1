// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package api

import (
	"net/http"

	"github.com/tomtom215/cohortcast/internal/cache"
	"github.com/tomtom215/cohortcast/internal/logging"
	"github.com/tomtom215/cohortcast/internal/models"
)

// CalculateMetrics computes every resolvable metric block for the posted
// dataset. Request config overrides merge over the service defaults.
// Results are cached by a hash of the request body when caching is on.
func (h *Handler) CalculateMetrics(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CalculateRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	var key string
	if h.cache != nil {
		key = cache.GenerateKey("metrics.calculate", req)
		if result, ok := h.cache.Get(key); ok {
			w.Header().Set("X-Cache", "HIT")
			rw.Success(result)
			return
		}
		w.Header().Set("X-Cache", "MISS")
	}

	cfg := h.metricCfg.Merge(req.Config)
	result := h.calc.Calculate(r.Context(), models.NormalizedData{Rows: req.Rows}, req.Columns, cfg)

	logging.Ctx(r.Context()).Debug().
		Int("rows", len(req.Rows)).
		Strs("available", result.AvailableMetrics).
		Msg("metrics calculated")

	if h.cache != nil {
		h.cache.Set(key, result)
	}
	rw.Success(result)
}
