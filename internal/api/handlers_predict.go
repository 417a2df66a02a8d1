// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package api

import "net/http"

// PredictRetention projects retention on the target day from the observed
// day values.
func (h *Handler) PredictRetention(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PredictRetentionRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	rw.Success(h.predictor.PredictRetention(req.Observed, req.TargetDay))
}

// PredictD30 estimates day-30 retention from day-1 and day-7 values.
func (h *Handler) PredictD30(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PredictD30Request
	if !decodeJSON(rw, r, &req) {
		return
	}

	rw.Success(PredictD30Response{D30: h.predictor.PredictD30FromEarly(req.D1, req.D7)})
}

// PredictLTV projects cumulative revenue per user over the horizon. When
// no curve is posted the trained curve is used; an untrained model then
// answers 409.
func (h *Handler) PredictLTV(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PredictLTVRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	curve := req.Curve
	if len(curve) == 0 {
		trained := h.predictor.TrainedCurve()
		if trained == nil {
			rw.Error(http.StatusConflict, ErrCodeModelNotTrained,
				"No curve supplied and the model has not been trained")
			return
		}
		curve = make(map[int]float64, len(trained))
		for day, v := range trained {
			curve[day] = v
		}
	}

	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = h.metricCfg.LTVProjectionDays
	}

	rw.Success(h.predictor.PredictCohortLTV(curve, req.DailyARPDAU, horizon))
}
