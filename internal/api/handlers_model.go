// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cohortcast/internal/predictor"
)

// TrainModel replaces the trained curve with the average of the posted
// cohorts. Too few cohorts answer 422 INSUFFICIENT_DATA and leave the
// model untouched.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CohortsRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	if err := h.predictor.Train(req.Cohorts); err != nil {
		if errors.Is(err, predictor.ErrInsufficientData) {
			rw.ErrorWithDetails(http.StatusUnprocessableEntity, ErrCodeInsufficientData, err.Error(),
				map[string]int{
					"cohorts":  len(req.Cohorts),
					"required": h.predictor.MinCohorts(),
				})
			return
		}
		rw.InternalError("Training failed")
		return
	}

	rw.Success(h.predictor.State())
}

// EvaluateModel runs holdout validation over the posted cohorts.
func (h *Handler) EvaluateModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CohortsRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	rw.Success(h.predictor.Evaluate(req.Cohorts))
}

// ModelFeatures returns the static feature importance table.
func (h *Handler) ModelFeatures(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.predictor.FeatureImportance())
}

// ModelState returns the in-memory model state.
func (h *Handler) ModelState(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.predictor.State())
}

// SaveModel persists the model state to the state store.
func (h *Handler) SaveModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.predictor.Save(r.Context()); err != nil {
		if errors.Is(err, predictor.ErrNoStore) {
			rw.ServiceUnavailable("No state store configured")
			return
		}
		rw.StoreError(err)
		return
	}

	rw.Success(SaveResponse{Saved: true, State: h.predictor.State()})
}

// LoadModel replaces the model with the persisted state. Missing or
// malformed state is reported as loaded=false, not as an error.
func (h *Handler) LoadModel(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(LoadResponse{Loaded: h.predictor.Load(r.Context())})
}
