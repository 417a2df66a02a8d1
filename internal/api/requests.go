// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cohortcast/internal/models"
	"github.com/tomtom215/cohortcast/internal/validation"
)

// Request bodies accepted by the API. Validation tags use
// go-playground/validator syntax; field names in validation errors follow
// the json tags.

// CalculateRequest is the body of POST /api/v1/metrics/calculate.
type CalculateRequest struct {
	Rows    []models.Row                  `json:"rows"`
	Columns []models.ColumnMeaning        `json:"columns" validate:"dive"`
	Config  *models.MetricConfigOverrides `json:"config,omitempty"`
}

// PredictRetentionRequest is the body of POST /api/v1/predict/retention.
type PredictRetentionRequest struct {
	Observed  map[int]float64 `json:"observed" validate:"dive,keys,gte=0,endkeys,gte=0,lte=1"`
	TargetDay int             `json:"target_day" validate:"gte=0,lte=365"`
}

// PredictD30Request is the body of POST /api/v1/predict/d30.
type PredictD30Request struct {
	D1 float64 `json:"d1" validate:"gte=0,lte=1"`
	D7 float64 `json:"d7" validate:"gte=0,lte=1"`
}

// PredictD30Response is the result of POST /api/v1/predict/d30.
type PredictD30Response struct {
	D30 float64 `json:"d30"`
}

// PredictLTVRequest is the body of POST /api/v1/predict/ltv. A missing
// curve selects the trained curve; a zero horizon selects the configured
// LTV projection horizon.
type PredictLTVRequest struct {
	Curve       map[int]float64 `json:"curve,omitempty" validate:"omitempty,dive,keys,gte=0,endkeys,gte=0,lte=1"`
	DailyARPDAU float64         `json:"daily_arpdau" validate:"gte=0"`
	HorizonDays int             `json:"horizon_days" validate:"gte=0,lte=3650"`
}

// CohortsRequest is the body of the train and evaluate endpoints.
type CohortsRequest struct {
	Cohorts []models.CohortData `json:"cohorts" validate:"required,min=1,dive"`
}

// LoadResponse reports whether persisted state replaced the model.
type LoadResponse struct {
	Loaded bool `json:"loaded"`
}

// SaveResponse reports a completed save.
type SaveResponse struct {
	Saved bool              `json:"saved"`
	State models.ModelState `json:"state"`
}

var errEmptyBody = errors.New("request body is required")

// decodeJSON decodes the request body into v and validates it. On failure
// the error response has already been written and false is returned.
func decodeJSON(rw *ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			rw.BadRequest(errEmptyBody.Error())
		default:
			rw.BadRequest("Invalid JSON body: " + err.Error())
		}
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		rw.ValidationError(verr)
		return false
	}
	return true
}
