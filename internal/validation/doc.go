// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

// Package validation wraps go-playground/validator for API request bodies.
//
// Request types declare their rules in validate tags; ValidateStruct runs
// them and returns a RequestValidationError whose fields carry json-style
// paths and readable messages:
//
//	type TrainRequest struct {
//	    Cohorts []models.CohortData `json:"cohorts" validate:"required,min=1,dive"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // 400 VALIDATION_FAILED, verr.Details()
//	}
//
// The validator instance is created once and shared; it is safe for
// concurrent use.
package validation
