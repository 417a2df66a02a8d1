// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package api

import (
	"time"

	"github.com/tomtom215/cohortcast/internal/analytics"
	"github.com/tomtom215/cohortcast/internal/cache"
	"github.com/tomtom215/cohortcast/internal/models"
	"github.com/tomtom215/cohortcast/internal/predictor"
	"github.com/tomtom215/cohortcast/internal/statestore"
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	calc      *analytics.Calculator
	predictor *predictor.RetentionPredictor
	store     statestore.Store
	cache     *cache.Cache[*models.CalculatedMetrics]
	metricCfg models.MetricConfig
	startTime time.Time
}

// HandlerDeps lists the collaborators of a Handler. Store and Cache are
// optional.
type HandlerDeps struct {
	Calculator   *analytics.Calculator
	Predictor    *predictor.RetentionPredictor
	Store        statestore.Store
	Cache        *cache.Cache[*models.CalculatedMetrics]
	MetricConfig models.MetricConfig
}

// NewHandler creates a new Handler. A nil Calculator is replaced by one
// projecting LTV through the predictor.
func NewHandler(deps HandlerDeps) *Handler {
	calc := deps.Calculator
	if calc == nil {
		calc = analytics.NewCalculator(nil)
		if deps.Predictor != nil {
			calc.Projector = deps.Predictor
		}
	}
	return &Handler{
		calc:      calc,
		predictor: deps.Predictor,
		store:     deps.Store,
		cache:     deps.Cache,
		metricCfg: deps.MetricConfig.Merge(nil),
		startTime: time.Now(),
	}
}
