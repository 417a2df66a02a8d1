// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handlers into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	maxBodyBytes  int64
}

// NewRouter creates a Router. A nil middleware uses the defaults;
// maxBodyBytes <= 0 disables the body limit.
func NewRouter(handler *Handler, mw *ChiMiddleware, maxBodyBytes int64) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		maxBodyBytes:  maxBodyBytes,
	}
}

// SetupChi builds the HTTP handler.
//
// Route layout:
//
//	/api/v1/health/{live,ready}  probes, not rate limited
//	/api/v1/metrics/calculate    metric computation
//	/api/v1/predict/...          retention, d30 and ltv projections
//	/api/v1/model/...            training, evaluation and persistence
//	/metrics                     prometheus exposition
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(PrometheusMetrics)
	r.Use(RequestLogger)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).MethodNotAllowed()
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(MaxBodySize(router.maxBodyBytes))

			r.Post("/metrics/calculate", h.CalculateMetrics)

			r.Route("/predict", func(r chi.Router) {
				r.Post("/retention", h.PredictRetention)
				r.Post("/d30", h.PredictD30)
				r.Post("/ltv", h.PredictLTV)
			})

			r.Route("/model", func(r chi.Router) {
				r.Post("/train", h.TrainModel)
				r.Post("/evaluate", h.EvaluateModel)
				r.Get("/features", h.ModelFeatures)
				r.Get("/state", h.ModelState)
				r.Post("/save", h.SaveModel)
				r.Post("/load", h.LoadModel)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
