// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cohortcast/internal/logging"
)

// readyTimeout bounds the state store ping of the readiness probe.
const readyTimeout = 2 * time.Second

// HealthLive handles liveness probe requests. It always returns 200 while
// the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests. It returns 503 when the
// configured state store does not answer a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	backend := "none"
	if h.store != nil {
		backend = h.store.Backend()

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		err := h.store.Ping(ctx)
		cancel()
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("backend", backend).Msg("readiness check failed")
			rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "State store unavailable",
				map[string]string{"store": backend})
			return
		}
	}

	rw.Success(map[string]interface{}{
		"ready":     true,
		"store":     backend,
		"trained":   h.predictor.TrainedCurve() != nil,
		"game_type": h.predictor.GameType(),
	})
}
