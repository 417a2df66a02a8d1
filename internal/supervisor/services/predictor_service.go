// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cohortcast/internal/predictor"
)

// ModelPersister is the persistence surface of the retention predictor.
//
// Satisfied by *predictor.RetentionPredictor:
//   - Initialize restores saved state and reports whether any was found
//   - Changed reports unsaved changes
//   - Save writes the current state, returning predictor.ErrNoStore when
//     no store is configured
type ModelPersister interface {
	Initialize(ctx context.Context) bool
	Changed() bool
	Save(ctx context.Context) error
}

// PredictorServiceConfig holds configuration for the predictor service.
type PredictorServiceConfig struct {
	// LoadOnStartup restores persisted state on the first Serve.
	LoadOnStartup bool

	// AutosaveInterval is how often changed state is saved. Zero disables
	// periodic saves; the final save on shutdown still happens.
	AutosaveInterval time.Duration

	// SaveTimeout bounds each save. Default: 10s
	SaveTimeout time.Duration
}

// PredictorService owns the predictor's persistence lifecycle: an
// optional restore when first started, periodic saves while the model has
// unsaved changes, and a final save on shutdown.
type PredictorService struct {
	model  ModelPersister
	config PredictorServiceConfig
	logger zerolog.Logger
	name   string

	// restored is set after the first start so that a supervisor restart
	// does not overwrite in-memory changes with older persisted state.
	restored atomic.Bool
}

// NewPredictorService creates a new predictor service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPredictorService(model ModelPersister, cfg PredictorServiceConfig, logger zerolog.Logger) *PredictorService {
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 10 * time.Second
	}
	return &PredictorService{
		model:  model,
		config: cfg,
		logger: logger.With().Str("service", "predictor").Logger(),
		name:   "predictor-service",
	}
}

// Serve implements suture.Service.
//
// Lifecycle:
//  1. On the first start only, restore persisted state when LoadOnStartup
//     is set
//  2. Save on every autosave tick while the model reports changes
//  3. On cancellation, save once more with a fresh deadline and return the
//     context error
//
// Save failures are logged and never returned; the next tick retries.
func (s *PredictorService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("load_on_startup", s.config.LoadOnStartup).
		Dur("autosave_interval", s.config.AutosaveInterval).
		Msg("predictor service starting")

	if s.config.LoadOnStartup && s.restored.CompareAndSwap(false, true) {
		s.model.Initialize(ctx)
	}

	var tick <-chan time.Time
	if s.config.AutosaveInterval > 0 {
		ticker := time.NewTicker(s.config.AutosaveInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			// ctx is canceled; the final save runs on a fresh deadline.
			saveCtx, cancel := context.WithTimeout(context.Background(), s.config.SaveTimeout)
			s.saveIfChanged(saveCtx, "shutdown")
			cancel()
			s.logger.Info().Msg("predictor service stopped")
			return ctx.Err()

		case <-tick:
			saveCtx, cancel := context.WithTimeout(ctx, s.config.SaveTimeout)
			s.saveIfChanged(saveCtx, "autosave")
			cancel()
		}
	}
}

// saveIfChanged saves the model when it has unsaved changes. Failures are
// logged and retried on the next tick.
func (s *PredictorService) saveIfChanged(ctx context.Context, reason string) {
	if !s.model.Changed() {
		return
	}

	err := s.model.Save(ctx)
	switch {
	case err == nil:
		s.logger.Debug().Str("reason", reason).Msg("model state persisted")
	case errors.Is(err, predictor.ErrNoStore):
		s.logger.Debug().Str("reason", reason).Msg("model changed but no state store is configured")
	default:
		s.logger.Warn().Err(err).Str("reason", reason).Msg("failed to persist model state")
	}
}

// String returns the service name for suture's logs.
func (s *PredictorService) String() string {
	return s.name
}
