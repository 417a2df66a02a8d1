// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package predictor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cohortcast/internal/models"
	"github.com/tomtom215/cohortcast/internal/statestore"
)

var (
	// ErrInsufficientData is returned by Train when fewer cohorts than the
	// configured minimum are supplied.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrNoStore is returned by Save when no state store is configured.
	ErrNoStore = errors.New("no state store configured")
)

// DefaultStateKey is the store key holding the persisted ModelState.
const DefaultStateKey = "retention_predictor_state"

// Config holds predictor settings.
type Config struct {
	// GameType selects the reference archetype pattern.
	GameType string

	// MinDataPoints sets the training minimum. Train requires
	// MinDataPoints/100 cohorts.
	MinDataPoints int

	// ValidationSplit is the fraction of cohorts held out by Evaluate.
	ValidationSplit float64

	// StateKey is the key used by Save and Load.
	StateKey string
}

// DefaultConfig returns the predictor defaults.
func DefaultConfig() Config {
	return Config{
		GameType:        GameTypeDefault,
		MinDataPoints:   500,
		ValidationSplit: 0.2,
		StateKey:        DefaultStateKey,
	}
}

// StateStore persists the serialized model state.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RetentionPredictor projects retention and LTV from partial observations.
// The prediction methods are CPU-bound and synchronous; Save and Load are
// the only operations that touch the state store. All methods are safe for
// concurrent use.
type RetentionPredictor struct {
	mu sync.RWMutex

	cfg    Config
	store  StateStore
	logger zerolog.Logger

	trainedCurve []float64
	gameType     string
	metrics      models.ModelMetrics
	trainedOn    int
	changed      bool

	// version increases on every change and load. Save clears changed only
	// if version still matches its snapshot.
	version uint64
}

// New creates a predictor. store may be nil, in which case Save returns
// ErrNoStore and Load reports no prior state.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, store StateStore, logger zerolog.Logger) *RetentionPredictor {
	defaults := DefaultConfig()
	if cfg.StateKey == "" {
		cfg.StateKey = defaults.StateKey
	}
	if cfg.ValidationSplit <= 0 || cfg.ValidationSplit >= 1 {
		cfg.ValidationSplit = defaults.ValidationSplit
	}
	if cfg.MinDataPoints < 0 {
		cfg.MinDataPoints = 0
	}
	cfg.GameType = NormalizeGameType(cfg.GameType)

	return &RetentionPredictor{
		cfg:      cfg,
		store:    store,
		logger:   logger.With().Str("component", "predictor").Logger(),
		gameType: cfg.GameType,
	}
}

// GameType returns the current archetype label.
func (p *RetentionPredictor) GameType() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gameType
}

// SetGameType switches the reference archetype. Unknown labels select default.
func (p *RetentionPredictor) SetGameType(gameType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	normalized := NormalizeGameType(gameType)
	if normalized != p.gameType {
		p.gameType = normalized
		p.markChangedLocked()
	}
}

// TrainedCurve returns a copy of the trained curve, or nil before training.
func (p *RetentionPredictor) TrainedCurve() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.trainedCurve == nil {
		return nil
	}
	return append([]float64(nil), p.trainedCurve...)
}

// State returns a snapshot of the persisted form.
func (p *RetentionPredictor) State() models.ModelState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stateLocked()
}

func (p *RetentionPredictor) stateLocked() models.ModelState {
	var curve []float64
	if p.trainedCurve != nil {
		curve = append([]float64(nil), p.trainedCurve...)
	}
	return models.ModelState{
		TrainedCurve: curve,
		GameType:     p.gameType,
		Metrics:      p.metrics,
		TrainedOn:    p.trainedOn,
	}
}

// markChangedLocked flags unsaved changes. Callers hold p.mu.
func (p *RetentionPredictor) markChangedLocked() {
	p.changed = true
	p.version++
}

// Changed reports whether the model changed since the last Save or Load.
func (p *RetentionPredictor) Changed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.changed
}

// Initialize restores persisted state if any exists. It reports whether
// prior state was loaded.
func (p *RetentionPredictor) Initialize(ctx context.Context) bool {
	loaded := p.Load(ctx)
	p.logger.Info().
		Bool("restored", loaded).
		Str("game_type", p.GameType()).
		Msg("retention predictor initialized")
	return loaded
}

// Save writes the current state to the store. A change made while the
// write is in flight keeps the model marked changed, so the next Save
// persists it.
func (p *RetentionPredictor) Save(ctx context.Context) error {
	if p.store == nil {
		return ErrNoStore
	}

	p.mu.RLock()
	state := p.stateLocked()
	version := p.version
	p.mu.RUnlock()
	state.SavedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal model state: %w", err)
	}
	if err := p.store.Set(ctx, p.cfg.StateKey, data); err != nil {
		return fmt.Errorf("failed to save model state: %w", err)
	}

	p.mu.Lock()
	current := p.version == version
	if current {
		p.changed = false
	}
	p.mu.Unlock()

	p.logger.Info().
		Str("key", p.cfg.StateKey).
		Bool("trained", state.TrainedCurve != nil).
		Bool("superseded", !current).
		Msg("model state saved")
	return nil
}

// Load replaces the in-memory state with the persisted one. Missing,
// unreadable or malformed state is logged and reported as false; the
// current state is left untouched in that case.
func (p *RetentionPredictor) Load(ctx context.Context) bool {
	if p.store == nil {
		p.logger.Debug().Msg("no state store configured, skipping load")
		return false
	}

	data, err := p.store.Get(ctx, p.cfg.StateKey)
	if err != nil {
		if errors.Is(err, statestore.ErrNotFound) {
			p.logger.Debug().Str("key", p.cfg.StateKey).Msg("no saved model state")
		} else {
			p.logger.Warn().Err(err).Str("key", p.cfg.StateKey).Msg("failed to read model state")
		}
		return false
	}

	var state models.ModelState
	if err := json.Unmarshal(data, &state); err != nil {
		p.logger.Warn().Err(err).Str("key", p.cfg.StateKey).Msg("failed to decode model state")
		return false
	}
	if state.TrainedCurve != nil && len(state.TrainedCurve) != models.CurveLength {
		p.logger.Warn().
			Int("length", len(state.TrainedCurve)).
			Int("expected", models.CurveLength).
			Msg("ignoring model state with malformed curve")
		return false
	}

	p.mu.Lock()
	p.trainedCurve = state.TrainedCurve
	p.gameType = NormalizeGameType(state.GameType)
	p.metrics = state.Metrics
	p.trainedOn = state.TrainedOn
	p.changed = false
	p.version++
	p.mu.Unlock()

	p.logger.Info().
		Str("key", p.cfg.StateKey).
		Str("game_type", state.GameType).
		Time("saved_at", state.SavedAt).
		Msg("model state loaded")
	return true
}
