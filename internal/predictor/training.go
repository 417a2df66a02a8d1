// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package predictor

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/cohortcast/internal/metrics"
	"github.com/tomtom215/cohortcast/internal/models"
)

// gapDecay is applied to the previous day when a day has no cohort data.
const gapDecay = 0.9

// MinCohorts is the number of cohorts Train requires: MinDataPoints/100
// with integer division. A MinDataPoints below 100 therefore requires none;
// the HTTP layer still rejects an empty cohort list.
func (p *RetentionPredictor) MinCohorts() int {
	return p.cfg.MinDataPoints / 100
}

// Train averages retention across cohorts for days 0-30 and stores the
// result as the trained curve. Days without data continue from the prior
// day at a 0.9 decay; day 0 defaults to 1. Fewer than MinCohorts cohorts
// fail with ErrInsufficientData and leave the current model unchanged.
func (p *RetentionPredictor) Train(cohorts []models.CohortData) error {
	need := p.MinCohorts()
	if len(cohorts) < need {
		err := fmt.Errorf("%w: got %d cohorts, need at least %d", ErrInsufficientData, len(cohorts), need)
		metrics.RecordTraining(0, err)
		p.logger.Warn().Int("cohorts", len(cohorts)).Int("required", need).Msg("training rejected")
		return err
	}

	start := time.Now()
	curve := make([]float64, models.CurveLength)
	for day := 0; day < models.CurveLength; day++ {
		var sum float64
		n := 0
		for _, c := range cohorts {
			r, ok := c.Retention[day]
			if !ok || math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
				continue
			}
			sum += r
			n++
		}
		switch {
		case n > 0:
			curve[day] = sum / float64(n)
		case day == 0:
			curve[day] = 1.0
		default:
			curve[day] = curve[day-1] * gapDecay
		}
	}

	p.mu.Lock()
	p.trainedCurve = curve
	p.trainedOn = len(cohorts)
	p.markChangedLocked()
	p.mu.Unlock()

	metrics.RecordTraining(len(cohorts), nil)
	p.logger.Info().
		Int("cohorts", len(cohorts)).
		Float64("d1", curve[1]).
		Float64("d7", curve[7]).
		Float64("d30", curve[30]).
		Dur("duration", time.Since(start)).
		Msg("retention curve trained")
	return nil
}

// Evaluate runs holdout validation. The last ceil(n*ValidationSplit) cohorts
// (at least one) are held out; for each, the first half of its observed days
// predicts the second half. R2 is reported as 1 - MSE, an approximation
// rather than a true coefficient of determination. Fewer than two cohorts
// yield zero metrics.
func (p *RetentionPredictor) Evaluate(cohorts []models.CohortData) models.ModelMetrics {
	if len(cohorts) < 2 {
		return models.ModelMetrics{}
	}

	holdout := int(math.Ceil(float64(len(cohorts)) * p.cfg.ValidationSplit))
	holdout = min(max(holdout, 1), len(cohorts))

	var sqErr, absErr float64
	samples := 0
	for _, c := range cohorts[len(cohorts)-holdout:] {
		days := make([]int, 0, len(c.Retention))
		for d := range c.Retention {
			days = append(days, d)
		}
		sort.Ints(days)
		if len(days) < 2 {
			continue
		}

		half := len(days) / 2
		known := make(map[int]float64, half)
		for _, d := range days[:half] {
			known[d] = c.Retention[d]
		}
		for _, d := range days[half:] {
			diff := p.predictRetention(known, d).Value - c.Retention[d]
			sqErr += diff * diff
			absErr += math.Abs(diff)
			samples++
		}
	}

	if samples == 0 {
		return models.ModelMetrics{}
	}

	mse := sqErr / float64(samples)
	result := models.ModelMetrics{
		MSE:         mse,
		MAE:         absErr / float64(samples),
		R2:          1 - mse,
		Samples:     samples,
		EvaluatedAt: time.Now().UTC(),
	}

	p.mu.Lock()
	p.metrics = result
	p.markChangedLocked()
	p.mu.Unlock()

	metrics.RecordEvaluation(result.MSE, result.MAE, result.R2)
	p.logger.Info().
		Int("holdout", holdout).
		Int("samples", samples).
		Float64("mse", result.MSE).
		Float64("mae", result.MAE).
		Msg("retention model evaluated")
	return result
}

// featureImportance is hand-authored, not learned.
var featureImportance = []models.FeatureImportance{
	{Feature: "d1_retention", Importance: 0.35, Description: "Share of the cohort returning the day after install"},
	{Feature: "d7_retention", Importance: 0.25, Description: "Share of the cohort active one week after install"},
	{Feature: "session_frequency", Importance: 0.15, Description: "Sessions per active day relative to DAU"},
	{Feature: "early_monetization", Importance: 0.10, Description: "Conversion within the first days"},
	{Feature: "progression_depth", Importance: 0.08, Description: "Levels completed in the first sessions"},
	{Feature: "game_type", Importance: 0.07, Description: "Genre archetype used as the reference decay"},
}

// FeatureImportance returns the static weight table, highest weight first.
func (p *RetentionPredictor) FeatureImportance() []models.FeatureImportance {
	out := append([]models.FeatureImportance(nil), featureImportance...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}
