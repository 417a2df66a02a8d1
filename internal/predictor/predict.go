// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package predictor

import (
	"fmt"
	"math"

	"github.com/tomtom215/cohortcast/internal/metrics"
	"github.com/tomtom215/cohortcast/internal/models"
)

// Prediction methods.
const (
	MethodObserved    = "observed"
	MethodPowerLaw    = "power_law"
	MethodArchetype   = "archetype"
	MethodEarlyRatio  = "early_ratio"
	MethodCohortCurve = "cohort_curve"
)

const (
	minRetention = 0.001
	maxRetention = 1.0

	// predictionCeiling keeps model output below the certainty of an observation.
	predictionCeiling  = 0.9
	fullEvidencePoints = 7.0
	gapDecayDays       = 30.0

	benchmarkUpper = 1.1
	benchmarkLower = 0.9

	defaultDecayRate = 0.05
	ltvFitWindow     = 30
	minLTVConfidence = 0.3
	minD30           = 0.01
	d30ToD7Ceiling   = 0.8
)

// PredictRetention estimates retention on targetDay from observed
// (day, retention) pairs. An observed target is returned as-is with
// confidence 1. Otherwise a power law is fitted in log-log space; with fewer
// than two usable points the archetype pattern is used instead. Predictions
// are clamped to [0.001, 1].
func (p *RetentionPredictor) PredictRetention(observed map[int]float64, targetDay int) models.RetentionPrediction {
	pred := p.predictRetention(observed, targetDay)
	metrics.RecordPrediction("retention", pred.Method, pred.Confidence)
	return pred
}

func (p *RetentionPredictor) predictRetention(observed map[int]float64, targetDay int) models.RetentionPrediction {
	gameType := p.GameType()
	pred := models.RetentionPrediction{TargetDay: targetDay}

	fit, fitted := fitPowerLaw(observed)
	model := func(day int) float64 {
		if fitted {
			return clamp(fit.at(day), minRetention, maxRetention)
		}
		return clamp(archetypeRetention(gameType, day), minRetention, maxRetention)
	}

	if v, ok := observed[targetDay]; ok {
		pred.Value = v
		pred.Confidence = 1.0
		pred.Method = MethodObserved
		pred.Factors = []models.PredictionFactor{{
			Name:   "observed_value",
			Impact: "positive",
			Weight: 1,
			Detail: fmt.Sprintf("day %d retention was observed directly", targetDay),
		}}
	} else {
		pred.Value = model(targetDay)
		if fitted {
			pred.Method = MethodPowerLaw
		} else {
			pred.Method = MethodArchetype
		}

		n := float64(len(observed))
		gap := float64(nearestGap(observed, targetDay))
		evidence := math.Min(1, n/fullEvidencePoints)
		proximity := math.Exp(-gap / gapDecayDays)
		pred.Confidence = clamp(evidence*proximity*predictionCeiling, 0, 1)

		spread := (1 - pred.Confidence) / 2
		pred.Range = &models.PredictionRange{
			Low:  clamp(pred.Value*(1-spread), minRetention, maxRetention),
			High: clamp(pred.Value*(1+spread), minRetention, maxRetention),
		}
		pred.Factors = predictionFactors(len(observed), int(gap), fit, fitted, gameType)
	}

	pred.Curve = make([]models.CurvePoint, 0, max(targetDay, 0)+1)
	for day := 0; day <= targetDay; day++ {
		if v, ok := observed[day]; ok {
			pred.Curve = append(pred.Curve, models.CurvePoint{Day: day, Retention: v, Observed: true})
			continue
		}
		pred.Curve = append(pred.Curve, models.CurvePoint{Day: day, Retention: model(day)})
	}

	pred.Benchmark = benchmark(gameType, targetDay, pred.Value)
	return pred
}

// nearestGap is the distance in days from target to the closest observation.
func nearestGap(observed map[int]float64, target int) int {
	if len(observed) == 0 {
		return target
	}
	best := math.MaxInt
	for day := range observed {
		d := target - day
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
	}
	return best
}

func predictionFactors(points, gap int, fit powerLaw, fitted bool, gameType string) []models.PredictionFactor {
	factors := []models.PredictionFactor{
		{
			Name:   "observed_points",
			Impact: impact(points >= int(fullEvidencePoints)),
			Weight: math.Min(1, float64(points)/fullEvidencePoints),
			Detail: fmt.Sprintf("%d observed day(s)", points),
		},
		{
			Name:   "extrapolation_distance",
			Impact: impact(gap <= 7),
			Weight: math.Exp(-float64(gap) / gapDecayDays),
			Detail: fmt.Sprintf("%d day(s) from the nearest observation", gap),
		},
	}
	if fitted {
		factors = append(factors, models.PredictionFactor{
			Name:   "decay_exponent",
			Impact: impact(fit.b < 0.5),
			Weight: fit.b,
			Detail: fmt.Sprintf("R(t) = %.4f * t^-%.4f", fit.a, fit.b),
		})
	} else {
		factors = append(factors, models.PredictionFactor{
			Name:   "archetype_pattern",
			Impact: "neutral",
			Weight: 1,
			Detail: fmt.Sprintf("reference pattern for %s", gameType),
		})
	}
	return factors
}

func impact(good bool) string {
	if good {
		return "positive"
	}
	return "negative"
}

func benchmark(gameType string, day int, value float64) *models.BenchmarkComparison {
	ref := archetypeRetention(gameType, day)
	verdict := models.BenchmarkAt
	switch {
	case value > ref*benchmarkUpper:
		verdict = models.BenchmarkAbove
	case value < ref*benchmarkLower:
		verdict = models.BenchmarkBelow
	}
	return &models.BenchmarkComparison{
		GameType:   gameType,
		Reference:  ref,
		Difference: value - ref,
		Verdict:    verdict,
	}
}

// PredictD30FromEarly projects day-30 retention from day-1 and day-7. The
// two-point power law is rescaled by how the observed D7/D1 ratio compares
// with the archetype's, then clamped to [0.01, min(0.8*d7, projection)].
func (p *RetentionPredictor) PredictD30FromEarly(d1, d7 float64) float64 {
	d30 := p.predictD30(d1, d7)
	metrics.PredictionsTotal.WithLabelValues("d30", MethodEarlyRatio).Inc()
	return d30
}

func (p *RetentionPredictor) predictD30(d1, d7 float64) float64 {
	if d1 <= 0 || d7 <= 0 || math.IsNaN(d1) || math.IsNaN(d7) {
		return minD30
	}
	gameType := p.GameType()

	alpha := math.Log(d1/d7) / math.Log(7)
	projected := d1 * math.Pow(30, -alpha)

	expected := archetypeRetention(gameType, 7) / archetypeRetention(gameType, 1)
	actual := d7 / d1
	scaled := projected * (actual / expected)

	upper := math.Min(d7*d30ToD7Ceiling, scaled)
	return math.Max(minD30, upper)
}

// PredictCohortLTV sums retention(day) * dailyARPDAU over days
// [0, horizonDays). Known curve points are used directly; other days decay
// exponentially from the most recent known point, at the rate implied by the
// first and last known points within 30 days, floored at 0.001. Day 0
// defaults to 1 when absent.
func (p *RetentionPredictor) PredictCohortLTV(curve map[int]float64, dailyARPDAU float64, horizonDays int) models.LTVPrediction {
	pred := cohortLTV(curve, dailyARPDAU, horizonDays)
	metrics.RecordPrediction("ltv", MethodCohortCurve, pred.Confidence)
	return pred
}

func cohortLTV(curve map[int]float64, dailyARPDAU float64, horizonDays int) models.LTVPrediction {
	known := make(map[int]float64, len(curve)+1)
	for day, r := range curve {
		if day < 0 || math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			continue
		}
		known[day] = math.Min(r, maxRetention)
	}
	if _, ok := known[0]; !ok {
		known[0] = 1.0
	}
	pts := sortedPoints(known)
	lastKnown := pts[len(pts)-1].day

	rate := defaultDecayRate
	var window []point
	for _, pt := range pts {
		if pt.day <= ltvFitWindow && pt.retention > 0 {
			window = append(window, pt)
		}
	}
	if len(window) >= 2 {
		first, last := window[0], window[len(window)-1]
		if r := math.Log(first.retention/last.retention) / float64(last.day-first.day); r > 0 && !math.IsInf(r, 0) {
			rate = r
		}
	}

	pred := models.LTVPrediction{
		HorizonDays:  horizonDays,
		DailyARPDAU:  dailyARPDAU,
		LastKnownDay: lastKnown,
		DecayRate:    rate,
	}
	if horizonDays <= 0 {
		pred.Confidence = 1
		return pred
	}

	anchor := pts[0]
	next := 1
	var active float64
	for day := 0; day < horizonDays; day++ {
		for next < len(pts) && pts[next].day <= day {
			anchor = pts[next]
			next++
		}
		retention := anchor.retention
		if anchor.day != day {
			retention = math.Max(minRetention, anchor.retention*math.Exp(-rate*float64(day-anchor.day)))
		}
		active += retention
	}

	extension := float64(horizonDays - 1 - lastKnown)
	confidence := 1.0
	if extension > 0 {
		confidence = math.Max(minLTVConfidence, 1-extension/float64(horizonDays))
	}

	pred.ExpectedActive = math.Round(active*10000) / 10000
	pred.LTV = math.Round(active*dailyARPDAU*100) / 100
	pred.Confidence = math.Round(confidence*100) / 100
	return pred
}
