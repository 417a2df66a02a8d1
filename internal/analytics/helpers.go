// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"math"
	"sort"
)

// confidenceTiers maps a sample size to a confidence score. Tiers are
// checked in order and the first threshold met wins.
type confidenceTiers []struct {
	min   int
	score float64
}

// userTiers is shared by the retention, engagement and progression engines.
var userTiers = confidenceTiers{
	{1000, 0.9},
	{500, 0.8},
	{100, 0.7},
	{50, 0.6},
}

// payerTiers scores monetization by paying-user count.
var payerTiers = confidenceTiers{
	{500, 0.9},
	{200, 0.8},
	{50, 0.7},
	{20, 0.6},
}

const baseConfidence = 0.5

func (tiers confidenceTiers) score(n int) float64 {
	for _, t := range tiers {
		if n >= t.min {
			return t.score
		}
	}
	return baseConfidence
}

// scoreWithTopRequirement caps the score one tier below the top when the
// extra requirement for the top tier is not met.
func (tiers confidenceTiers) scoreWithTopRequirement(n int, topMet bool) float64 {
	if len(tiers) > 0 && n >= tiers[0].min && !topMet {
		if len(tiers) > 1 {
			return tiers[1].score
		}
		return baseConfidence
	}
	return tiers.score(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percent returns part/whole*100 rounded to 2 decimals, or 0 when whole is 0.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(part / whole * 100)
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func average(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// dayNumber is the count of whole UTC days since the Unix epoch.
func dayNumber(t int64) int64 {
	if t < 0 {
		return (t - 86399) / 86400
	}
	return t / 86400
}
