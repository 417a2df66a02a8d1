// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package predictor

import (
	"math"
	"sort"
)

// powerLaw is the curve R(t) = a * t^(-b).
type powerLaw struct {
	a, b float64
}

func (p powerLaw) at(day int) float64 {
	if day <= 0 {
		return 1
	}
	return p.a * math.Pow(float64(day), -p.b)
}

type point struct {
	day       int
	retention float64
}

// sortedPoints returns the observations ordered by day.
func sortedPoints(observed map[int]float64) []point {
	pts := make([]point, 0, len(observed))
	for d, r := range observed {
		pts = append(pts, point{day: d, retention: r})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].day < pts[j].day })
	return pts
}

// fitPowerLaw runs ordinary least squares on (ln t, ln R). Points at day 0 or
// with non-positive retention are ignored. ok is false with fewer than two
// usable points or when every usable point shares the same day.
func fitPowerLaw(observed map[int]float64) (powerLaw, bool) {
	var xs, ys []float64
	for _, p := range sortedPoints(observed) {
		if p.day <= 0 || p.retention <= 0 || math.IsNaN(p.retention) || math.IsInf(p.retention, 0) {
			continue
		}
		xs = append(xs, math.Log(float64(p.day)))
		ys = append(ys, math.Log(p.retention))
	}
	if len(xs) < 2 {
		return powerLaw{}, false
	}

	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return powerLaw{}, false
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	return powerLaw{a: math.Exp(intercept), b: -slope}, true
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
