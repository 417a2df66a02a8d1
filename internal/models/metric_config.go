// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package models

import "sort"

// MetricConfig holds the tunables for one metrics computation.
// A value is constructed per call and never mutated afterwards.
type MetricConfig struct {
	// RetentionDays are the day offsets for classic and rolling retention.
	RetentionDays []int `json:"retention_days"`

	// RollingWindowDays is the window reported alongside rolling retention.
	RollingWindowDays int `json:"rolling_window_days"`

	// LTVProjectionDays is the horizon used for predicted LTV.
	LTVProjectionDays int `json:"ltv_projection_days"`

	// Spender tier thresholds in USD of cumulative per-user revenue.
	WhaleThreshold   float64 `json:"whale_threshold"`
	DolphinThreshold float64 `json:"dolphin_threshold"`
	MinnowThreshold  float64 `json:"minnow_threshold"`
}

// DefaultMetricConfig returns the documented defaults.
func DefaultMetricConfig() MetricConfig {
	return MetricConfig{
		RetentionDays:     []int{1, 3, 7, 14, 30},
		RollingWindowDays: 7,
		LTVProjectionDays: 90,
		WhaleThreshold:    100,
		DolphinThreshold:  20,
		MinnowThreshold:   1,
	}
}

// MetricConfigOverrides is a partial MetricConfig supplied by a caller.
// Nil fields keep the base value.
type MetricConfigOverrides struct {
	RetentionDays     []int    `json:"retention_days,omitempty" validate:"omitempty,dive,gte=0,lte=3650"`
	RollingWindowDays *int     `json:"rolling_window_days,omitempty" validate:"omitempty,gte=1,lte=365"`
	LTVProjectionDays *int     `json:"ltv_projection_days,omitempty" validate:"omitempty,gte=1,lte=3650"`
	WhaleThreshold    *float64 `json:"whale_threshold,omitempty" validate:"omitempty,gte=0"`
	DolphinThreshold  *float64 `json:"dolphin_threshold,omitempty" validate:"omitempty,gte=0"`
	MinnowThreshold   *float64 `json:"minnow_threshold,omitempty" validate:"omitempty,gte=0"`
}

// Merge returns a copy of c with the non-nil overrides applied.
// Retention days are de-duplicated and sorted ascending.
func (c MetricConfig) Merge(o *MetricConfigOverrides) MetricConfig {
	merged := c
	merged.RetentionDays = append([]int(nil), c.RetentionDays...)

	if o != nil {
		if len(o.RetentionDays) > 0 {
			merged.RetentionDays = append([]int(nil), o.RetentionDays...)
		}
		if o.RollingWindowDays != nil {
			merged.RollingWindowDays = *o.RollingWindowDays
		}
		if o.LTVProjectionDays != nil {
			merged.LTVProjectionDays = *o.LTVProjectionDays
		}
		if o.WhaleThreshold != nil {
			merged.WhaleThreshold = *o.WhaleThreshold
		}
		if o.DolphinThreshold != nil {
			merged.DolphinThreshold = *o.DolphinThreshold
		}
		if o.MinnowThreshold != nil {
			merged.MinnowThreshold = *o.MinnowThreshold
		}
	}

	merged.RetentionDays = normalizeDays(merged.RetentionDays)
	return merged
}

func normalizeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
