// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"time"

	"github.com/tomtom215/cohortcast/internal/models"
)

// userActivity is the per-user state gathered in the single retention pass.
type userActivity struct {
	firstDay   int64
	days       map[int64]struct{}
	maxElapsed int64
}

// CalculateRetention computes classic and rolling cohort retention for each
// configured horizon. A user's cohort is the UTC day of their first observed
// activity. Users whose cohort is younger than a horizon are left out of that
// horizon's denominator. Returns nil when no row has both a user id and a
// parseable timestamp.
func CalculateRetention(rows []models.Row, userCol, tsCol string, cfg models.MetricConfig, now time.Time) *models.RetentionMetrics {
	if userCol == "" || tsCol == "" {
		return nil
	}

	users := make(map[string]*userActivity)
	for _, row := range rows {
		uid := cellString(row[userCol])
		if uid == "" {
			continue
		}
		ts, ok := ParseDate(row[tsCol])
		if !ok {
			continue
		}
		day := dayNumber(ts.Unix())

		ua, exists := users[uid]
		if !exists {
			ua = &userActivity{firstDay: day, days: make(map[int64]struct{})}
			users[uid] = ua
		}
		if day < ua.firstDay {
			ua.firstDay = day
		}
		ua.days[day] = struct{}{}
	}

	if len(users) == 0 {
		return nil
	}

	// One pass per user so each horizon check below is O(1).
	cohorts := make(map[int64]struct{})
	returning := 0
	for _, ua := range users {
		for d := range ua.days {
			if elapsed := d - ua.firstDay; elapsed > ua.maxElapsed {
				ua.maxElapsed = elapsed
			}
		}
		if len(ua.days) > 1 {
			returning++
		}
		cohorts[ua.firstDay] = struct{}{}
	}

	today := dayNumber(now.Unix())
	result := &models.RetentionMetrics{
		Classic:           make(map[int]float64, len(cfg.RetentionDays)),
		Rolling:           make(map[int]float64, len(cfg.RetentionDays)),
		Horizons:          make([]models.RetentionHorizon, 0, len(cfg.RetentionDays)),
		RollingWindowDays: cfg.RollingWindowDays,
		ReturnRate:        percent(float64(returning), float64(len(users))),
		CohortUsers:       len(users),
		CohortCount:       len(cohorts),
	}

	maxEligible := 0
	for _, horizon := range cfg.RetentionDays {
		d := int64(horizon)
		h := models.RetentionHorizon{Day: horizon}
		for _, ua := range users {
			if today-ua.firstDay < d {
				continue
			}
			h.EligibleUsers++
			if _, ok := ua.days[ua.firstDay+d]; ok {
				h.ClassicRetained++
			}
			if ua.maxElapsed >= d {
				h.RollingRetained++
			}
		}
		h.Classic = percent(float64(h.ClassicRetained), float64(h.EligibleUsers))
		h.Rolling = percent(float64(h.RollingRetained), float64(h.EligibleUsers))

		result.Classic[horizon] = h.Classic
		result.Rolling[horizon] = h.Rolling
		result.Horizons = append(result.Horizons, h)

		if h.EligibleUsers > maxEligible {
			maxEligible = h.EligibleUsers
		}
	}

	if len(cfg.RetentionDays) == 0 {
		maxEligible = len(users)
	}
	result.Confidence = userTiers.score(maxEligible)

	return result
}

// classicFraction returns classic retention for a day as a fraction, if computed.
func classicFraction(r *models.RetentionMetrics, day int) (float64, bool) {
	if r == nil {
		return 0, false
	}
	v, ok := r.Classic[day]
	if !ok {
		return 0, false
	}
	return v / 100, true
}
