// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"context"
	"time"

	"github.com/tomtom215/cohortcast/internal/logging"
	"github.com/tomtom215/cohortcast/internal/metrics"
	"github.com/tomtom215/cohortcast/internal/models"
)

// Blocks lists every metric block the calculator can produce, in report order.
var Blocks = []string{
	models.MetricBlockRetention,
	models.MetricBlockEngagement,
	models.MetricBlockMonetization,
	models.MetricBlockProgression,
}

// LTVProjector projects per-user LTV from a retention curve keyed by day.
type LTVProjector interface {
	PredictCohortLTV(curve map[int]float64, dailyARPDAU float64, horizonDays int) models.LTVPrediction
}

// Calculator runs the metric engines over a dataset and assembles
// CalculatedMetrics. The zero value is usable. A Calculator holds no
// per-call state and may be shared between goroutines.
type Calculator struct {
	// Now supplies the reference time for retention eligibility. Defaults to time.Now.
	Now func() time.Time

	// Projector, when set, adds a curve-based LTV projection to monetization.
	Projector LTVProjector
}

// NewCalculator creates a Calculator with an optional LTV projector.
func NewCalculator(projector LTVProjector) *Calculator {
	return &Calculator{Now: time.Now, Projector: projector}
}

func (c *Calculator) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Calculate computes every metric block whose required columns resolve.
// Unresolvable blocks are nil and left out of AvailableMetrics; the call
// itself never fails.
func (c *Calculator) Calculate(ctx context.Context, data models.NormalizedData, meanings []models.ColumnMeaning, cfg models.MetricConfig) *models.CalculatedMetrics {
	start := time.Now()
	now := c.now()
	rows := data.Rows
	columns := NewColumns(meanings)
	log := logging.Ctx(ctx)

	userCol, hasUser := columns.UserID()
	tsCol, hasTS := columns.Timestamp()
	sessionCol, _ := columns.SessionID()
	durationCol, _ := columns.SessionDuration()
	revenueCol, hasRevenue := columns.Revenue()
	levelCol, hasLevel := columns.Level()
	categoryCol, _ := columns.Category()

	result := &models.CalculatedMetrics{
		DAUTrend:         []models.DAUPoint{},
		AvailableMetrics: []string{},
		CalculatedAt:     now.UTC(),
		RowCount:         len(rows),
	}

	if hasUser && hasTS {
		result.Retention = CalculateRetention(rows, userCol, tsCol, cfg, now)
		result.DAUTrend = DAUTrend(rows, userCol, tsCol)
	} else {
		log.Debug().Bool("user_id", hasUser).Bool("timestamp", hasTS).Msg("Skipping retention: required columns not resolved")
	}

	if hasUser {
		result.Engagement = CalculateEngagement(rows, EngagementColumns{
			UserID:          userCol,
			Timestamp:       tsCol,
			SessionID:       sessionCol,
			SessionDuration: durationCol,
		})
	} else {
		log.Debug().Msg("Skipping engagement and monetization: no user id column")
	}

	if hasUser && hasRevenue {
		result.Monetization = CalculateMonetization(rows, MonetizationColumns{
			UserID:    userCol,
			Revenue:   revenueCol,
			Category:  categoryCol,
			Timestamp: tsCol,
		}, result.Retention, cfg)
		c.projectLTV(result.Monetization, result.Retention, cfg)
	}

	if hasUser && hasLevel {
		result.Progression = CalculateProgression(rows, userCol, levelCol)
	}

	result.RevenueBreakdown = CalculateRevenueBreakdown(rows, columns)
	result.Confidence = CalculateConfidence(columns, len(rows))

	if hasTS {
		result.DataRange = dataRange(rows, tsCol)
	}

	if result.Retention != nil {
		result.AvailableMetrics = append(result.AvailableMetrics, models.MetricBlockRetention)
	}
	if result.Engagement != nil {
		result.AvailableMetrics = append(result.AvailableMetrics, models.MetricBlockEngagement)
	}
	if result.Monetization != nil {
		result.AvailableMetrics = append(result.AvailableMetrics, models.MetricBlockMonetization)
	}
	if result.Progression != nil {
		result.AvailableMetrics = append(result.AvailableMetrics, models.MetricBlockProgression)
	}

	result.Summary = summarize(result)

	duration := time.Since(start)
	metrics.RecordCalculation(duration, len(rows), result.Confidence, Blocks, result.AvailableMetrics)
	log.Debug().
		Int("rows", len(rows)).
		Strs("available", result.AvailableMetrics).
		Float64("confidence", result.Confidence).
		Dur("duration", duration).
		Msg("Metrics calculated")

	return result
}

// projectLTV attaches a curve-based LTV at the configured horizon. The curve
// is built from classic retention with day 0 fixed at 1.
func (c *Calculator) projectLTV(m *models.MonetizationMetrics, r *models.RetentionMetrics, cfg models.MetricConfig) {
	if c == nil || c.Projector == nil || m == nil || cfg.LTVProjectionDays <= 0 {
		return
	}
	curve := map[int]float64{0: 1}
	if r != nil {
		for day, pct := range r.Classic {
			if day > 0 {
				curve[day] = pct / 100
			}
		}
	}
	ltv := c.Projector.PredictCohortLTV(curve, m.ARPDAU, cfg.LTVProjectionDays)
	m.PredictedLTV = &ltv
}

func dataRange(rows []models.Row, tsCol string) models.DataRange {
	var first, last time.Time
	found := false
	for _, row := range rows {
		ts, ok := ParseDate(row[tsCol])
		if !ok {
			continue
		}
		if !found || ts.Before(first) {
			first = ts
		}
		if !found || ts.After(last) {
			last = ts
		}
		found = true
	}
	if !found {
		return models.DataRange{}
	}
	return models.DataRange{Start: dayKey(first), End: dayKey(last)}
}

func summarize(m *models.CalculatedMetrics) models.MetricsSummary {
	var s models.MetricsSummary
	switch {
	case m.Engagement != nil:
		s.TotalUsers = m.Engagement.TotalUsers
	case m.Monetization != nil:
		s.TotalUsers = m.Monetization.TotalUsers
	case m.Retention != nil:
		s.TotalUsers = m.Retention.CohortUsers
	}
	if m.Monetization != nil {
		s.TotalRevenue = m.Monetization.TotalRevenue
		s.ARPU = m.Monetization.ARPU
		s.ConversionRate = m.Monetization.ConversionRate
	}
	if m.Retention != nil {
		s.D1Retention = m.Retention.Classic[1]
		s.D7Retention = m.Retention.Classic[7]
	}
	return s
}
