// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"sort"

	"github.com/tomtom215/cohortcast/internal/models"
)

const unknownValue = "unknown"

// MonetizationColumns names the columns the monetization engine reads.
// UserID and Revenue are required.
type MonetizationColumns struct {
	UserID    string
	Revenue   string
	Category  string
	Timestamp string
}

type spender struct {
	revenue   float64
	purchases int
}

// CalculateMonetization computes revenue, conversion, spender tiers and a
// heuristic LTV. Classic retention, when supplied, drives the LTV weighting.
// Returns nil when no row carries a user id.
func CalculateMonetization(rows []models.Row, cols MonetizationColumns, retention *models.RetentionMetrics, cfg models.MetricConfig) *models.MonetizationMetrics {
	if cols.UserID == "" || cols.Revenue == "" {
		return nil
	}

	users := make(map[string]struct{})
	payers := make(map[string]*spender)
	userDays := make(map[string]struct{})
	categories := make(map[string]*models.CategoryRevenue)

	var totalRevenue float64
	transactions := 0

	for _, row := range rows {
		uid := cellString(row[cols.UserID])
		if uid == "" {
			continue
		}
		users[uid] = struct{}{}

		if cols.Timestamp != "" {
			if ts, ok := ParseDate(row[cols.Timestamp]); ok {
				userDays[uid+sessionKeySep+dayKey(ts)] = struct{}{}
			}
		}

		amount := ParseNumber(row[cols.Revenue])
		if amount <= 0 {
			continue
		}

		s, ok := payers[uid]
		if !ok {
			s = &spender{}
			payers[uid] = s
		}
		s.revenue += amount
		s.purchases++

		category := unknownValue
		if cols.Category != "" {
			if c := cellString(row[cols.Category]); c != "" {
				category = c
			}
		}
		cr, ok := categories[category]
		if !ok {
			cr = &models.CategoryRevenue{Category: category}
			categories[category] = cr
		}
		cr.Revenue += amount
		cr.Transactions++

		totalRevenue += amount
		transactions++
	}

	if len(users) == 0 {
		return nil
	}

	totalUsers := len(users)
	payingUsers := len(payers)
	arpu := safeDiv(totalRevenue, float64(totalUsers))

	arpdau := arpu
	if len(userDays) > 0 {
		arpdau = totalRevenue / float64(len(userDays))
	}

	return &models.MonetizationMetrics{
		TotalRevenue:        round2(totalRevenue),
		TotalUsers:          totalUsers,
		PayingUsers:         payingUsers,
		ARPU:                round2(arpu),
		ARPPU:               round2(safeDiv(totalRevenue, float64(payingUsers))),
		ARPDAU:              round2(arpdau),
		ConversionRate:      percent(float64(payingUsers), float64(totalUsers)),
		TotalTransactions:   transactions,
		AvgTransactionValue: round2(safeDiv(totalRevenue, float64(transactions))),
		PurchaseFrequency:   round2(safeDiv(float64(transactions), float64(payingUsers))),
		SpenderSegments:     segmentSpenders(payers, totalUsers, totalRevenue, cfg),
		RevenueByCategory:   categoryBreakdown(categories, totalRevenue),
		LTV:                 estimateLTV(arpu, retention),
		Confidence:          payerTiers.score(payingUsers),
	}
}

// segmentSpenders buckets users into whale, dolphin, minnow and non_payer,
// checking the highest threshold first. Users below the minnow threshold,
// including those who never paid, are non_payer with zero attributed revenue.
func segmentSpenders(payers map[string]*spender, totalUsers int, totalRevenue float64, cfg models.MetricConfig) []models.SpenderSegment {
	whaleMax := cfg.WhaleThreshold
	dolphinMax := cfg.DolphinThreshold
	minnowMax := cfg.MinnowThreshold

	segments := []models.SpenderSegment{
		{Segment: models.SegmentWhale, MinThreshold: cfg.WhaleThreshold},
		{Segment: models.SegmentDolphin, MinThreshold: cfg.DolphinThreshold, MaxThreshold: &whaleMax},
		{Segment: models.SegmentMinnow, MinThreshold: cfg.MinnowThreshold, MaxThreshold: &dolphinMax},
		{Segment: models.SegmentNonPayer, MinThreshold: 0, MaxThreshold: &minnowMax},
	}
	const whale, dolphin, minnow, nonPayer = 0, 1, 2, 3

	ids := make([]string, 0, len(payers))
	for id := range payers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	paidTiers := 0
	for _, id := range ids {
		rev := payers[id].revenue
		var idx int
		switch {
		case rev >= cfg.WhaleThreshold:
			idx = whale
		case rev >= cfg.DolphinThreshold:
			idx = dolphin
		case rev >= cfg.MinnowThreshold:
			idx = minnow
		default:
			continue
		}
		segments[idx].Users++
		segments[idx].Revenue += rev
		paidTiers++
	}
	segments[nonPayer].Users = totalUsers - paidTiers

	for i := range segments {
		seg := &segments[i]
		seg.PercentOfUsers = percent(float64(seg.Users), float64(totalUsers))
		seg.PercentOfRevenue = percent(seg.Revenue, totalRevenue)
		seg.AverageSpend = round2(safeDiv(seg.Revenue, float64(seg.Users)))
		seg.Revenue = round2(seg.Revenue)
	}
	return segments
}

func categoryBreakdown(categories map[string]*models.CategoryRevenue, totalRevenue float64) []models.CategoryRevenue {
	out := make([]models.CategoryRevenue, 0, len(categories))
	for _, c := range categories {
		entry := *c
		entry.Percentage = percent(entry.Revenue, totalRevenue)
		entry.Revenue = round2(entry.Revenue)
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// estimateLTV projects LTV at 7, 30 and 90 days. With classic retention it
// weights days 2-7, 8-30 and 31-90 by the D1, D7 and D30 rates; otherwise it
// extrapolates ARPU flat. Missing rates default to d1=1, d7=d1*0.5, d30=d7*0.3.
func estimateLTV(arpu float64, retention *models.RetentionMetrics) models.LTVEstimate {
	if retention == nil || len(retention.Classic) == 0 {
		return models.LTVEstimate{
			D7:     round2(arpu * 7),
			D30:    round2(arpu * 30),
			D90:    round2(arpu * 90),
			Method: models.LTVMethodFlat,
		}
	}

	d1, ok := classicFraction(retention, 1)
	if !ok {
		d1 = 1.0
	}
	d7, ok := classicFraction(retention, 7)
	if !ok {
		d7 = d1 * 0.5
	}
	d30, ok := classicFraction(retention, 30)
	if !ok {
		d30 = d7 * 0.3
	}

	return models.LTVEstimate{
		D7:     round2(arpu * (1 + d1*6)),
		D30:    round2(arpu * (1 + d1*6 + d7*23)),
		D90:    round2(arpu * (1 + d1*6 + d7*23 + d30*60)),
		Method: models.LTVMethodRetentionWeighted,
	}
}
