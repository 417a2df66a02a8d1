// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"sort"

	"github.com/tomtom215/cohortcast/internal/models"
)

const maxBreakdownEntries = 10

type dimensionValue struct {
	revenue float64
	users   map[string]struct{}
}

// CalculateRevenueBreakdown aggregates revenue by source, country, platform
// and product. Each list holds at most ten non-zero entries, highest revenue
// first. Dimensions without a resolvable column are empty lists.
func CalculateRevenueBreakdown(rows []models.Row, columns Columns) models.RevenueBreakdown {
	result := models.RevenueBreakdown{
		BySource:   []models.BreakdownEntry{},
		ByCountry:  []models.BreakdownEntry{},
		ByPlatform: []models.BreakdownEntry{},
		ByProduct:  []models.BreakdownEntry{},
	}

	revenueCol, ok := columns.Revenue()
	if !ok {
		return result
	}
	userCol, _ := columns.UserID()

	var totalRevenue float64
	for _, row := range rows {
		if amount := ParseNumber(row[revenueCol]); amount > 0 {
			totalRevenue += amount
		}
	}

	for _, dim := range []struct {
		name string
		dest *[]models.BreakdownEntry
	}{
		{models.DimensionSource, &result.BySource},
		{models.DimensionCountry, &result.ByCountry},
		{models.DimensionPlatform, &result.ByPlatform},
		{models.DimensionProduct, &result.ByProduct},
	} {
		col, found := columns.Dimension(dim.name)
		if !found || col == revenueCol {
			continue
		}
		*dim.dest = breakdownBy(rows, col, revenueCol, userCol, totalRevenue)
	}

	return result
}

func breakdownBy(rows []models.Row, dimCol, revenueCol, userCol string, totalRevenue float64) []models.BreakdownEntry {
	values := make(map[string]*dimensionValue)
	for _, row := range rows {
		amount := ParseNumber(row[revenueCol])
		if amount <= 0 {
			continue
		}
		key := cellString(row[dimCol])
		if key == "" {
			key = unknownValue
		}
		dv, ok := values[key]
		if !ok {
			dv = &dimensionValue{users: make(map[string]struct{})}
			values[key] = dv
		}
		dv.revenue += amount
		if userCol != "" {
			if uid := cellString(row[userCol]); uid != "" {
				dv.users[uid] = struct{}{}
			}
		}
	}

	entries := make([]models.BreakdownEntry, 0, len(values))
	for key, dv := range values {
		if dv.revenue <= 0 {
			continue
		}
		entries = append(entries, models.BreakdownEntry{
			Value:      key,
			Revenue:    round2(dv.revenue),
			Users:      len(dv.users),
			Percentage: percent(dv.revenue, totalRevenue),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Revenue != entries[j].Revenue {
			return entries[i].Revenue > entries[j].Revenue
		}
		return entries[i].Value < entries[j].Value
	})
	if len(entries) > maxBreakdownEntries {
		entries = entries[:maxBreakdownEntries]
	}
	return entries
}
