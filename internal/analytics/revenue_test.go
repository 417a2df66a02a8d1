// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"fmt"
	"testing"

	"github.com/tomtom215/cohortcast/internal/models"
)

func TestCalculateRevenueBreakdown(t *testing.T) {
	columns := NewColumns([]models.ColumnMeaning{
		{Column: "user", SemanticType: models.SemanticUserID},
		{Column: "revenue", SemanticType: models.SemanticRevenue},
		{Column: "country", SemanticType: models.SemanticCountry},
		{Column: "utm_source", SemanticType: models.SemanticUnknown},
	})
	rows := []models.Row{
		{"user": "u1", "revenue": 10, "country": "US", "utm_source": "ads"},
		{"user": "u2", "revenue": 20, "country": "US", "utm_source": "ads"},
		{"user": "u1", "revenue": 5, "country": "DE", "utm_source": "organic"},
		{"user": "u3", "revenue": 0, "country": "FR", "utm_source": "organic"},
	}

	b := CalculateRevenueBreakdown(rows, columns)

	if len(b.ByCountry) != 2 {
		t.Fatalf("by country = %+v, want 2 entries", b.ByCountry)
	}
	us := b.ByCountry[0]
	if us.Value != "US" || us.Revenue != 30 || us.Users != 2 {
		t.Errorf("US entry = %+v", us)
	}
	checkFloat(t, "US percentage", us.Percentage, 85.71)
	checkFloat(t, "DE percentage", b.ByCountry[1].Percentage, 14.29)

	if len(b.BySource) != 2 || b.BySource[0].Value != "ads" {
		t.Errorf("by source = %+v", b.BySource)
	}
	if b.ByPlatform == nil || len(b.ByPlatform) != 0 {
		t.Errorf("by platform = %#v, want empty non-nil list", b.ByPlatform)
	}
	if b.ByProduct == nil || len(b.ByProduct) != 0 {
		t.Errorf("by product = %#v, want empty non-nil list", b.ByProduct)
	}
}

func TestCalculateRevenueBreakdown_TopTen(t *testing.T) {
	columns := NewColumns([]models.ColumnMeaning{
		{Column: "user", SemanticType: models.SemanticUserID},
		{Column: "revenue", SemanticType: models.SemanticRevenue},
		{Column: "platform", SemanticType: models.SemanticPlatform},
	})
	var rows []models.Row
	for i := 0; i < 12; i++ {
		rows = append(rows, models.Row{"user": fmt.Sprintf("u%d", i), "revenue": i + 1, "platform": fmt.Sprintf("p%02d", i)})
	}

	b := CalculateRevenueBreakdown(rows, columns)
	if len(b.ByPlatform) != 10 {
		t.Fatalf("by platform = %d entries, want 10", len(b.ByPlatform))
	}
	if b.ByPlatform[0].Value != "p11" || b.ByPlatform[9].Value != "p02" {
		t.Errorf("unexpected ordering: first %q last %q", b.ByPlatform[0].Value, b.ByPlatform[9].Value)
	}
}

func TestCalculateRevenueBreakdown_NoRevenueColumn(t *testing.T) {
	columns := NewColumns([]models.ColumnMeaning{{Column: "country", SemanticType: models.SemanticCountry}})
	b := CalculateRevenueBreakdown([]models.Row{{"country": "US"}}, columns)
	if len(b.ByCountry) != 0 || b.ByCountry == nil {
		t.Errorf("by country = %#v, want empty non-nil list", b.ByCountry)
	}
}
