// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/cohortcast/internal/models"
)

var testBase = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

// at returns a timestamp on the given day offset from testBase.
func at(day int) time.Time {
	return testBase.AddDate(0, 0, day)
}

// activity builds one row per listed day for a user.
func activity(user string, days ...int) []models.Row {
	rows := make([]models.Row, 0, len(days))
	for _, d := range days {
		rows = append(rows, models.Row{"user": user, "ts": at(d).Format(time.RFC3339)})
	}
	return rows
}

func concatRows(groups ...[]models.Row) []models.Row {
	var out []models.Row
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func checkFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func checkInt(t *testing.T, name string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", name, got, want)
	}
}

func checkConfidence(t *testing.T, name string, c float64) {
	t.Helper()
	if c < 0 || c > 1 {
		t.Errorf("%s confidence %v outside [0, 1]", name, c)
	}
}
