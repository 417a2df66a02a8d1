// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

const maxCompletenessScore = 6.0

// CalculateConfidence scores data completeness: one point for each of the
// user id, timestamp, session id, revenue and level columns, plus half a
// point each at 1,000 and 10,000 rows, normalized to [0, 1].
func CalculateConfidence(columns Columns, rowCount int) float64 {
	score := 0.0
	for _, resolve := range []func() (string, bool){
		columns.UserID,
		columns.Timestamp,
		columns.SessionID,
		columns.Revenue,
		columns.Level,
	} {
		if _, ok := resolve(); ok {
			score++
		}
	}
	if rowCount >= 1000 {
		score += 0.5
	}
	if rowCount >= 10000 {
		score += 0.5
	}
	return round2(score / maxCompletenessScore)
}
