// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"sort"

	"github.com/tomtom215/cohortcast/internal/models"
)

const (
	weekWindowDays  = 7
	monthWindowDays = 30
	topTierMinDays  = 7
	sessionKeySep   = "\x00"
)

// EngagementColumns names the columns the engagement engine reads.
// Only UserID is required.
type EngagementColumns struct {
	UserID          string
	Timestamp       string
	SessionID       string
	SessionDuration string
}

// dailyUsers groups distinct user ids by UTC calendar day.
func dailyUsers(rows []models.Row, userCol, tsCol string) map[string]map[string]struct{} {
	days := make(map[string]map[string]struct{})
	if userCol == "" || tsCol == "" {
		return days
	}
	for _, row := range rows {
		uid := cellString(row[userCol])
		if uid == "" {
			continue
		}
		ts, ok := ParseDate(row[tsCol])
		if !ok {
			continue
		}
		key := dayKey(ts)
		set, exists := days[key]
		if !exists {
			set = make(map[string]struct{})
			days[key] = set
		}
		set[uid] = struct{}{}
	}
	return days
}

// sortedDays returns the day keys in ascending order.
func sortedDays(days map[string]map[string]struct{}) []string {
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// activeOverLatestDays counts distinct users across the most recent n
// calendar days present in the data. Gaps in the data widen the window.
func activeOverLatestDays(days map[string]map[string]struct{}, ordered []string, n int) int {
	start := len(ordered) - n
	if start < 0 {
		start = 0
	}
	union := make(map[string]struct{})
	for _, k := range ordered[start:] {
		for uid := range days[k] {
			union[uid] = struct{}{}
		}
	}
	return len(union)
}

// CalculateEngagement computes DAU/WAU/MAU, session counts, session length
// and stickiness. Without a session column each distinct (user, day) pair
// counts as one session. Returns nil when no row carries a user id.
func CalculateEngagement(rows []models.Row, cols EngagementColumns) *models.EngagementMetrics {
	if cols.UserID == "" {
		return nil
	}

	users := make(map[string]struct{})
	sessions := make(map[string]struct{})
	sessionLengths := make(map[string]float64)
	var rowLengths []float64

	for _, row := range rows {
		uid := cellString(row[cols.UserID])
		if uid == "" {
			continue
		}
		users[uid] = struct{}{}

		sessionKey := ""
		if cols.SessionID != "" {
			sessionKey = cellString(row[cols.SessionID])
		}
		if sessionKey == "" && cols.SessionID == "" {
			day := ""
			if cols.Timestamp != "" {
				if ts, ok := ParseDate(row[cols.Timestamp]); ok {
					day = dayKey(ts)
				}
			}
			sessionKey = uid + sessionKeySep + day
		}
		if sessionKey != "" {
			sessions[sessionKey] = struct{}{}
		}

		if cols.SessionDuration == "" {
			continue
		}
		length := ParseNumber(row[cols.SessionDuration])
		if length <= 0 {
			continue
		}
		if cols.SessionID != "" && sessionKey != "" {
			if length > sessionLengths[sessionKey] {
				sessionLengths[sessionKey] = length
			}
			continue
		}
		rowLengths = append(rowLengths, length)
	}

	if len(users) == 0 {
		return nil
	}

	lengths := rowLengths
	for _, l := range sessionLengths {
		lengths = append(lengths, l)
	}
	sort.Float64s(lengths)

	days := dailyUsers(rows, cols.UserID, cols.Timestamp)
	ordered := sortedDays(days)

	counts := make([]float64, 0, len(ordered))
	for _, k := range ordered {
		counts = append(counts, float64(len(days[k])))
	}
	dau := average(counts)

	wau := activeOverLatestDays(days, ordered, weekWindowDays)
	mau := activeOverLatestDays(days, ordered, monthWindowDays)

	totalSessions := len(sessions)
	activeDays := len(ordered)

	return &models.EngagementMetrics{
		DAU:                  round2(dau),
		WAU:                  wau,
		MAU:                  mau,
		Stickiness:           percent(dau, float64(mau)),
		TotalUsers:           len(users),
		ActiveDays:           activeDays,
		TotalSessions:        totalSessions,
		SessionsPerUser:      round2(safeDiv(float64(totalSessions), float64(len(users)))),
		SessionFrequency:     round2(safeDiv(safeDiv(float64(totalSessions), float64(activeDays)), dau)),
		AvgSessionLength:     round2(average(lengths)),
		MedianSessionLength:  round2(median(lengths)),
		SessionLengthSamples: len(lengths),
		Confidence:           userTiers.scoreWithTopRequirement(len(users), activeDays >= topTierMinDays),
	}
}

// DAUTrend returns the distinct user count for each day present, oldest first.
func DAUTrend(rows []models.Row, userCol, tsCol string) []models.DAUPoint {
	days := dailyUsers(rows, userCol, tsCol)
	ordered := sortedDays(days)
	trend := make([]models.DAUPoint, 0, len(ordered))
	for _, k := range ordered {
		trend = append(trend, models.DAUPoint{Date: k, Users: len(days[k])})
	}
	return trend
}
