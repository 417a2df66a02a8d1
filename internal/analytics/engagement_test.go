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

func TestCalculateEngagement_DailyAverages(t *testing.T) {
	// day0: A,B  day1: A  day2: A,C
	rows := concatRows(
		activity("A", 0, 1, 2),
		activity("B", 0),
		activity("C", 2),
	)

	e := CalculateEngagement(rows, EngagementColumns{UserID: "user", Timestamp: "ts"})
	if e == nil {
		t.Fatal("CalculateEngagement returned nil")
	}

	checkFloat(t, "DAU", e.DAU, 1.67)
	checkInt(t, "WAU", e.WAU, 3)
	checkInt(t, "MAU", e.MAU, 3)
	checkFloat(t, "stickiness", e.Stickiness, 55.56)
	checkInt(t, "total users", e.TotalUsers, 3)
	checkInt(t, "active days", e.ActiveDays, 3)
	// No session column: one session per (user, day) pair.
	checkInt(t, "total sessions", e.TotalSessions, 5)
	checkFloat(t, "sessions per user", e.SessionsPerUser, 1.67)
	checkFloat(t, "session frequency", e.SessionFrequency, 1)
	checkFloat(t, "confidence", e.Confidence, 0.5)
}

func TestCalculateEngagement_WindowsUseLatestDaysPresent(t *testing.T) {
	var rows []models.Row
	for i := 0; i < 10; i++ {
		// Every other calendar day, so the data spans 19 wall-clock days.
		rows = append(rows, activity(fmt.Sprintf("u%d", i), i*2)...)
	}

	e := CalculateEngagement(rows, EngagementColumns{UserID: "user", Timestamp: "ts"})
	if e == nil {
		t.Fatal("CalculateEngagement returned nil")
	}
	checkInt(t, "WAU", e.WAU, 7)
	checkInt(t, "MAU", e.MAU, 10)
}

func TestCalculateEngagement_SessionLengths(t *testing.T) {
	rows := []models.Row{
		{"user": "A", "ts": at(0), "session": "s1", "duration": 100},
		{"user": "A", "ts": at(0), "session": "s1", "duration": 120},
		{"user": "B", "ts": at(0), "session": "s2", "duration": "60"},
		{"user": "B", "ts": at(1), "session": "s3", "duration": 0},
		{"user": "C", "ts": at(1), "session": "", "duration": 30},
	}

	e := CalculateEngagement(rows, EngagementColumns{
		UserID:          "user",
		Timestamp:       "ts",
		SessionID:       "session",
		SessionDuration: "duration",
	})
	if e == nil {
		t.Fatal("CalculateEngagement returned nil")
	}

	checkInt(t, "total sessions", e.TotalSessions, 3)
	checkInt(t, "length samples", e.SessionLengthSamples, 3)
	checkFloat(t, "avg session length", e.AvgSessionLength, 70)
	checkFloat(t, "median session length", e.MedianSessionLength, 60)
}

func TestCalculateEngagement_WithoutTimestamp(t *testing.T) {
	rows := []models.Row{{"user": "A"}, {"user": "B"}, {"user": "A"}}

	e := CalculateEngagement(rows, EngagementColumns{UserID: "user"})
	if e == nil {
		t.Fatal("CalculateEngagement returned nil")
	}
	checkInt(t, "total users", e.TotalUsers, 2)
	checkInt(t, "total sessions", e.TotalSessions, 2)
	checkFloat(t, "DAU", e.DAU, 0)
	checkFloat(t, "stickiness", e.Stickiness, 0)
}

func TestCalculateEngagement_NilWithoutUsers(t *testing.T) {
	if e := CalculateEngagement(activity("A", 0), EngagementColumns{Timestamp: "ts"}); e != nil {
		t.Errorf("expected nil without user column, got %+v", e)
	}
	if e := CalculateEngagement([]models.Row{{"user": nil}}, EngagementColumns{UserID: "user"}); e != nil {
		t.Errorf("expected nil without user ids, got %+v", e)
	}
}

func TestCalculateEngagement_ConfidenceNeedsSevenDaysForTopTier(t *testing.T) {
	var short, long []models.Row
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("u%d", i)
		short = append(short, activity(id, i%3)...)
		long = append(long, activity(id, i%7)...)
	}

	if c := CalculateEngagement(short, EngagementColumns{UserID: "user", Timestamp: "ts"}).Confidence; c != 0.8 {
		t.Errorf("confidence with 3 active days = %v, want 0.8", c)
	}
	if c := CalculateEngagement(long, EngagementColumns{UserID: "user", Timestamp: "ts"}).Confidence; c != 0.9 {
		t.Errorf("confidence with 7 active days = %v, want 0.9", c)
	}
}

func TestDAUTrend(t *testing.T) {
	rows := concatRows(activity("A", 0, 1), activity("B", 1), activity("C", 1))

	trend := DAUTrend(rows, "user", "ts")
	if len(trend) != 2 {
		t.Fatalf("trend length = %d, want 2", len(trend))
	}
	if trend[0].Date != dayKey(at(0)) || trend[0].Users != 1 {
		t.Errorf("trend[0] = %+v", trend[0])
	}
	if trend[1].Date != dayKey(at(1)) || trend[1].Users != 3 {
		t.Errorf("trend[1] = %+v", trend[1])
	}
}
