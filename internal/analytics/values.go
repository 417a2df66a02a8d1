// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// epochMillisThreshold separates Unix milliseconds from Unix seconds.
const epochMillisThreshold = 1e12

// dateLayouts are tried in order against string cells.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"Jan 2, 2006",
	"2 Jan 2006",
	"Jan 2, 2006 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate converts a cell value into a UTC time.
// Accepted inputs are time.Time, Unix timestamps (milliseconds when above
// 1e12, seconds otherwise) in any numeric form, and date strings.
// The boolean is false for anything that cannot be interpreted.
func ParseDate(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case string:
		return parseDateString(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f)
	case bool:
		return time.Time{}, false
	}

	if f, ok := numericValue(v); ok {
		return fromEpoch(f)
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// fromEpoch reads f as Unix milliseconds above epochMillisThreshold and as
// seconds otherwise. Values outside the int64 millisecond range are rejected.
func fromEpoch(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return time.Time{}, false
	}
	if math.Abs(f) > epochMillisThreshold {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

// ParseNumber converts a cell value into a float64.
// Numeric values pass through; strings are parsed after trimming whitespace,
// currency symbols and thousands separators. Anything else yields 0.
func ParseNumber(v interface{}) float64 {
	switch val := v.(type) {
	case nil, bool:
		return 0
	case string:
		return parseNumberString(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	}

	if f, ok := numericValue(v); ok {
		return finite(f)
	}
	return 0
}

func parseNumberString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "¥", "").Replace(s)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// cellString renders an identifier or dimension cell as a trimmed string.
// Missing and empty values return "".
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	}
	if _, ok := numericValue(v); ok {
		return fmt.Sprint(v)
	}
	return ""
}

// dayKey truncates a time to its UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
