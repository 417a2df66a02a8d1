// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package models

import "time"

// Names reported in CalculatedMetrics.AvailableMetrics.
const (
	MetricBlockRetention    = "retention"
	MetricBlockEngagement   = "engagement"
	MetricBlockMonetization = "monetization"
	MetricBlockProgression  = "progression"
)

// CalculatedMetrics is the aggregate output of one metrics computation.
// A nil block means its required columns could not be resolved or no
// qualifying rows existed.
type CalculatedMetrics struct {
	Retention    *RetentionMetrics    `json:"retention"`
	Engagement   *EngagementMetrics   `json:"engagement"`
	Monetization *MonetizationMetrics `json:"monetization"`
	Progression  *ProgressionMetrics  `json:"progression"`

	// DAUTrend is the per-day distinct user series, oldest first.
	DAUTrend []DAUPoint `json:"dau_trend"`

	RevenueBreakdown RevenueBreakdown `json:"revenue_breakdown"`

	// Confidence is the data-completeness score for the whole computation.
	Confidence float64 `json:"confidence"`

	CalculatedAt     time.Time      `json:"calculated_at"`
	DataRange        DataRange      `json:"data_range"`
	AvailableMetrics []string       `json:"available_metrics"`
	Summary          MetricsSummary `json:"summary"`
	RowCount         int            `json:"row_count"`
}

// DataRange holds the earliest and latest parseable timestamps as ISO dates.
type DataRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MetricsSummary is the quick-access view used by dashboards.
type MetricsSummary struct {
	TotalUsers     int     `json:"total_users"`
	TotalRevenue   float64 `json:"total_revenue"`
	ARPU           float64 `json:"arpu"`
	D1Retention    float64 `json:"d1_retention"`
	D7Retention    float64 `json:"d7_retention"`
	ConversionRate float64 `json:"conversion_rate"`
}

// DAUPoint is one day of the DAU trend.
type DAUPoint struct {
	Date  string `json:"date"`
	Users int    `json:"users"`
}

// RetentionMetrics holds cohort retention over the configured horizons.
// Percentages are in the 0-100 range, rounded to 2 decimals.
type RetentionMetrics struct {
	// Classic maps horizon day to the share of eligible users active exactly on that day.
	Classic map[int]float64 `json:"classic"`

	// Rolling maps horizon day to the share of eligible users active on or after that day.
	Rolling map[int]float64 `json:"rolling"`

	// Horizons carries the per-day detail behind Classic and Rolling.
	Horizons []RetentionHorizon `json:"horizons"`

	RollingWindowDays int     `json:"rolling_window_days"`
	ReturnRate        float64 `json:"return_rate"`
	CohortUsers       int     `json:"cohort_users"`
	CohortCount       int     `json:"cohort_count"`
	Confidence        float64 `json:"confidence"`
}

// RetentionHorizon is the retention result for a single day offset.
type RetentionHorizon struct {
	Day             int     `json:"day"`
	EligibleUsers   int     `json:"eligible_users"`
	ClassicRetained int     `json:"classic_retained"`
	RollingRetained int     `json:"rolling_retained"`
	Classic         float64 `json:"classic"`
	Rolling         float64 `json:"rolling"`
}

// EngagementMetrics holds activity and session statistics.
type EngagementMetrics struct {
	DAU                  float64 `json:"dau"`
	WAU                  int     `json:"wau"`
	MAU                  int     `json:"mau"`
	Stickiness           float64 `json:"stickiness"`
	TotalUsers           int     `json:"total_users"`
	ActiveDays           int     `json:"active_days"`
	TotalSessions        int     `json:"total_sessions"`
	SessionsPerUser      float64 `json:"sessions_per_user"`
	SessionFrequency     float64 `json:"session_frequency"`
	AvgSessionLength     float64 `json:"avg_session_length"`
	MedianSessionLength  float64 `json:"median_session_length"`
	SessionLengthSamples int     `json:"session_length_samples"`
	Confidence           float64 `json:"confidence"`
}

// Spender tier names.
const (
	SegmentWhale    = "whale"
	SegmentDolphin  = "dolphin"
	SegmentMinnow   = "minnow"
	SegmentNonPayer = "non_payer"
)

// SpenderSegment is one of the four mutually exclusive spender tiers.
type SpenderSegment struct {
	Segment          string   `json:"segment"`
	Users            int      `json:"users"`
	Revenue          float64  `json:"revenue"`
	PercentOfUsers   float64  `json:"percent_of_users"`
	PercentOfRevenue float64  `json:"percent_of_revenue"`
	AverageSpend     float64  `json:"average_spend"`
	MinThreshold     float64  `json:"min_threshold"`
	MaxThreshold     *float64 `json:"max_threshold"`
}

// LTVEstimate holds heuristic lifetime value at fixed horizons.
type LTVEstimate struct {
	D7     float64 `json:"d7"`
	D30    float64 `json:"d30"`
	D90    float64 `json:"d90"`
	Method string  `json:"method"`
}

// LTV estimation methods.
const (
	LTVMethodFlat              = "flat"
	LTVMethodRetentionWeighted = "retention_weighted"
)

// CategoryRevenue is revenue attributed to a purchase category.
type CategoryRevenue struct {
	Category     string  `json:"category"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	Percentage   float64 `json:"percentage"`
}

// MonetizationMetrics holds revenue, conversion and spender statistics.
type MonetizationMetrics struct {
	TotalRevenue        float64           `json:"total_revenue"`
	TotalUsers          int               `json:"total_users"`
	PayingUsers         int               `json:"paying_users"`
	ARPU                float64           `json:"arpu"`
	ARPPU               float64           `json:"arppu"`
	ARPDAU              float64           `json:"arpdau"`
	ConversionRate      float64           `json:"conversion_rate"`
	TotalTransactions   int               `json:"total_transactions"`
	AvgTransactionValue float64           `json:"avg_transaction_value"`
	PurchaseFrequency   float64           `json:"purchase_frequency"`
	SpenderSegments     []SpenderSegment  `json:"spender_segments"`
	RevenueByCategory   []CategoryRevenue `json:"revenue_by_category"`
	LTV                 LTVEstimate       `json:"ltv"`
	PredictedLTV        *LTVPrediction    `json:"predicted_ltv,omitempty"`
	Confidence          float64           `json:"confidence"`
}

// LevelStat is the progression summary for a single level.
type LevelStat struct {
	Level          int     `json:"level"`
	Attempts       int     `json:"attempts"`
	UsersReached   int     `json:"users_reached"`
	Completions    int     `json:"completions"`
	CompletionRate float64 `json:"completion_rate"`
	IsSpike        bool    `json:"is_spike"`
}

// Bottleneck is a level where completion drops sharply.
type Bottleneck struct {
	Level         int     `json:"level"`
	DropOff       float64 `json:"drop_off"`
	EstimatedLost int     `json:"estimated_users_lost"`
}

// ProgressionMetrics holds level completion and difficulty statistics.
type ProgressionMetrics struct {
	Levels            []LevelStat  `json:"levels"`
	TotalUsers        int          `json:"total_users"`
	MaxLevelReached   int          `json:"max_level_reached"`
	AvgMaxLevel       float64      `json:"avg_max_level"`
	MedianMaxLevel    float64      `json:"median_max_level"`
	AvgCompletionRate float64      `json:"avg_completion_rate"`
	DifficultySpikes  []int        `json:"difficulty_spikes"`
	Bottlenecks       []Bottleneck `json:"bottlenecks"`
	StopDistribution  map[int]int  `json:"stop_distribution"`
	Confidence        float64      `json:"confidence"`
}

// Revenue breakdown dimensions.
const (
	DimensionSource   = "source"
	DimensionCountry  = "country"
	DimensionPlatform = "platform"
	DimensionProduct  = "product"
)

// BreakdownEntry is revenue attributed to one value of a dimension.
type BreakdownEntry struct {
	Value      string  `json:"value"`
	Revenue    float64 `json:"revenue"`
	Users      int     `json:"users"`
	Percentage float64 `json:"percentage"`
}

// RevenueBreakdown holds the top values per dimension. A dimension without a
// resolvable column is an empty list.
type RevenueBreakdown struct {
	BySource   []BreakdownEntry `json:"by_source"`
	ByCountry  []BreakdownEntry `json:"by_country"`
	ByPlatform []BreakdownEntry `json:"by_platform"`
	ByProduct  []BreakdownEntry `json:"by_product"`
}
