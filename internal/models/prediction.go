// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package models

import "time"

// CurveLength is the number of days (0-30 inclusive) in a trained retention curve.
const CurveLength = 31

// Benchmark verdicts.
const (
	BenchmarkAbove = "above"
	BenchmarkAt    = "at"
	BenchmarkBelow = "below"
)

// RetentionPrediction is a point estimate of retention on a target day.
// Retention values are fractions in [0, 1].
type RetentionPrediction struct {
	TargetDay  int                  `json:"target_day"`
	Value      float64              `json:"value"`
	Confidence float64              `json:"confidence"`
	Method     string               `json:"method"`
	Range      *PredictionRange     `json:"range,omitempty"`
	Factors    []PredictionFactor   `json:"factors"`
	Curve      []CurvePoint         `json:"curve"`
	Benchmark  *BenchmarkComparison `json:"benchmark,omitempty"`
}

// PredictionRange is the low/high band around a prediction.
type PredictionRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// PredictionFactor describes one input that shaped a prediction.
type PredictionFactor struct {
	Name   string  `json:"name"`
	Impact string  `json:"impact"`
	Weight float64 `json:"weight"`
	Detail string  `json:"detail,omitempty"`
}

// CurvePoint is one day of a reconstructed retention curve.
type CurvePoint struct {
	Day       int     `json:"day"`
	Retention float64 `json:"retention"`
	Observed  bool    `json:"observed"`
}

// BenchmarkComparison compares a prediction with the archetype reference.
type BenchmarkComparison struct {
	GameType   string  `json:"game_type"`
	Reference  float64 `json:"reference"`
	Difference float64 `json:"difference"`
	Verdict    string  `json:"verdict"`
}

// CohortData is the observed retention of one cohort, keyed by day offset.
type CohortData struct {
	CohortID  string          `json:"cohort_id"`
	Retention map[int]float64 `json:"retention" validate:"required,min=1,dive,keys,gte=0,endkeys,gte=0,lte=1"`
}

// ModelMetrics holds the holdout evaluation result. R2 is 1 - MSE.
type ModelMetrics struct {
	MSE         float64   `json:"mse"`
	MAE         float64   `json:"mae"`
	R2          float64   `json:"r2"`
	Samples     int       `json:"samples"`
	EvaluatedAt time.Time `json:"evaluated_at,omitempty"`
}

// ModelState is the persisted form of the retention predictor.
type ModelState struct {
	TrainedCurve []float64    `json:"trained_curve"`
	GameType     string       `json:"game_type"`
	Metrics      ModelMetrics `json:"metrics"`
	TrainedOn    int          `json:"trained_on"`
	SavedAt      time.Time    `json:"saved_at"`
}

// FeatureImportance is one entry of the predictor's static weight table.
type FeatureImportance struct {
	Feature     string  `json:"feature"`
	Importance  float64 `json:"importance"`
	Description string  `json:"description"`
}

// LTVPrediction is a projected cumulative revenue per user.
type LTVPrediction struct {
	HorizonDays    int     `json:"horizon_days"`
	DailyARPDAU    float64 `json:"daily_arpdau"`
	LTV            float64 `json:"ltv"`
	Confidence     float64 `json:"confidence"`
	LastKnownDay   int     `json:"last_known_day"`
	DecayRate      float64 `json:"decay_rate"`
	ExpectedActive float64 `json:"expected_active_days"`
}
