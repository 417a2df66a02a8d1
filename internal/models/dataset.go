// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package models

// Row is a single normalized record mapping column name to an untyped scalar
// (string, number, bool, time.Time or nil).
type Row map[string]interface{}

// NormalizedData is the row-oriented dataset produced by the ingestion layer.
// Row order carries no meaning for metric computation.
type NormalizedData struct {
	Rows []Row `json:"rows"`
}

// SemanticType names the role a column plays in the dataset.
type SemanticType string

// Semantic column roles understood by the engines.
const (
	SemanticUserID            SemanticType = "user_id"
	SemanticTimestamp         SemanticType = "timestamp"
	SemanticSessionID         SemanticType = "session_id"
	SemanticSessionDuration   SemanticType = "session_duration"
	SemanticRevenue           SemanticType = "revenue"
	SemanticPrice             SemanticType = "price"
	SemanticPurchaseAmount    SemanticType = "purchase_amount"
	SemanticLevel             SemanticType = "level"
	SemanticCountry           SemanticType = "country"
	SemanticPlatform          SemanticType = "platform"
	SemanticAcquisitionSource SemanticType = "acquisition_source"
	SemanticItemID            SemanticType = "item_id"
	SemanticEventName         SemanticType = "event_name"
	SemanticCategory          SemanticType = "category"
	SemanticUnknown           SemanticType = "unknown"
)

// ColumnMeaning pairs a column name with its semantic role.
type ColumnMeaning struct {
	Column       string       `json:"column" validate:"required"`
	SemanticType SemanticType `json:"semantic_type" validate:"required"`
	Confidence   float64      `json:"confidence,omitempty"`
}
