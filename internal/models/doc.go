// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package models defines data structures for the Cohortcast application.

This package contains the plain, JSON-serializable types shared by the metrics
engines, the retention predictor, the state store and the HTTP API. It holds no
behavior beyond small helpers such as MetricConfig.Merge.

Key Components:

  - NormalizedData / Row: the row-oriented input dataset
  - ColumnMeaning / SemanticType: the semantic column mapping
  - MetricConfig: per-computation tunables with documented defaults
  - CalculatedMetrics: the aggregate output of one metrics computation
  - RetentionPrediction, LTVPrediction: predictor outputs
  - ModelState: the persisted form of the retention predictor

Model Categories:

1. Input Models:
  - NormalizedData, Row, ColumnMeaning

2. Metric Output Models:
  - RetentionMetrics, EngagementMetrics, MonetizationMetrics, ProgressionMetrics
  - SpenderSegment, RevenueBreakdown, DAUPoint, MetricsSummary

3. Predictor Models:
  - CohortData, ModelMetrics, ModelState, FeatureImportance

JSON Serialization:

All fields use snake_case JSON tags. Optional metric blocks are pointers and
serialize as null when the block could not be computed.

Thread Safety:

Model structs are not thread-safe on their own. They are built fresh per
computation and treated as read-only once returned.
*/
package models
