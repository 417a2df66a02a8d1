// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package analytics computes game product KPIs from a normalized, row-oriented dataset.

The engines are plain functions over []models.Row. Each one reads only the
columns it needs, tolerates malformed cells, and reports "cannot compute" by
returning nil rather than an error, so one missing column never prevents the
unrelated blocks from being produced.

# Engines

  - CalculateRetention: cohort classic and rolling retention per day horizon
  - CalculateEngagement: DAU/WAU/MAU, sessions, session length, stickiness
  - CalculateMonetization: ARPU/ARPPU/ARPDAU, conversion, spender tiers, LTV
  - CalculateProgression: level completion, difficulty spikes, bottlenecks
  - CalculateRevenueBreakdown: revenue by source, country, platform, product
  - CalculateConfidence: data completeness score for the whole dataset

Calculator runs all of them and assembles models.CalculatedMetrics:

	calc := analytics.NewCalculator(retentionPredictor)
	result := calc.Calculate(ctx, data, columns, models.DefaultMetricConfig())

# Value Parsing

Cells are untyped. ParseDate and ParseNumber are the only conversion points
and never fail: an unparseable date is skipped and an unparseable number is 0.
Calendar days are UTC.

# Windows

WAU and MAU are the distinct users over the latest 7 and 30 calendar days that
appear in the data, not a trailing wall-clock window. Datasets with gaps get
correspondingly wider windows.

# Thread Safety

Engines allocate their own state per call and never mutate the input, so a
single dataset may be processed concurrently.
*/
package analytics
