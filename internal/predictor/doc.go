// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package predictor projects future retention and lifetime value from partial
cohort observations.

# Models

  - Power law: R(t) = a * t^-b fitted by least squares in log-log space
  - Archetype: reference day 0-12 patterns per game genre, used when fewer
    than two observations are usable
  - Early ratio: day-30 retention from day-1 and day-7, rescaled against
    the archetype's own D7/D1 ratio
  - Cohort curve: LTV as the sum of retention times ARPDAU with exponential
    decay beyond the last known day

A RetentionPredictor can also be trained on historical cohorts. Training
averages days 0-30 into a curve that is persisted through a StateStore and
restored on startup.

# Usage

	p := predictor.New(predictor.Config{GameType: "puzzle"}, store, logger)
	p.Initialize(ctx)

	pred := p.PredictRetention(map[int]float64{1: 0.40, 7: 0.18}, 30)
	fmt.Println(pred.Value, pred.Confidence, pred.Method)

# Thread Safety

All exported methods are safe for concurrent use.
*/
package predictor
