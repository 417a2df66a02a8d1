// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

// Package services adapts Cohortcast components to suture.Service.
//
// HTTPServerService bridges http.Server's blocking ListenAndServe to a
// context-driven Serve with graceful shutdown. PredictorService runs the
// retention predictor's persistence lifecycle.
//
// Every service returns ctx.Err() once its context is canceled, which
// suture treats as a clean stop rather than a failure.
package services
