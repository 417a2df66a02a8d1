// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package logging provides the process-wide zerolog logger.

JSON is the default output; console output is available for local
development. Components derive child loggers with WithComponent, request
handlers use Ctx to pick up the request ID set by the API middleware, and
NewSlogLogger bridges to libraries that expect log/slog (sutureslog).

	logging.Init(logging.Config{Level: "debug", Format: "console"})
	logging.Info().Str("addr", addr).Msg("server listening")
	logging.Ctx(ctx).Warn().Err(err).Msg("prediction failed")

Always finish an event with Msg or Send, otherwise nothing is written.

Configuration comes from the logging section of the service config
(LOG_LEVEL, LOG_FORMAT, LOG_CALLER).
*/
package logging
