// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package supervisor builds the suture supervision tree that runs Cohortcast's
long-lived services.

Services implement suture.Service (Serve(ctx) error). A service that
returns an error or panics is restarted with backoff; one that returns
after ctx is canceled is considered stopped. Supervisor events are logged
through sutureslog using the zerolog-backed slog adapter from the logging
package.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddModelService(services.NewPredictorService(pred, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	return tree.Serve(ctx)
*/
package supervisor
