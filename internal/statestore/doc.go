// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

/*
Package statestore persists small opaque blobs, chiefly the serialized
retention predictor state, behind a single key-value interface.

# Backends

  - badger: embedded BadgerDB on local disk (default), or in memory
  - redis: a shared Redis server, guarded by a circuit breaker
  - memory: a process-local map for tests and ephemeral deployments

Open selects the backend from Config and wraps it with Instrument so every
operation is counted in the cohortcast_state_store_* metrics.

# Usage

	store, err := statestore.Open(statestore.Config{Backend: "badger", Path: "/data/state"})
	if err != nil {
	    return err
	}
	defer store.Close()

	if err := store.Set(ctx, "retention_predictor_state", blob); err != nil {
	    return err
	}
	blob, err = store.Get(ctx, "retention_predictor_state")
	if errors.Is(err, statestore.ErrNotFound) {
	    // nothing saved yet
	}

# Thread Safety

All backends are safe for concurrent use.
*/
package statestore
