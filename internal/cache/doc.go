// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

// Package cache holds computed results for repeated identical requests.
//
// Cache is a typed wrapper around ristretto with a fixed TTL, a bounded
// entry count and prometheus hit/miss accounting. GenerateKey hashes the
// JSON form of request parameters so equal requests share an entry:
//
//	key := cache.GenerateKey("calculate", req)
//	if m, ok := results.Get(key); ok {
//	    return m
//	}
//	m := calc.Calculate(ctx, data, meanings, cfg)
//	results.Set(key, m)
//
// Writes are applied asynchronously; tests call Wait before reading back.
package cache
