// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package statestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cohortcast/internal/logging"
	"github.com/tomtom215/cohortcast/internal/metrics"
)

const redisBreakerName = "state-store-redis"

// RedisStore persists state in Redis. Calls go through a circuit breaker so
// an unavailable server fails fast instead of stalling every save.
//
// DETERMINISM NOTE: the breaker uses wall-clock time for its interval and
// timeout.
type RedisStore struct {
	client  *redis.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	prefix  string
	timeout time.Duration
	owned   bool
}

// NewRedisStore connects to cfg.RedisAddr. The connection is lazy; use Ping
// to verify reachability.
func NewRedisStore(cfg Config) (*RedisStore, error) {
	if cfg.RedisAddr == "" {
		return nil, errors.New("redis state store requires an address")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	s := NewRedisStoreWithClient(client, cfg)
	s.owned = true
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client. Close leaves it open.
func NewRedisStoreWithClient(client *redis.Client, cfg Config) *RedisStore {
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := cfg.BreakerTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(redisBreakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(redisBreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        redisBreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},

		// A missing key is an answer, not a failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] state store transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})

	return &RedisStore{
		client:  client,
		cb:      cb,
		prefix:  cfg.KeyPrefix,
		timeout: cfg.Timeout,
	}
}

// execute runs fn through the breaker and records the outcome.
func (s *RedisStore) execute(fn func() ([]byte, error)) ([]byte, error) {
	result, err := s.cb.Execute(fn)
	switch {
	case err == nil || errors.Is(err, ErrNotFound):
		metrics.CircuitBreakerRequests.WithLabelValues(redisBreakerName, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(redisBreakerName).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(redisBreakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(redisBreakerName, "failure").Inc()
		counts := s.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(redisBreakerName).Set(float64(counts.ConsecutiveFailures))
	}
	return result, err
}

// Get retrieves the value stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.execute(func() ([]byte, error) {
		v, err := s.client.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}
		return v, nil
	})
}

// Set stores value under key without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.execute(func() ([]byte, error) {
		if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
			return nil, fmt.Errorf("redis set: %w", err)
		}
		return nil, nil
	})
	return err
}

// Delete removes key. Missing keys are not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.execute(func() ([]byte, error) {
		if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
			return nil, fmt.Errorf("redis del: %w", err)
		}
		return nil, nil
	})
	return err
}

// Ping sends PING to the server.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.execute(func() ([]byte, error) {
		return nil, s.client.Ping(ctx).Err()
	})
	return err
}

// BreakerState returns the circuit breaker state name.
func (s *RedisStore) BreakerState() string {
	return s.cb.State().String()
}

// Close closes the client if this store created it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

// Backend returns "redis".
func (s *RedisStore) Backend() string {
	return BackendRedis
}
