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

	"github.com/tomtom215/cohortcast/internal/metrics"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("state not found")

// Supported backends.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Store is a small key-value store for serialized model state.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
	Backend() string
}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Badger
	Path     string
	InMemory bool

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// KeyPrefix is prepended to every key.
	KeyPrefix string

	// Timeout bounds each operation. Zero means no extra deadline.
	Timeout time.Duration

	// Circuit breaker settings for remote backends.
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// DefaultConfig returns an embedded badger configuration.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendBadger,
		Path:               "/data/state",
		RedisAddr:          "localhost:6379",
		KeyPrefix:          "cohortcast:",
		Timeout:            5 * time.Second,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// Open creates the configured backend wrapped with operation metrics.
func Open(cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case BackendBadger, "":
		store, err = OpenBadger(cfg)
	case BackendRedis:
		store, err = NewRedisStore(cfg)
	case BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown state store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(store), nil
}

// instrumented records metrics for every operation of the wrapped store.
type instrumented struct {
	Store
}

// Instrument wraps a store so each operation is recorded in the
// state_store_* metrics.
func Instrument(s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{Store: s}
}

func (i *instrumented) record(op string, start time.Time, err error) {
	result := "success"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	metrics.RecordStateStoreOperation(i.Store.Backend(), op, result, time.Since(start))
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := i.Store.Get(ctx, key)
	i.record("get", start, err)
	return v, err
}

func (i *instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.Store.Set(ctx, key, value)
	i.record("set", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.Store.Delete(ctx, key)
	i.record("delete", start, err)
	return err
}

func (i *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := i.Store.Ping(ctx)
	i.record("ping", start, err)
	return err
}

// withTimeout applies the configured operation deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
