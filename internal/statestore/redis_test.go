// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package statestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
)

// setupTestRedis connects to REDIS_ADDR (default localhost:6379) and skips
// the test when no server answers.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisStore(t *testing.T) {
	client := setupTestRedis(t)
	prefix := "cohortcast-test:" + t.Name() + ":"

	s := NewRedisStoreWithClient(client, Config{KeyPrefix: prefix, Timeout: time.Second})
	exerciseStore(t, s)
	if s.Backend() != BackendRedis {
		t.Errorf("Backend() = %q", s.Backend())
	}
	if s.BreakerState() != gobreaker.StateClosed.String() {
		t.Errorf("breaker state = %s, want closed", s.BreakerState())
	}
}

func TestRedisStore_NotFoundDoesNotTrip(t *testing.T) {
	client := setupTestRedis(t)
	s := NewRedisStoreWithClient(client, Config{
		KeyPrefix:          "cohortcast-test:nf:",
		BreakerMaxFailures: 2,
	})

	for i := 0; i < 5; i++ {
		if _, err := s.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get error = %v, want ErrNotFound", err)
		}
	}
	if s.BreakerState() != gobreaker.StateClosed.String() {
		t.Errorf("breaker state = %s after misses, want closed", s.BreakerState())
	}
}

func TestRedisStore_BreakerOpensOnFailures(t *testing.T) {
	// Nothing listens on port 1, so every call fails quickly.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	s := NewRedisStoreWithClient(client, Config{
		BreakerMaxFailures: 2,
		BreakerTimeout:     time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := s.Set(ctx, "k", []byte("v"))
		if err == nil {
			t.Fatal("expected connection error")
		}
		if errors.Is(err, gobreaker.ErrOpenState) {
			t.Fatalf("breaker opened early on attempt %d", i+1)
		}
	}

	if s.BreakerState() != gobreaker.StateOpen.String() {
		t.Fatalf("breaker state = %s, want open", s.BreakerState())
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Get with open breaker error = %v, want ErrOpenState", err)
	}
}

func TestNewRedisStore_RequiresAddress(t *testing.T) {
	if _, err := NewRedisStore(Config{}); err == nil {
		t.Fatal("expected error for empty address")
	}
}
