// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cohortcast/internal/metrics"
)

func newTestCache[V any](t *testing.T, cfg Config) *Cache[V] {
	t.Helper()
	c, err := New[V](cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	c := newTestCache[string](t, Config{Name: "test-basic", TTL: time.Minute})

	c.Set("key1", "value1")
	c.Wait()

	got, ok := c.Get("key1")
	if !ok || got != "value1" {
		t.Errorf("Get(key1) = %q, %v", got, ok)
	}
	if _, ok := c.Get("key2"); ok {
		t.Error("key2 should not exist")
	}

	c.Delete("key1")
	if _, ok := c.Get("key1"); ok {
		t.Error("key1 should be gone after Delete")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := newTestCache[int](t, Config{Name: "test-expire", TTL: time.Minute})

	c.SetWithTTL("short", 1, 50*time.Millisecond)
	c.Set("long", 2)
	c.Wait()

	if _, ok := c.Get("short"); !ok {
		t.Fatal("short-lived entry missing immediately after set")
	}
	time.Sleep(120 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry should have expired")
	}
	if v, ok := c.Get("long"); !ok || v != 2 {
		t.Errorf("long-lived entry = %d, %v", v, ok)
	}
}

func TestCacheClear(t *testing.T) {
	c := newTestCache[int](t, Config{Name: "test-clear"})
	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Wait()
	c.Clear()

	for i := 0; i < 10; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); ok {
			t.Fatalf("k%d survived Clear", i)
		}
	}
}

func TestCacheStatsAndMetrics(t *testing.T) {
	c := newTestCache[string](t, Config{Name: "test-stats"})

	hitsBefore := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("test-stats"))
	missesBefore := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("test-stats"))

	c.Set("a", "x")
	c.Wait()
	c.Get("a")
	c.Get("a")
	c.Get("b")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Stats = %+v, want 2 hits 1 miss", s)
	}
	if rate := c.HitRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("HitRate = %v", rate)
	}

	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("test-stats")) - hitsBefore; got != 2 {
		t.Errorf("cache hits metric delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("test-stats")) - missesBefore; got != 1 {
		t.Errorf("cache misses metric delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheSize.WithLabelValues("test-stats")); got != 1 {
		t.Errorf("cache size = %v, want 1", got)
	}
}

func TestCacheHitRateNoLookups(t *testing.T) {
	c := newTestCache[int](t, Config{Name: "test-empty"})
	if c.HitRate() != 0 {
		t.Errorf("HitRate = %v, want 0", c.HitRate())
	}
}

func TestCacheDefaults(t *testing.T) {
	c := newTestCache[int](t, Config{})
	if c.ttl != DefaultTTL || c.name != "default" {
		t.Errorf("defaults not applied: ttl=%v name=%q", c.ttl, c.name)
	}
	if c.store.MaxCost() != DefaultMaxEntries {
		t.Errorf("MaxCost = %d", c.store.MaxCost())
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := newTestCache[int](t, Config{Name: "test-concurrent"})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("g%d-%d", g, i%10)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	c.Wait()
}

func TestGenerateKey(t *testing.T) {
	type req struct {
		Rows   int               `json:"rows"`
		Config map[string]string `json:"config"`
	}

	a := GenerateKey("calculate", req{Rows: 10, Config: map[string]string{"x": "1"}})
	b := GenerateKey("calculate", req{Rows: 10, Config: map[string]string{"x": "1"}})
	c := GenerateKey("calculate", req{Rows: 11, Config: map[string]string{"x": "1"}})
	d := GenerateKey("predict", req{Rows: 10, Config: map[string]string{"x": "1"}})

	if a != b {
		t.Error("equal params produced different keys")
	}
	if a == c {
		t.Error("different params produced the same key")
	}
	if a == d {
		t.Error("different methods produced the same key")
	}
	// method + ":" + 32 hex chars
	if len(a) != len("calculate:")+32 {
		t.Errorf("key %q has unexpected length", a)
	}
}

func TestGenerateKeyUnmarshalable(t *testing.T) {
	key := GenerateKey("m", make(chan int))
	if len(key) < 2 || key[:2] != "m:" {
		t.Errorf("fallback key = %q", key)
	}
}
