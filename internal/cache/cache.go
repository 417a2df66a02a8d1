// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package cache

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cohortcast/internal/metrics"
)

// Defaults applied by New for zero values.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 1000
)

// Config configures a Cache.
type Config struct {
	// Name labels the cache in the cohortcast_cache_* metrics.
	Name string

	// TTL is the lifetime of each entry.
	TTL time.Duration

	// MaxEntries bounds the number of entries. Admission and eviction
	// follow ristretto's TinyLFU policy.
	MaxEntries int64
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Added   uint64
	Evicted uint64
}

// Cache is a bounded TTL cache for computed results, safe for concurrent use.
type Cache[V any] struct {
	name  string
	ttl   time.Duration
	store *ristretto.Cache[string, V]
}

// New creates a cache. Call Close when done to stop its background workers.
//
//	results, err := cache.New[*models.CalculatedMetrics](cache.Config{Name: "calculate", TTL: 10 * time.Minute})
func New[V any](cfg Config) (*Cache[V], error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}

	store, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters:        cfg.MaxEntries * 10,
		MaxCost:            cfg.MaxEntries,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", cfg.Name, err)
	}

	return &Cache[V]{name: cfg.Name, ttl: cfg.TTL, store: store}, nil
}

// Get returns the cached value for key. Expired entries are misses.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.store.Get(key)
	metrics.RecordCacheLookup(c.name, ok)
	return v, ok
}

// Set stores value with the cache TTL. Writes are buffered; Get may miss
// until the write is applied. It reports whether the write was accepted.
func (c *Cache[V]) Set(key string, value V) bool {
	return c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with a custom lifetime.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) bool {
	ok := c.store.SetWithTTL(key, value, 1, ttl)
	c.updateSize()
	return ok
}

// Wait blocks until buffered writes are applied.
func (c *Cache[V]) Wait() {
	c.store.Wait()
	c.updateSize()
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.store.Del(key)
	c.updateSize()
}

// Clear drops every entry, for example after the model is retrained.
func (c *Cache[V]) Clear() {
	c.store.Clear()
	metrics.CacheSize.WithLabelValues(c.name).Set(0)
}

// Stats returns counters since creation or the last Clear.
func (c *Cache[V]) Stats() Stats {
	m := c.store.Metrics
	if m == nil {
		return Stats{}
	}
	return Stats{
		Hits:    m.Hits(),
		Misses:  m.Misses(),
		Added:   m.KeysAdded(),
		Evicted: m.KeysEvicted(),
	}
}

// HitRate returns hits as a percentage of lookups.
func (c *Cache[V]) HitRate() float64 {
	s := c.Stats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the cache. It must not be used afterwards.
func (c *Cache[V]) Close() {
	c.store.Close()
}

func (c *Cache[V]) updateSize() {
	s := c.Stats()
	size := float64(0)
	if s.Added > s.Evicted {
		size = float64(s.Added - s.Evicted)
	}
	metrics.CacheSize.WithLabelValues(c.name).Set(size)
}

// GenerateKey derives a compact key from a method name and its parameters.
// Parameters that cannot be marshaled fall back to their %v form.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
