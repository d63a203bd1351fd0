// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipecache caches pipeline objects by the 64-bit hash of the state
// that determines them.
//
// The cache is authoritative: for a given hash at most one pipeline is ever
// created. It never evicts on its own; entries leave only through
// DeleteFunc or DestroyAll. When the logical capacity is reached it grows by
// a fixed increment before inserting.
package pipecache

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	// DefaultCapacity is the initial logical capacity.
	DefaultCapacity = 32

	// DefaultGrowth is the capacity increment applied when the cache is full.
	DefaultGrowth = 4
)

// ErrNilCreate is returned when GetOrCreate misses without a constructor.
var ErrNilCreate = errors.New("pipecache: create function is nil")

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries  int
	Capacity int
	Hits     uint64
	Misses   uint64
}

// Cache maps state hashes to pipelines.
//
// Thread Safety:
// Cache is safe for concurrent use. Lookups take a read lock and creation
// double-checks under the write lock.
type Cache[P any] struct {
	mu       sync.RWMutex
	entries  map[uint64]P
	capacity int
	growth   int

	hits   atomic.Uint64
	misses atomic.Uint64

	logger func() *slog.Logger
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	capacity int
	growth   int
	logger   func() *slog.Logger
}

// WithCapacity sets the initial logical capacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithGrowth sets the capacity increment.
func WithGrowth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.growth = n
		}
	}
}

// WithLogger sets the logger source used for creation diagnostics.
func WithLogger(fn func() *slog.Logger) Option {
	return func(o *options) { o.logger = fn }
}

// New creates an empty cache.
func New[P any](opts ...Option) *Cache[P] {
	o := options{capacity: DefaultCapacity, growth: DefaultGrowth}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[P]{
		entries:  make(map[uint64]P, o.capacity),
		capacity: o.capacity,
		growth:   o.growth,
		logger:   o.logger,
	}
}

// GetOrCreate returns the pipeline stored under hash, creating it with
// create on a miss. A failed creation is not cached.
func (c *Cache[P]) GetOrCreate(hash uint64, create func() (P, error)) (P, error) {
	c.mu.RLock()
	if p, ok := c.entries[hash]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.entries[hash]; ok {
		c.hits.Add(1)
		return p, nil
	}

	var zero P
	if create == nil {
		return zero, ErrNilCreate
	}
	p, err := create()
	if err != nil {
		return zero, err
	}
	c.misses.Add(1)

	if len(c.entries) >= c.capacity {
		c.capacity += c.growth
		c.log().Debug("pipecache: grown", "capacity", c.capacity)
	}
	c.entries[hash] = p
	c.log().Debug("pipecache: pipeline created", "hash", hash, "entries", len(c.entries))
	return p, nil
}

// Get returns the pipeline for hash without creating one.
func (c *Cache[P]) Get(hash uint64) (P, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[hash]
	return p, ok
}

// Len returns the number of cached pipelines.
func (c *Cache[P]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the current logical capacity.
func (c *Cache[P]) Capacity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.capacity
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[P]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:  len(c.entries),
		Capacity: c.capacity,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
	}
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (c *Cache[P]) HitRate() float64 {
	h := c.hits.Load()
	total := h + c.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(h) / float64(total)
}

// ResetStats zeroes the hit and miss counters.
func (c *Cache[P]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// DeleteFunc removes every pipeline for which match returns true, passing
// each to destroy, and reports how many were removed. Capacity is kept.
func (c *Cache[P]) DeleteFunc(match func(P) bool, destroy func(P)) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for h, p := range c.entries {
		if !match(p) {
			continue
		}
		if destroy != nil {
			destroy(p)
		}
		delete(c.entries, h)
		n++
	}
	if n > 0 {
		c.log().Debug("pipecache: pipelines removed", "count", n, "entries", len(c.entries))
	}
	return n
}

// DestroyAll calls destroy for every pipeline and empties the cache.
func (c *Cache[P]) DestroyAll(destroy func(P)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if destroy != nil {
		for _, p := range c.entries {
			destroy(p)
		}
	}
	clear(c.entries)
}

func (c *Cache[P]) log() *slog.Logger {
	if c.logger != nil {
		if l := c.logger(); l != nil {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}
