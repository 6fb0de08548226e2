// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

// Package cache implements the in-process response cache.
//
// The cache stores JSON-serialized values with a per-entry TTL and evicts
// in batches by last access time once it reaches capacity. Keys are spread
// across a fixed number of shards, each with its own mutex, so concurrent
// request handlers do not serialize on a single lock.
//
// Instances are created with New and passed to whoever needs them; there is
// no package-level singleton.
package cache

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"

	"github.com/honsemoe/backend/internal/metrics"
)

const shardCount = 16 // power of two, see shardFor

// DefaultCapacity is the entry limit used when New is given a
// non-positive capacity.
const DefaultCapacity = 1000

type entry struct {
	payload    []byte
	expiresAt  time.Time
	lastAccess time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// Stats reports cumulative cache counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Expired   uint64 `json:"expired"`
	Entries   int    `json:"entries"`
}

// Cache is a sharded TTL+LRU cache for serialized responses.
type Cache struct {
	shards   [shardCount]shard
	capacity int
	count    atomic.Int64
	now      func() time.Time

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	expired   atomic.Uint64
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithClock replaces the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache holding at most capacity entries.
func New(capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{capacity: capacity, now: time.Now}
	for i := range c.shards {
		c.shards[i].entries = make(map[string]*entry)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &c.shards[h.Sum32()&(shardCount-1)]
}

// Get looks up key and unmarshals the stored payload into dest. It returns
// false on a miss. Expired entries are removed on read, and a payload that
// no longer unmarshals counts as a miss. A hit refreshes the entry's last
// access time but never its expiry.
func (c *Cache) Get(key string, dest interface{}) bool {
	s := c.shardFor(key)
	now := c.now()

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		return false
	}
	if !e.expiresAt.After(now) {
		delete(s.entries, key)
		s.mu.Unlock()
		c.count.Add(-1)
		c.expired.Add(1)
		c.misses.Add(1)
		return false
	}
	e.lastAccess = now
	payload := e.payload
	s.mu.Unlock()

	if err := json.Unmarshal(payload, dest); err != nil {
		// Stale payload shape from an older build; drop it.
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur == e {
			delete(s.entries, key)
			c.count.Add(-1)
		}
		s.mu.Unlock()
		c.misses.Add(1)
		return false
	}

	c.hits.Add(1)
	return true
}

// Set serializes value and stores it under key with the given TTL. A
// serialization failure returns an error and leaves the cache untouched.
// When the cache is at capacity, the oldest fifth of entries by last access
// are evicted first, synchronously.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize cache value for %q: %w", key, err)
	}

	if int(c.count.Load()) >= c.capacity {
		c.evictOldest()
	}

	now := c.now()
	s := c.shardFor(key)
	s.mu.Lock()
	_, existed := s.entries[key]
	s.entries[key] = &entry{
		payload:    payload,
		expiresAt:  now.Add(ttl),
		lastAccess: now,
	}
	s.mu.Unlock()
	if !existed {
		c.count.Add(1)
	}
	metrics.CacheEntries.Set(float64(c.count.Load()))
	return nil
}

type ageRef struct {
	shard      int
	key        string
	lastAccess time.Time
}

// evictOldest removes the least recently accessed 20% of entries. With a
// count below five there is nothing to remove and the insert proceeds one
// over capacity, matching the batch-eviction contract.
func (c *Cache) evictOldest() {
	refs := make([]ageRef, 0, c.capacity)
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for k, e := range s.entries {
			refs = append(refs, ageRef{shard: i, key: k, lastAccess: e.lastAccess})
		}
		s.mu.Unlock()
	}

	evictCount := len(refs) / 5
	if evictCount == 0 {
		return
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].lastAccess.Before(refs[j].lastAccess)
	})

	for _, ref := range refs[:evictCount] {
		s := &c.shards[ref.shard]
		s.mu.Lock()
		if _, ok := s.entries[ref.key]; ok {
			delete(s.entries, ref.key)
			c.count.Add(-1)
			c.evictions.Add(1)
			metrics.CacheEvictions.Inc()
		}
		s.mu.Unlock()
	}
	metrics.CacheEntries.Set(float64(c.count.Load()))
}

// Invalidate removes a single key if present.
func (c *Cache) Invalidate(key string) {
	s := c.shardFor(key)
	s.mu.Lock()
	if _, ok := s.entries[key]; ok {
		delete(s.entries, key)
		c.count.Add(-1)
	}
	s.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		removed := len(s.entries)
		s.entries = make(map[string]*entry)
		s.mu.Unlock()
		c.count.Add(-int64(removed))
	}
	metrics.CacheEntries.Set(float64(c.count.Load()))
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	return int(c.count.Load())
}

// Stats returns a snapshot of the cumulative counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Expired:   c.expired.Load(),
		Entries:   c.Len(),
	}
}
