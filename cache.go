// cache.go: core TTL cache with lazy and sweep-time expiration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

import (
	"math"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is an in-memory key-value store with per-entry TTL.
//
// Values live in entries; only keys with a finite TTL have an instant in
// expirations, every other key is permanent. A read that finds an instant at
// or before now removes the key before answering, and the sweeper removes all
// such keys periodically, so memory held by unread stale entries stays bounded.
//
// One mutex guards the whole state, including the sweeper. Events are
// collected while the lock is held and delivered after it is released.
//
// The zero value is not usable; create caches with New.
type Cache[K comparable, V any] struct {
	mu          sync.Mutex
	entries     map[K]V
	expirations map[K]int64 // absolute instants in TimeProvider nanoseconds
	stats       Stats

	defaultTTL    time.Duration
	sweepInterval time.Duration
	sweeper       sweeper
	closed        bool

	logger       Logger
	timeProvider TimeProvider
	metrics      MetricsCollector
	measured     bool

	events *emitter[K, V]
	loads  singleflight.Group

	flightMu   sync.Mutex
	flights    map[K]*flightTicket
	lastFlight uint64
}

// eventBatch collects the events produced while the lock is held.
type eventBatch[K comparable, V any] struct {
	enabled bool
	events  []Event[K, V]
	expired int
}

func (b *eventBatch[K, V]) add(ev Event[K, V]) {
	if b.enabled {
		b.events = append(b.events, ev)
	}
}

func (b *eventBatch[K, V]) expire(key K) {
	b.expired++
	b.add(Event[K, V]{Type: EventExpired, Key: key})
}

// New creates a cache and arms the first sweep when the interval is positive.
//
// Example:
//
//	users := clessidra.New[int, User](clessidra.Config{
//	    DefaultTTL:    10 * time.Minute,
//	    SweepInterval: 30 * time.Second,
//	})
//	defer users.Close()
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	cfg.applyDefaults()

	_, noop := cfg.MetricsCollector.(NoOpMetricsCollector)

	c := &Cache[K, V]{
		entries:       make(map[K]V),
		expirations:   make(map[K]int64),
		defaultTTL:    cfg.DefaultTTL,
		sweepInterval: cfg.SweepInterval,
		logger:        cfg.Logger,
		timeProvider:  cfg.TimeProvider,
		metrics:       cfg.MetricsCollector,
		measured:      !noop,
		events:        newEmitter[K, V](cfg.Logger),
	}

	c.mu.Lock()
	c.sweeper.schedule(c.sweepInterval, c.fire)
	c.mu.Unlock()

	return c
}

// Get returns the value stored for key.
//
// An entry whose expiration instant is at or before now is removed, an
// EventExpired is emitted and the lookup counts as a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := c.clock()

	c.mu.Lock()
	b := c.batch()
	value, found := c.fetchLocked(key, c.timeProvider.Now(), &b)
	c.countLocked(found)
	c.mu.Unlock()

	c.finish(&b)
	c.metrics.RecordGet(c.since(start), found)
	return value, found
}

// MGet looks up several keys at once. The result holds only the keys that
// were found; every key counts as its own hit or miss.
func (c *Cache[K, V]) MGet(keys ...K) map[K]V {
	start := c.clock()
	result := make(map[K]V, len(keys))
	hits := make([]bool, len(keys))

	c.mu.Lock()
	b := c.batch()
	now := c.timeProvider.Now()
	for i, key := range keys {
		value, found := c.fetchLocked(key, now, &b)
		c.countLocked(found)
		if found {
			result[key] = value
			hits[i] = true
		}
	}
	c.mu.Unlock()

	c.finish(&b)
	if len(keys) > 0 {
		perKey := c.since(start) / int64(len(keys))
		for _, hit := range hits {
			c.metrics.RecordGet(perKey, hit)
		}
	}
	return result
}

// Set stores value under key with the configured default TTL and returns the
// previous live value, if any.
//
// When V is an interface type, a nil value means "no value": the key is
// deleted exactly as Del would, and the previous value is still returned.
// Wrap nil in a distinguishable type if it must be cached.
func (c *Cache[K, V]) Set(key K, value V) (V, bool) {
	return c.store(key, value, 0, true)
}

// SetWithTTL stores value under key for ttl. A ttl <= 0 stores a permanent
// entry and clears any expiration the key had.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) (V, bool) {
	return c.store(key, value, ttl, false)
}

func (c *Cache[K, V]) store(key K, value V, ttl time.Duration, useDefault bool) (V, bool) {
	start := c.clock()

	c.mu.Lock()
	b := c.batch()
	now := c.timeProvider.Now()
	previous, existed := c.fetchLocked(key, now, &b)

	if isAbsent(value) {
		c.deleteLocked([]K{key}, now, &b)
		c.mu.Unlock()

		c.finish(&b)
		c.metrics.RecordDelete(c.since(start))
		return previous, existed
	}

	if useDefault {
		ttl = c.defaultTTL
	}

	c.entries[key] = value
	if ttl > 0 {
		c.expirations[key] = expiryInstant(now, ttl)
	} else {
		delete(c.expirations, key)
	}
	if !existed {
		c.stats.Keys++
	}
	c.stats.Sets++
	b.add(Event[K, V]{Type: EventSet, Key: key, Value: value})
	c.mu.Unlock()

	c.finish(&b)
	c.metrics.RecordSet(c.since(start))
	return previous, existed
}

// Del removes the given keys and returns how many were live.
// Missing keys are not an error and emit nothing.
func (c *Cache[K, V]) Del(keys ...K) int {
	start := c.clock()

	c.mu.Lock()
	b := c.batch()
	removed := c.deleteLocked(keys, c.timeProvider.Now(), &b)
	c.mu.Unlock()

	c.finish(&b)
	c.metrics.RecordDelete(c.since(start))
	return removed
}

// SetTTL gives an existing key a new lifetime of ttl starting now.
// It never creates an entry. A ttl <= 0 deletes the key.
func (c *Cache[K, V]) SetTTL(key K, ttl time.Duration) {
	c.retime(key, ttl, false)
}

// Touch is SetTTL with the configured default TTL. When the default is
// NoExpiration the key is deleted, the same as SetTTL with ttl <= 0.
func (c *Cache[K, V]) Touch(key K) {
	c.retime(key, 0, true)
}

func (c *Cache[K, V]) retime(key K, ttl time.Duration, useDefault bool) {
	c.mu.Lock()
	if useDefault {
		ttl = c.defaultTTL
	}
	b := c.batch()
	now := c.timeProvider.Now()

	if ttl <= 0 {
		c.deleteLocked([]K{key}, now, &b)
	} else if _, found := c.fetchLocked(key, now, &b); found {
		c.expirations[key] = expiryInstant(now, ttl)
	}
	c.mu.Unlock()

	c.finish(&b)
}

// Flush drops every entry, resets all statistics and re-arms the sweeper.
func (c *Cache[K, V]) Flush() {
	c.mu.Lock()
	c.sweeper.stop()
	c.entries = make(map[K]V)
	c.expirations = make(map[K]int64)
	c.stats = Stats{}
	c.sweeper.schedule(c.sweepInterval, c.fire)
	b := c.batch()
	b.add(Event[K, V]{Type: EventFlush})
	c.mu.Unlock()

	c.logger.Debug("cache flushed")
	c.finish(&b)
}

// Sweep removes every entry whose expiration instant is at or before now
// and returns how many it removed. The background sweeper calls it on every
// interval; calling it directly disarms the pending trigger and re-arms a
// fresh one afterwards, so two sweeps never overlap.
func (c *Cache[K, V]) Sweep() int {
	start := c.clock()

	c.mu.Lock()
	b := c.batch()
	removed := c.sweepLocked(&b)
	c.mu.Unlock()

	c.afterSweep(&b, removed, start)
	return removed
}

// fire is the sweeper trigger. Triggers superseded by a later arm are dropped.
func (c *Cache[K, V]) fire(gen uint64) {
	start := c.clock()

	c.mu.Lock()
	if !c.sweeper.current(gen) {
		c.mu.Unlock()
		return
	}
	b := c.batch()
	removed := c.sweepLocked(&b)
	c.mu.Unlock()

	c.afterSweep(&b, removed, start)
}

func (c *Cache[K, V]) sweepLocked(b *eventBatch[K, V]) int {
	c.sweeper.begin()

	now := c.timeProvider.Now()
	removed := 0
	for key, expireAt := range c.expirations {
		if expireAt <= now {
			c.removeLocked(key)
			c.stats.Expirations++
			b.expire(key)
			removed++
		}
	}
	c.stats.Sweeps++
	b.add(Event[K, V]{Type: EventSwept, Count: removed})

	c.sweeper.schedule(c.sweepInterval, c.fire)
	return removed
}

func (c *Cache[K, V]) afterSweep(b *eventBatch[K, V], removed int, start time.Time) {
	c.logger.Debug("sweep completed", "removed", removed)
	c.finish(b)
	c.metrics.RecordSweep(c.since(start), removed)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Has reports whether key holds a live value. Expired entries are removed
// as in Get, but Has does not count as a hit or a miss.
func (c *Cache[K, V]) Has(key K) bool {
	_, found := c.peek(key)
	return found
}

// peek is a lazy-expiration-aware lookup that leaves hits and misses alone.
func (c *Cache[K, V]) peek(key K) (V, bool) {
	c.mu.Lock()
	b := c.batch()
	value, found := c.fetchLocked(key, c.timeProvider.Now(), &b)
	c.mu.Unlock()

	c.finish(&b)
	return value, found
}

// TTL returns the remaining lifetime of key. Permanent entries report 0.
// The second result is false when the key is absent or expired.
func (c *Cache[K, V]) TTL(key K) (time.Duration, bool) {
	c.mu.Lock()
	b := c.batch()
	now := c.timeProvider.Now()
	_, found := c.fetchLocked(key, now, &b)
	var remaining time.Duration
	if expireAt, ok := c.expirations[key]; found && ok {
		remaining = time.Duration(expireAt - now)
	}
	c.mu.Unlock()

	c.finish(&b)
	return remaining, found
}

// Len returns the number of stored entries.
//
// Note: Len includes entries that have expired but were neither read nor
// swept yet.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.Keys
}

// Keys returns the live keys in no particular order.
// It neither removes expired entries nor touches the statistics.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.timeProvider.Now()
	keys := make([]K, 0, len(c.entries))
	for key := range c.entries {
		if expireAt, ok := c.expirations[key]; ok && expireAt <= now {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// On registers fn for events of type t.
func (c *Cache[K, V]) On(t EventType, fn Listener[K, V]) (Subscription, error) {
	return c.events.on(t, fn)
}

// Off unregisters a listener. Returns false if the subscription is unknown.
func (c *Cache[K, V]) Off(sub Subscription) bool {
	return c.events.off(sub)
}

// SweeperState returns the state of the background sweep task.
func (c *Cache[K, V]) SweeperState() SweeperState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweeper.state
}

// Reconfigure changes the default TTL and the sweep interval at runtime.
// Zero values select the package defaults, as in Config. Existing entries
// keep their expiration instants. The pending sweep is re-armed with the
// new interval unless the cache is closed.
func (c *Cache[K, V]) Reconfigure(defaultTTL, sweepInterval time.Duration) {
	cfg := Config{DefaultTTL: defaultTTL, SweepInterval: sweepInterval}
	cfg.applyDefaults()

	c.mu.Lock()
	c.defaultTTL = cfg.DefaultTTL
	c.sweepInterval = cfg.SweepInterval
	if !c.closed {
		c.sweeper.stop()
		c.sweeper.schedule(c.sweepInterval, c.fire)
	}
	c.mu.Unlock()

	c.logger.Info("cache reconfigured",
		"default_ttl", cfg.DefaultTTL.String(),
		"sweep_interval", cfg.SweepInterval.String())
}

// Settings returns the default TTL and sweep interval currently in effect.
func (c *Cache[K, V]) Settings() (defaultTTL, sweepInterval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultTTL, c.sweepInterval
}

// Logger returns the logger the cache was configured with.
func (c *Cache[K, V]) Logger() Logger {
	return c.logger
}

// Close cancels the background sweeper. Entries stay readable and writable
// afterwards, but Flush and Sweep no longer re-arm it.
//
// Close is safe to call multiple times.
func (c *Cache[K, V]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.sweeper.cancel()
	keys := c.stats.Keys
	c.mu.Unlock()

	c.logger.Info("cache closed", "keys", keys)
	return nil
}

// expiryInstant returns now+ttl, saturating at math.MaxInt64 so a huge ttl
// never wraps into the past.
func expiryInstant(now int64, ttl time.Duration) int64 {
	if now > 0 && int64(ttl) > math.MaxInt64-now {
		return math.MaxInt64
	}
	return now + int64(ttl)
}

// fetchLocked is the lazy expiration check shared by every read path.
func (c *Cache[K, V]) fetchLocked(key K, now int64, b *eventBatch[K, V]) (V, bool) {
	if expireAt, ok := c.expirations[key]; ok && expireAt <= now {
		c.removeLocked(key)
		c.stats.Expirations++
		b.expire(key)
		var zero V
		return zero, false
	}
	value, ok := c.entries[key]
	return value, ok
}

func (c *Cache[K, V]) deleteLocked(keys []K, now int64, b *eventBatch[K, V]) int {
	removed := 0
	for _, key := range keys {
		if _, found := c.fetchLocked(key, now, b); !found {
			continue
		}
		c.removeLocked(key)
		c.stats.Deletes++
		b.add(Event[K, V]{Type: EventDeleted, Key: key})
		removed++
	}
	return removed
}

// removeLocked drops key from both maps and keeps Keys equal to len(entries).
func (c *Cache[K, V]) removeLocked(key K) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	delete(c.expirations, key)
	c.stats.Keys--
}

func (c *Cache[K, V]) countLocked(found bool) {
	if found {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
}

func (c *Cache[K, V]) batch() eventBatch[K, V] {
	return eventBatch[K, V]{enabled: c.events.active()}
}

// finish runs after the lock is released: metrics first, then listeners.
func (c *Cache[K, V]) finish(b *eventBatch[K, V]) {
	for i := 0; i < b.expired; i++ {
		c.metrics.RecordExpiration()
	}
	if len(b.events) > 0 {
		c.events.emit(b.events)
	}
}

func (c *Cache[K, V]) clock() time.Time {
	if !c.measured {
		return time.Time{}
	}
	return time.Now()
}

func (c *Cache[K, V]) since(start time.Time) int64 {
	if !c.measured {
		return 0
	}
	return time.Since(start).Nanoseconds()
}

// isAbsent reports whether value is a nil interface, the "no value" input
// that turns Set into Del.
func isAbsent[V any](value V) bool {
	return any(value) == nil
}
