// Package clessidra provides a thread-safe, in-memory key-value cache with
// per-entry time-to-live, periodic sweeping and lifecycle events.
//
// # Overview
//
// Clessidra is meant to be embedded in a larger application as a transient
// store, typically to memoize expensive lookups:
//   - Generic API: Cache[K comparable, V any]
//   - Lazy expiration: a read never returns an entry at or past its instant
//   - Background sweep: unread stale entries are removed periodically
//   - Events: set, deleted, expired, swept and flush notifications
//   - Statistics: hits, misses, live keys, sets, deletes, expirations, sweeps
//
// It is not a bounded cache. There is no capacity limit and no LRU or LFU
// eviction; entries leave only when they expire, are deleted or are flushed.
//
// # Quick Start
//
//	import "github.com/agilira/clessidra"
//
//	sessions := clessidra.New[string, Session](clessidra.Config{
//	    DefaultTTL:    30 * time.Minute,
//	    SweepInterval: time.Minute,
//	})
//	defer sessions.Close()
//
//	sessions.Set("abc", s)                          // default TTL
//	sessions.SetWithTTL("admin", s, time.Hour)      // explicit TTL
//	sessions.SetWithTTL("boot", s, clessidra.NoExpiration) // permanent
//
//	if s, found := sessions.Get("abc"); found {
//	    // use s
//	}
//
// # TTL Rules
//
// Expiration instants are absolute nanosecond timestamps taken from the
// configured TimeProvider. An entry whose instant is at or before now is
// expired.
//
//   - Set uses Config.DefaultTTL; SetWithTTL takes an explicit TTL
//   - A TTL <= 0 on Set or SetWithTTL stores a permanent entry
//   - SetTTL(key, ttl) re-times an existing key and never creates one
//   - SetTTL with ttl <= 0 deletes the key; Touch uses the default TTL
//   - When V is an interface type, Set with a nil value deletes the key
//
// # Sweeping
//
// A sweep removes every expired entry and emits one EventExpired per key
// followed by one EventSwept with the count. The sweeper is a single
// rescheduling timer: Sweep and Flush disarm the pending trigger and arm a
// new one, so two sweeps never overlap. A negative Config.SweepInterval
// disables it; lazy expiration still applies. Close cancels the sweeper
// permanently, the data remains usable.
//
// # Events
//
// Listeners registered with On run synchronously on the goroutine that
// performed the operation, after the cache lock is released. They may call
// back into the cache. A panicking listener is recovered and logged.
//
//	sub, _ := cache.On(clessidra.EventExpired, func(ev clessidra.Event[string, Session]) {
//	    log.Printf("session %s expired", ev.Key)
//	})
//	defer cache.Off(sub)
//
// # Cache Stampede Prevention
//
// GetOrLoad runs the loader on a miss and stores the result with the default
// TTL. Concurrent misses for the same key share one loader call:
//
//	user, err := users.GetOrLoad(id, func() (User, error) {
//	    return db.FetchUser(id)
//	})
//
// Loader errors are returned and never cached. GetOrLoadWithContext hands the
// context to the loader and stops waiting when it is done.
//
// # Observability
//
// Config.Logger receives structured key-value logs; the zerologger package
// adapts github.com/rs/zerolog. Config.MetricsCollector receives per-operation
// latencies and counts; the otel package implements it with OpenTelemetry:
//
//	collector, _ := otel.NewOTelMetricsCollector(meterProvider)
//	cache := clessidra.New[string, int](clessidra.Config{MetricsCollector: collector})
//
// With the default NoOpMetricsCollector no clock is read for latencies.
//
// # Hot Reload
//
// NewHotConfig watches a JSON, YAML, TOML, HCL, INI or properties file with
// Argus and applies cache.default_ttl and cache.sweep_interval to a running
// cache through Reconfigure.
//
// # Error Handling
//
// Data operations never fail. Errors are returned only by listener
// registration, loaders and hot reload, and carry codes from
// github.com/agilira/go-errors:
//
//	if _, err := cache.GetOrLoad(k, load); clessidra.IsLoaderError(err) && clessidra.IsRetryable(err) {
//	    // retry later
//	}
//
// # Thread Safety
//
// All methods are safe for concurrent use. A single mutex guards the entries,
// the expiration index, the statistics and the sweeper state for the whole
// duration of every operation, including sweeps.
//
// # Packages
//
//   - github.com/agilira/clessidra: core cache implementation
//   - github.com/agilira/clessidra/otel: OpenTelemetry metrics collector
//   - github.com/agilira/clessidra/zerologger: zerolog Logger adapter
//
// # Examples
//
//   - examples/memoize/: GetOrLoad with events and zerolog
//   - examples/otel-prometheus/: metrics exported to Prometheus
//
// # License
//
// See LICENSE file in the repository.
package clessidra
