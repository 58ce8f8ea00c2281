// interfaces.go: public interfaces for Clessidra
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

// Stats is a point-in-time snapshot of cache counters.
// Flush is the only operation that resets it.
type Stats struct {
	// Hits is the number of lookups that found a live entry
	Hits uint64

	// Misses is the number of lookups that found nothing or an expired entry
	Misses uint64

	// Keys is the number of entries currently stored
	Keys int

	// Sets is the number of Set calls that stored a value
	Sets uint64

	// Deletes is the number of keys removed through Del
	Deletes uint64

	// Expirations is the number of keys removed because their TTL elapsed
	Expirations uint64

	// Sweeps is the number of completed sweeps
	Sweeps uint64
}

// HitRatio returns the cache hit ratio as a percentage (0-100).
// Returns 0.0 if no lookups have been performed yet.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Logger defines a minimal structured logging interface.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides the current time used for expiration instants.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	Now() int64
}

// MetricsCollector receives per-operation measurements.
// Implementations can forward them to OpenTelemetry, Prometheus or StatsD.
//
// Thread-safety: all methods are called concurrently from any goroutine
// that uses the cache, and from the sweeper goroutine.
type MetricsCollector interface {
	// RecordGet records one key lookup and whether it hit.
	RecordGet(latencyNs int64, hit bool)

	// RecordSet records a Set operation.
	RecordSet(latencyNs int64)

	// RecordDelete records a Del call.
	RecordDelete(latencyNs int64)

	// RecordExpiration records one key removed because its TTL elapsed,
	// by either the lazy check or a sweep.
	RecordExpiration()

	// RecordSweep records a completed sweep and how many keys it removed.
	RecordSweep(latencyNs int64, removed int)
}

// NoOpMetricsCollector is a metrics collector that does nothing.
type NoOpMetricsCollector struct{}

// RecordGet does nothing.
func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool) {}

// RecordSet does nothing.
func (NoOpMetricsCollector) RecordSet(latencyNs int64) {}

// RecordDelete does nothing.
func (NoOpMetricsCollector) RecordDelete(latencyNs int64) {}

// RecordExpiration does nothing.
func (NoOpMetricsCollector) RecordExpiration() {}

// RecordSweep does nothing.
func (NoOpMetricsCollector) RecordSweep(latencyNs int64, removed int) {}
