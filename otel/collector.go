// collector.go: OpenTelemetry MetricsCollector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"

	"github.com/agilira/clessidra"
	"go.opentelemetry.io/otel/metric"
)

// DefaultMeterName is the meter name used when WithMeterName is not given.
const DefaultMeterName = "github.com/agilira/clessidra"

// OTelMetricsCollector implements clessidra.MetricsCollector using OpenTelemetry.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
// The underlying OTEL instruments are thread-safe.
type OTelMetricsCollector struct {
	getLatency    metric.Int64Histogram
	setLatency    metric.Int64Histogram
	deleteLatency metric.Int64Histogram
	sweepLatency  metric.Int64Histogram
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	expirations   metric.Int64Counter
	swept         metric.Int64Counter
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: DefaultMeterName
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name.
// Useful to tell several cache instances apart.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// Returns a CLESSIDRA_INVALID_CONFIG error if provider is nil, or the
// error OTEL returned while creating an instrument.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, clessidra.NewErrInvalidConfig("provider", "meter provider cannot be nil")
	}

	options := Options{
		MeterName: DefaultMeterName,
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	histograms := []struct {
		dst  *metric.Int64Histogram
		name string
		desc string
	}{
		{&collector.getLatency, "clessidra_get_latency_ns", "Latency of key lookups in nanoseconds"},
		{&collector.setLatency, "clessidra_set_latency_ns", "Latency of Set operations in nanoseconds"},
		{&collector.deleteLatency, "clessidra_delete_latency_ns", "Latency of Del operations in nanoseconds"},
		{&collector.sweepLatency, "clessidra_sweep_latency_ns", "Duration of sweeps in nanoseconds"},
	}
	for _, h := range histograms {
		instrument, err := meter.Int64Histogram(h.name,
			metric.WithDescription(h.desc),
			metric.WithUnit("ns"),
		)
		if err != nil {
			return nil, err
		}
		*h.dst = instrument
	}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&collector.hits, "clessidra_get_hits_total", "Total number of cache hits"},
		{&collector.misses, "clessidra_get_misses_total", "Total number of cache misses"},
		{&collector.expirations, "clessidra_expirations_total", "Total number of TTL-based expirations"},
		{&collector.swept, "clessidra_swept_total", "Total number of keys removed by sweeps"},
	}
	for _, ctr := range counters {
		instrument, err := meter.Int64Counter(ctr.name, metric.WithDescription(ctr.desc))
		if err != nil {
			return nil, err
		}
		*ctr.dst = instrument
	}

	return collector, nil
}

// RecordGet records one key lookup and increments the hit or miss counter.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()

	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet records a Set operation.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordDelete records a Del operation.
func (c *OTelMetricsCollector) RecordDelete(latencyNs int64) {
	c.deleteLatency.Record(context.Background(), latencyNs)
}

// RecordExpiration increments the expirations counter.
func (c *OTelMetricsCollector) RecordExpiration() {
	c.expirations.Add(context.Background(), 1)
}

// RecordSweep records the sweep duration and the number of keys it removed.
func (c *OTelMetricsCollector) RecordSweep(latencyNs int64, removed int) {
	ctx := context.Background()

	c.sweepLatency.Record(ctx, latencyNs)
	if removed > 0 {
		c.swept.Add(ctx, int64(removed))
	}
}

// Compile-time interface check
var _ clessidra.MetricsCollector = (*OTelMetricsCollector)(nil)
