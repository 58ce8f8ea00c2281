// Package otel provides OpenTelemetry integration for clessidra cache metrics.
//
// # Overview
//
// This package implements the clessidra.MetricsCollector interface using
// OpenTelemetry instruments, so cache latencies, hit ratio, expirations and
// sweep activity can be exported to Prometheus or any OTLP backend.
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/clessidra"
//	    clessidraotel "github.com/agilira/clessidra/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, err := clessidraotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cache := clessidra.New[string, []byte](clessidra.Config{
//	    MetricsCollector: collector,
//	})
//	defer cache.Close()
//
// # Metrics Exposed
//
//   - clessidra_get_latency_ns: histogram of per-key lookup latency
//   - clessidra_set_latency_ns: histogram of Set latency
//   - clessidra_delete_latency_ns: histogram of Del latency
//   - clessidra_sweep_latency_ns: histogram of sweep duration
//   - clessidra_get_hits_total: counter of hits
//   - clessidra_get_misses_total: counter of misses
//   - clessidra_expirations_total: counter of keys removed by TTL (lazy or sweep)
//   - clessidra_swept_total: counter of keys removed by sweeps
//
// # Useful PromQL
//
//	# hit ratio
//	rate(clessidra_get_hits_total[5m]) /
//	  (rate(clessidra_get_hits_total[5m]) + rate(clessidra_get_misses_total[5m]))
//
//	# share of expirations found by the sweeper rather than by reads
//	rate(clessidra_swept_total[5m]) / rate(clessidra_expirations_total[5m])
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package otel
