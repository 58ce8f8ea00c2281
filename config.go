// config.go: configuration for Clessidra
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

import (
	"time"

	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for the cache.
type Config struct {
	// DefaultTTL is the time-to-live used by Set and Touch.
	// Zero selects DefaultTTL; NoExpiration (or any negative value)
	// makes Set store permanent entries.
	DefaultTTL time.Duration

	// SweepInterval is the period between background sweeps.
	// Zero selects DefaultSweepInterval; a negative value disables
	// automatic sweeping (lazy expiration still applies).
	SweepInterval time.Duration

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for TTL calculations.
	// If nil, a go-timecache backed clock is used.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	MetricsCollector MetricsCollector
}

// Validate applies defaults to unset fields.
// Returns nil (no actual validation errors, only normalization).
//
// New and Reconfigure apply the same defaults, so you typically don't need
// to call it manually.
//
// Default values applied:
//   - DefaultTTL: DefaultTTL (5 minutes) if 0
//   - SweepInterval: DefaultSweepInterval (1 minute) if 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
func (c *Config) Validate() error {
	c.applyDefaults()
	return nil
}

// applyDefaults fills zero-valued fields. Used by New and Reconfigure.
func (c *Config) applyDefaults() {
	if c.DefaultTTL == 0 {
		c.DefaultTTL = DefaultTTL
	}

	if c.SweepInterval == 0 {
		c.SweepInterval = DefaultSweepInterval
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:       DefaultTTL,
		SweepInterval:    DefaultSweepInterval,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
