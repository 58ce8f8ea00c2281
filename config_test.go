// config_test.go: unit tests for Clessidra configuration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name         string
		config       Config
		wantTTL      time.Duration
		wantInterval time.Duration
	}{
		{
			name:         "empty config uses defaults",
			config:       Config{},
			wantTTL:      DefaultTTL,
			wantInterval: DefaultSweepInterval,
		},
		{
			name:         "explicit values kept",
			config:       Config{DefaultTTL: 10 * time.Second, SweepInterval: time.Second},
			wantTTL:      10 * time.Second,
			wantInterval: time.Second,
		},
		{
			name:         "NoExpiration kept",
			config:       Config{DefaultTTL: NoExpiration, SweepInterval: NoExpiration},
			wantTTL:      NoExpiration,
			wantInterval: NoExpiration,
		},
		{
			name:         "any negative value kept",
			config:       Config{DefaultTTL: -5 * time.Second, SweepInterval: -time.Minute},
			wantTTL:      -5 * time.Second,
			wantInterval: -time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			if cfg.DefaultTTL != tt.wantTTL {
				t.Errorf("DefaultTTL = %v, want %v", cfg.DefaultTTL, tt.wantTTL)
			}
			if cfg.SweepInterval != tt.wantInterval {
				t.Errorf("SweepInterval = %v, want %v", cfg.SweepInterval, tt.wantInterval)
			}
			if cfg.Logger == nil {
				t.Error("Logger should not be nil")
			}
			if cfg.TimeProvider == nil {
				t.Error("TimeProvider should not be nil")
			}
			if cfg.MetricsCollector == nil {
				t.Error("MetricsCollector should not be nil")
			}
		})
	}
}

func TestConfig_ValidateKeepsInjected(t *testing.T) {
	mockTime := newMockTime()
	collector := newMockMetricsCollector()
	logger := &recordingLogger{}

	cfg := Config{TimeProvider: mockTime, MetricsCollector: collector, Logger: logger}
	_ = cfg.Validate()

	if cfg.TimeProvider != mockTime {
		t.Error("TimeProvider was replaced")
	}
	if cfg.MetricsCollector != collector {
		t.Error("MetricsCollector was replaced")
	}
	if cfg.Logger != logger {
		t.Error("Logger was replaced")
	}
}

func TestConfig_DefaultsAppliedByNew(t *testing.T) {
	cache := New[string, int](Config{})
	defer func() { _ = cache.Close() }()

	ttl, interval := cache.Settings()
	if ttl != DefaultTTL || interval != DefaultSweepInterval {
		t.Errorf("Settings() = %v, %v; want %v, %v", ttl, interval, DefaultTTL, DefaultSweepInterval)
	}
	if _, ok := cache.Logger().(NoOpLogger); !ok {
		t.Errorf("Logger = %T, want NoOpLogger", cache.Logger())
	}

	cache.Reconfigure(0, 0)
	if ttl, interval := cache.Settings(); ttl != DefaultTTL || interval != DefaultSweepInterval {
		t.Errorf("after Reconfigure(0, 0) Settings() = %v, %v", ttl, interval)
	}
}

func TestConfig_ValidateMatchesApplyDefaults(t *testing.T) {
	viaValidate := Config{DefaultTTL: 2 * time.Second}
	if err := viaValidate.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	viaDefaults := Config{DefaultTTL: 2 * time.Second}
	viaDefaults.applyDefaults()

	if viaValidate.DefaultTTL != viaDefaults.DefaultTTL || viaValidate.SweepInterval != viaDefaults.SweepInterval {
		t.Errorf("Validate gave %v/%v, applyDefaults gave %v/%v",
			viaValidate.DefaultTTL, viaValidate.SweepInterval, viaDefaults.DefaultTTL, viaDefaults.SweepInterval)
	}
	if viaDefaults.TimeProvider == nil || viaDefaults.MetricsCollector == nil || viaDefaults.Logger == nil {
		t.Error("applyDefaults left a nil dependency")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultTTL != 300*time.Second {
		t.Errorf("DefaultTTL = %v, want 5m", cfg.DefaultTTL)
	}
	if cfg.SweepInterval != 60*time.Second {
		t.Errorf("SweepInterval = %v, want 1m", cfg.SweepInterval)
	}
	if _, ok := cfg.Logger.(NoOpLogger); !ok {
		t.Errorf("Logger = %T, want NoOpLogger", cfg.Logger)
	}
	if _, ok := cfg.MetricsCollector.(NoOpMetricsCollector); !ok {
		t.Errorf("MetricsCollector = %T, want NoOpMetricsCollector", cfg.MetricsCollector)
	}

	// Validate must be a no-op on defaults
	before := cfg
	_ = cfg.Validate()
	if cfg.DefaultTTL != before.DefaultTTL || cfg.SweepInterval != before.SweepInterval {
		t.Error("Validate changed an already valid config")
	}
}

func TestSystemTimeProvider(t *testing.T) {
	tp := &systemTimeProvider{}

	t1 := tp.Now()
	if t1 <= 0 {
		t.Fatalf("Now() = %d, want positive", t1)
	}

	time.Sleep(5 * time.Millisecond)
	t2 := tp.Now()
	if t2 < t1 {
		t.Errorf("time went backwards: %d < %d", t2, t1)
	}
}
