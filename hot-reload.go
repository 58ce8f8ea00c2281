// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

import (
	"sync"
	"time"

	"github.com/agilira/argus"
)

// Reconfigurable is implemented by every Cache instantiation. HotConfig
// depends on it instead of a concrete Cache[K, V].
type Reconfigurable interface {
	Reconfigure(defaultTTL, sweepInterval time.Duration)
	Settings() (defaultTTL, sweepInterval time.Duration)
}

// HotSettings are the runtime parameters HotConfig can change.
type HotSettings struct {
	DefaultTTL    time.Duration
	SweepInterval time.Duration
}

// HotConfig watches a configuration file and applies TTL and sweep interval
// changes to a running cache.
type HotConfig struct {
	target   Reconfigurable
	watcher  *argus.Watcher
	logger   Logger
	mu       sync.RWMutex
	settings HotSettings

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldSettings, newSettings HotSettings)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldSettings, newSettings HotSettings)

	// Logger for hot reload operations.
	// If nil, uses the cache's logger.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration for a cache.
// The watcher runs from construction: the file is read right away and its
// settings reach the target before any change is written. Start is a no-op
// while the watcher runs.
//
// Example configuration file (YAML):
//
//	cache:
//	  default_ttl: "5m"
//	  sweep_interval: 60
//
// Supported configuration keys:
//   - cache.default_ttl: duration string ("90s", "5m") or number of seconds
//   - cache.sweep_interval: duration string or number of seconds; negative disables sweeping
//
// Keys that are missing or unparsable keep their current value.
func NewHotConfig(target Reconfigurable, opts HotConfigOptions) (*HotConfig, error) {
	if target == nil {
		return nil, NewErrInvalidConfig("target", "cache is required")
	}
	if opts.ConfigPath == "" {
		return nil, NewErrInvalidConfig("config_path", "config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		if lg, ok := target.(interface{ Logger() Logger }); ok {
			opts.Logger = lg.Logger()
		} else {
			opts.Logger = NoOpLogger{}
		}
	}

	ttl, interval := target.Settings()
	hc := &HotConfig{
		target:   target,
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		settings: HotSettings{DefaultTTL: ttl, SweepInterval: interval},
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, NewErrInternal("NewHotConfig", err)
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the settings last applied (thread-safe).
func (hc *HotConfig) GetConfig() HotSettings {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.settings
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldSettings := hc.settings
	newSettings := hc.parseConfig(configData, oldSettings)
	if newSettings != oldSettings {
		hc.target.Reconfigure(newSettings.DefaultTTL, newSettings.SweepInterval)
		// zero values were replaced by defaults
		newSettings.DefaultTTL, newSettings.SweepInterval = hc.target.Settings()
	}
	hc.settings = newSettings
	hc.mu.Unlock()

	if hc.OnReload != nil {
		hc.OnReload(oldSettings, newSettings)
	}
}

// parseConfig extracts cache settings from Argus config data, starting
// from current so that absent keys are left untouched.
func (hc *HotConfig) parseConfig(data map[string]interface{}, current HotSettings) HotSettings {
	settings := current

	section, ok := data["cache"].(map[string]interface{})
	if !ok {
		section = data
	}

	if raw, present := section["default_ttl"]; present {
		if ttl, ok := parseSeconds(raw); ok {
			settings.DefaultTTL = ttl
		} else {
			hc.logger.Warn("ignoring default_ttl",
				"error", NewErrInvalidConfig("default_ttl", "expected duration string or seconds"),
				"value", raw)
		}
	}

	if raw, present := section["sweep_interval"]; present {
		if interval, ok := parseSeconds(raw); ok {
			settings.SweepInterval = interval
		} else {
			hc.logger.Warn("ignoring sweep_interval",
				"error", NewErrInvalidConfig("sweep_interval", "expected duration string or seconds"),
				"value", raw)
		}
	}

	return settings
}

// parseSeconds accepts a duration string or a number of seconds.
// YAML and JSON decoders may produce either int or float64.
func parseSeconds(value interface{}) (time.Duration, bool) {
	switch v := value.(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d, true
		}
	case int:
		return time.Duration(v) * time.Second, true
	case int64:
		return time.Duration(v) * time.Second, true
	case float64:
		return time.Duration(v * float64(time.Second)), true
	}
	return 0, false
}
