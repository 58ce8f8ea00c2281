// Package clessidra provides an embeddable in-memory cache with per-entry TTL.
//
// Entries expire lazily when they are read and eagerly when the background
// sweeper runs, so stale values are never returned and never pile up.
//
// Example usage:
//
//	cache := clessidra.New[string, string](clessidra.Config{
//		DefaultTTL:    5 * time.Minute,
//		SweepInterval: time.Minute,
//	})
//	defer cache.Close()
//
//	cache.Set("key", "value")
//	value, found := cache.Get("key")
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

import "time"

const (
	// Version of Clessidra cache library
	Version = "v0.1.0-dev"

	// DefaultTTL is applied by Set when Config.DefaultTTL is left at zero
	DefaultTTL = 300 * time.Second

	// DefaultSweepInterval is the period between background sweeps
	DefaultSweepInterval = 60 * time.Second

	// NoExpiration stores entries permanently when used as a TTL.
	// As Config.DefaultTTL it makes Set create permanent entries,
	// as Config.SweepInterval it disables background sweeping.
	NoExpiration time.Duration = -1
)
