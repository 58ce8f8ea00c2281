// sweeper.go: the self-rescheduling sweep task owned by a Cache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

import "time"

// SweeperState describes the background sweep task.
//
//	idle -> scheduled -> running -> scheduled ... -> cancelled
//
// cancelled is terminal and only reached through Close.
type SweeperState int32

const (
	// SweeperIdle means no sweep is pending (interval <= 0).
	SweeperIdle SweeperState = iota

	// SweeperScheduled means a one-shot trigger is armed.
	SweeperScheduled

	// SweeperRunning means a sweep is executing.
	SweeperRunning

	// SweeperCancelled means the cache was closed. No sweep will be scheduled again.
	SweeperCancelled
)

// String returns the state name.
func (s SweeperState) String() string {
	switch s {
	case SweeperIdle:
		return "idle"
	case SweeperScheduled:
		return "scheduled"
	case SweeperRunning:
		return "running"
	case SweeperCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// sweeper arms one time.AfterFunc at a time. Every arm bumps gen and the
// trigger carries the gen it was armed with, so a trigger that fired while
// the cache lock was held by a Flush or manual Sweep is recognised as stale.
//
// All methods must be called with the owning cache's lock held.
type sweeper struct {
	timer *time.Timer
	gen   uint64
	state SweeperState
}

// schedule arms the next trigger. fire is invoked on its own goroutine.
func (s *sweeper) schedule(interval time.Duration, fire func(gen uint64)) {
	if s.state == SweeperCancelled {
		return
	}
	if interval <= 0 {
		s.state = SweeperIdle
		return
	}

	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(interval, func() { fire(gen) })
	s.state = SweeperScheduled
}

// stop disarms the pending trigger, if any.
func (s *sweeper) stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	if s.state != SweeperCancelled {
		s.state = SweeperIdle
	}
}

// begin disarms the pending trigger and marks a sweep in progress.
func (s *sweeper) begin() {
	s.stop()
	if s.state != SweeperCancelled {
		s.state = SweeperRunning
	}
}

// current reports whether a trigger armed with gen is still the live one.
func (s *sweeper) current(gen uint64) bool {
	return s.state == SweeperScheduled && gen == s.gen
}

// cancel stops the sweeper for good.
func (s *sweeper) cancel() {
	s.stop()
	s.state = SweeperCancelled
}
