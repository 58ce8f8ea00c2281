// events.go: observer registration for cache lifecycle events
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

import (
	"sync"
	"sync/atomic"
)

// EventType identifies a cache lifecycle event.
type EventType int

const (
	// EventSet is emitted after a successful Set. Carries Key and Value.
	EventSet EventType = iota + 1

	// EventDeleted is emitted for every key removed by Del. Carries Key.
	EventDeleted

	// EventExpired is emitted for every key removed because its TTL elapsed,
	// whether found by a read or by a sweep. Carries Key.
	EventExpired

	// EventSwept is emitted after every sweep. Carries Count.
	EventSwept

	// EventFlush is emitted after Flush. Carries nothing.
	EventFlush
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventSet:
		return "set"
	case EventDeleted:
		return "deleted"
	case EventExpired:
		return "expired"
	case EventSwept:
		return "swept"
	case EventFlush:
		return "flush"
	default:
		return "unknown"
	}
}

func (t EventType) valid() bool {
	return t >= EventSet && t <= EventFlush
}

// Event is delivered to listeners. Only the fields documented for
// its Type are meaningful; the others hold zero values.
type Event[K comparable, V any] struct {
	Type  EventType
	Key   K
	Value V
	Count int
}

// Listener receives cache events. Listeners run synchronously on the
// goroutine that triggered the event, after the cache lock is released,
// so they may safely call back into the cache. They should be fast.
type Listener[K comparable, V any] func(Event[K, V])

// Subscription identifies a registered listener. Pass it to Off to unregister.
type Subscription uint64

type subscriber[K comparable, V any] struct {
	id Subscription
	fn Listener[K, V]
}

// emitter keeps listeners per event type. The subscriber slices are
// copy-on-write so emit can iterate without holding the lock.
type emitter[K comparable, V any] struct {
	mu        sync.RWMutex
	nextID    Subscription
	listeners map[EventType][]subscriber[K, V]
	count     atomic.Int64
	logger    Logger
}

func newEmitter[K comparable, V any](logger Logger) *emitter[K, V] {
	return &emitter[K, V]{
		listeners: make(map[EventType][]subscriber[K, V]),
		logger:    logger,
	}
}

func (e *emitter[K, V]) on(t EventType, fn Listener[K, V]) (Subscription, error) {
	if !t.valid() {
		return 0, NewErrUnknownEvent(t)
	}
	if fn == nil {
		return 0, NewErrInvalidListener(t)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	current := e.listeners[t]
	next := make([]subscriber[K, V], len(current), len(current)+1)
	copy(next, current)
	e.listeners[t] = append(next, subscriber[K, V]{id: id, fn: fn})
	e.count.Add(1)
	return id, nil
}

func (e *emitter[K, V]) off(id Subscription) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for t, subs := range e.listeners {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			if len(subs) == 1 {
				delete(e.listeners, t)
			} else {
				next := make([]subscriber[K, V], 0, len(subs)-1)
				next = append(next, subs[:i]...)
				e.listeners[t] = append(next, subs[i+1:]...)
			}
			e.count.Add(-1)
			return true
		}
	}
	return false
}

// active reports whether anyone listens. Operations skip building
// event batches when it returns false.
func (e *emitter[K, V]) active() bool {
	return e.count.Load() > 0
}

func (e *emitter[K, V]) emit(events []Event[K, V]) {
	for _, ev := range events {
		e.mu.RLock()
		subs := e.listeners[ev.Type]
		e.mu.RUnlock()

		for _, s := range subs {
			e.call(s, ev)
		}
	}
}

func (e *emitter[K, V]) call(s subscriber[K, V], ev Event[K, V]) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event listener panicked",
				"event", ev.Type.String(),
				"subscription", uint64(s.id),
				"error", NewErrPanicRecovered("listener:"+ev.Type.String(), r))
		}
	}()
	s.fn(ev)
}
