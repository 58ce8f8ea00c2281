// loading.go: GetOrLoad implementation with singleflight deduplication
//
// This file implements GetOrLoad and GetOrLoadWithContext, the cache-aside
// path used to memoize expensive lookups. Concurrent misses for the same key
// share a single loader execution through golang.org/x/sync/singleflight.
// Flights are named by a per-cache id handed out per key, so keys that print
// alike (1 and "1", two pointers to equal structs) never share a load.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package clessidra

import (
	"context"
	"fmt"
	"strconv"
)

// GetOrLoad returns the cached value for key, or runs loader, stores its
// result with the default TTL and returns it.
//
// Parameters:
//   - key: The cache key to lookup or load
//   - loader: Function to load the value if not in cache. Must not be nil.
//
// Returns:
//   - value: The cached or loaded value (zero value on error)
//   - error: CLESSIDRA_INVALID_LOADER if loader is nil,
//     CLESSIDRA_PANIC_RECOVERED if loader panics,
//     CLESSIDRA_LOADER_FAILED wrapping the loader's own error
//
// Loader errors are never cached.
//
// Example:
//
//	user, err := users.GetOrLoad(123, func() (User, error) {
//	    return fetchUserFromDB(123)
//	})
func (c *Cache[K, V]) GetOrLoad(key K, loader func() (V, error)) (V, error) {
	var zero V

	if loader == nil {
		return zero, NewErrInvalidLoader(keyToString(key))
	}

	if value, found := c.Get(key); found {
		return value, nil
	}

	flight := c.acquireFlight(key)
	result, err, _ := c.loads.Do(flight, func() (interface{}, error) {
		return c.load(key, "GetOrLoad", loader)
	})
	c.releaseFlight(key)
	return c.unwrapLoaded(result, err)
}

// GetOrLoadWithContext is like GetOrLoad but respects context cancellation.
// A caller whose context ends while waiting returns ctx.Err(); the load itself
// keeps running and still populates the cache for the other waiters.
//
// The loader receives the starting caller's context stripped of its
// cancellation and deadline (context.WithoutCancel): values are visible, but
// the first caller leaving cannot fail the load for everyone who joined it.
// Loaders that need a bound of their own should apply one themselves.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//	user, err := users.GetOrLoadWithContext(ctx, 123, func(ctx context.Context) (User, error) {
//	    return fetchUserFromDBWithContext(ctx, 123)
//	})
func (c *Cache[K, V]) GetOrLoadWithContext(ctx context.Context, key K, loader func(context.Context) (V, error)) (V, error) {
	var zero V

	if loader == nil {
		return zero, NewErrInvalidLoader(keyToString(key))
	}

	if value, found := c.Get(key); found {
		return value, nil
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	loadCtx := context.WithoutCancel(ctx)
	flight := c.acquireFlight(key)
	ch := c.loads.DoChan(flight, func() (interface{}, error) {
		return c.load(key, "GetOrLoadWithContext", func() (V, error) {
			return loader(loadCtx)
		})
	})

	select {
	case res := <-ch:
		c.releaseFlight(key)
		return c.unwrapLoaded(res.Val, res.Err)
	case <-ctx.Done():
		// the id must outlive the flight or a new caller could start a second one
		go func() {
			<-ch
			c.releaseFlight(key)
		}()
		return zero, ctx.Err()
	}
}

// flightTicket is the singleflight name shared by the callers of one key.
type flightTicket struct {
	id   string
	refs int
}

// acquireFlight returns the flight id for key, minting a new one when no
// caller holds it. Every acquire must be paired with releaseFlight.
func (c *Cache[K, V]) acquireFlight(key K) string {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()

	if c.flights == nil {
		c.flights = make(map[K]*flightTicket)
	}
	t, ok := c.flights[key]
	if !ok {
		c.lastFlight++
		t = &flightTicket{id: strconv.FormatUint(c.lastFlight, 36)}
		c.flights[key] = t
	}
	t.refs++
	return t.id
}

func (c *Cache[K, V]) releaseFlight(key K) {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()

	t, ok := c.flights[key]
	if !ok {
		return
	}
	t.refs--
	if t.refs <= 0 {
		delete(c.flights, key)
	}
}

// flightRefs returns how many callers currently hold the flight id of key.
func (c *Cache[K, V]) flightRefs(key K) int {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()
	if t, ok := c.flights[key]; ok {
		return t.refs
	}
	return 0
}

// load runs loader with panic recovery and stores a successful result.
func (c *Cache[K, V]) load(key K, operation string, loader func() (V, error)) (result interface{}, err error) {
	name := keyToString(key)
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("loader panicked", "key", name, "panic", r)
			result, err = nil, NewErrPanicRecovered(operation+":"+name, r)
		}
	}()

	// a flight that finished just before this one started has already stored the value
	if value, found := c.peek(key); found {
		return value, nil
	}

	value, loadErr := loader()
	if loadErr != nil {
		return nil, NewErrLoaderFailed(name, loadErr)
	}

	c.Set(key, value)
	return value, nil
}

func (c *Cache[K, V]) unwrapLoaded(result interface{}, err error) (V, error) {
	var zero V
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	value, ok := result.(V)
	if !ok {
		return zero, NewErrInternal("GetOrLoad", nil)
	}
	return value, nil
}

// keyToString renders a key for logs and error context. Common types avoid fmt.
// Distinct keys may render alike, so it never names a flight.
func keyToString[K comparable](key K) string {
	switch v := any(key).(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		return fmt.Sprintf("%#v", key)
	}
}
