// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package concurrent provides small concurrency safe containers.
package concurrent

import "sync"

// Cache is a rwmutex guarded map. The zero value is not usable, use
// [NewCache].
type Cache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// NewCache initializes a [Cache].
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		data: make(map[K]V),
	}
}

// Get returns the value cached under k, if any.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.data[k]
	return v, ok
}

// GetOr returns the value cached under k, computing and caching it
// with f on a miss. A miss is rechecked under the write lock before
// computing, so concurrent callers of the same key compute once.
func (c *Cache[K, V]) GetOr(k K, f func() (V, error)) (V, error) {
	if v, ok := c.Get(k); ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[k]
	if ok {
		return v, nil
	}

	v, err := f()
	if err != nil {
		return v, err
	}

	c.data[k] = v
	return v, nil
}
