// Package cache provides caching utilities shared by the validation engine.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of entries kept by caches built with a non-positive size.
const DefaultSize = 1024

// Memo is a thread-safe, size-bounded memoization table.
type Memo[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

// NewMemo creates a memo table holding at most maxItems entries.
// A non-positive maxItems selects DefaultSize.
func NewMemo[K comparable, V any](maxItems int) (*Memo[K, V], error) {
	if maxItems <= 0 {
		maxItems = DefaultSize
	}
	c, err := lru.New[K, V](maxItems)
	if err != nil {
		return nil, err
	}
	return &Memo[K, V]{cache: c}, nil
}

// MustMemo is like NewMemo but panics on error. It is intended for
// package-level tables whose size is a constant.
func MustMemo[K comparable, V any](maxItems int) *Memo[K, V] {
	m, err := NewMemo[K, V](maxItems)
	if err != nil {
		panic(err)
	}
	return m
}

// Get returns the value stored for key.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	return m.cache.Get(key)
}

// Put adds or updates an entry.
func (m *Memo[K, V]) Put(key K, value V) {
	m.cache.Add(key, value)
}

// Do returns the cached value for key, computing and storing it with fn on a miss.
// Errors are returned to the caller and never cached.
func (m *Memo[K, V]) Do(key K, fn func() (V, error)) (V, error) {
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	m.cache.Add(key, v)
	return v, nil
}

// Remove drops key from the table.
func (m *Memo[K, V]) Remove(key K) {
	m.cache.Remove(key)
}

// Len returns the current number of entries.
func (m *Memo[K, V]) Len() int {
	return m.cache.Len()
}
