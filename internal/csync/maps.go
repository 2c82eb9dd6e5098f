package csync

import (
	"maps"
	"sync"
)

// Map is a map guarded by a RWMutex.
type Map[K comparable, V any] struct {
	inner map[K]V
	mu    sync.RWMutex
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		inner: make(map[K]V),
	}
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.inner[key]
	return v, ok
}

// GetOrSet returns the value stored under key, storing the result of fn
// first if the key is missing. The second result reports whether fn ran.
func (m *Map[K, V]) GetOrSet(key K, fn func() V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.inner[key]; ok {
		return v, false
	}
	v := fn()
	m.inner[key] = v
	return v, true
}

// DeleteFunc removes every entry for which del returns true and reports how
// many were removed.
func (m *Map[K, V]) DeleteFunc(del func(K, V) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.inner)
	maps.DeleteFunc(m.inner, del)
	return n - len(m.inner)
}

func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.inner)
}
