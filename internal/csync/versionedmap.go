package csync

import (
	"iter"
	"sync/atomic"
)

// VersionedMap is a [Map] that bumps a version counter on every change
// that has an effect. Readers compare versions to tell whether anything
// moved under them.
type VersionedMap[K comparable, V any] struct {
	m *Map[K, V]
	v atomic.Uint64
}

// NewVersionedMap returns an empty map at version 0.
func NewVersionedMap[K comparable, V any]() *VersionedMap[K, V] {
	return &VersionedMap[K, V]{m: NewMap[K, V]()}
}

// Get returns the value stored under key.
func (m *VersionedMap[K, V]) Get(key K) (V, bool) {
	return m.m.Get(key)
}

// Set stores value under key. Every Set is a change, even with an equal
// value, since values need not be comparable.
func (m *VersionedMap[K, V]) Set(key K, value V) {
	m.m.Set(key, value)
	m.v.Add(1)
}

// Del removes key. Removing a missing key leaves the version alone.
func (m *VersionedMap[K, V]) Del(key K) bool {
	if _, ok := m.m.Take(key); !ok {
		return false
	}
	m.v.Add(1)
	return true
}

// Seq2 yields a copy of the entries.
func (m *VersionedMap[K, V]) Seq2() iter.Seq2[K, V] {
	return m.m.Seq2()
}

// Len returns the number of entries.
func (m *VersionedMap[K, V]) Len() int {
	return m.m.Len()
}

// Version returns the number of changes so far.
func (m *VersionedMap[K, V]) Version() uint64 {
	return m.v.Load()
}
