package csync

import (
	"iter"
	"slices"
	"sync"
	"sync/atomic"
)

// Slice is a thread-safe slice that keeps track of its version. Every
// mutation bumps the version.
type Slice[T any] struct {
	inner []T
	mu    sync.RWMutex
	v     atomic.Uint64
}

// NewSlice creates a new thread-safe slice.
func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{}
}

// Insert inserts item at index. It returns false if index is out of
// [0, Len()].
func (s *Slice[T]) Insert(index int, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index > len(s.inner) {
		return false
	}
	s.inner = slices.Insert(s.inner, index, item)
	s.v.Add(1)
	return true
}

// Delete removes the element at index.
func (s *Slice[T]) Delete(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.inner) {
		return false
	}
	s.inner = slices.Delete(s.inner, index, index+1)
	s.v.Add(1)
	return true
}

// Move moves the element at from so it ends up at index to.
func (s *Slice[T]) Move(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.inner)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	item := s.inner[from]
	s.inner = slices.Delete(s.inner, from, from+1)
	s.inner = slices.Insert(s.inner, to, item)
	s.v.Add(1)
	return true
}

// Get returns the element at index.
func (s *Slice[T]) Get(index int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.inner) {
		var zero T
		return zero, false
	}
	return s.inner[index], true
}

// SetSlice replaces the whole slice.
func (s *Slice[T]) SetSlice(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = slices.Clone(items)
	s.v.Add(1)
}

// IndexFunc returns the first index satisfying f, or -1.
func (s *Slice[T]) IndexFunc(f func(T) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.IndexFunc(s.inner, f)
}

// Len returns the number of elements.
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inner)
}

// Version returns the current version of the slice.
func (s *Slice[T]) Version() uint64 {
	return s.v.Load()
}

// Seq returns an iterator over a copy of the slice.
func (s *Slice[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.Seq2() {
			if !yield(v) {
				return
			}
		}
	}
}

// Seq2 returns an index-value iterator over a copy of the slice.
func (s *Slice[T]) Seq2() iter.Seq2[int, T] {
	s.mu.RLock()
	items := slices.Clone(s.inner)
	s.mu.RUnlock()
	return slices.All(items)
}
