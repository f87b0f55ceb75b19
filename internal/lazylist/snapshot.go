package lazylist

import (
	"fmt"
	"slices"
)

// Snapshot is a read-only view of [Content] taken at the start of a pass.
// Count, sticky headers and pins are copied eagerly; keys are read on
// demand and remembered so the end of the pass can tell whether the
// content changed underneath it.
type Snapshot struct {
	content   Content
	count     int
	version   uint64
	versioned bool
	keys      map[int]Key
	index     map[Key]int
	sticky    []int
	pinned    []int
}

// NewSnapshot snapshots content. pins may be nil.
func NewSnapshot(content Content, pins *Pins) *Snapshot {
	s := &Snapshot{
		content: content,
		count:   max(content.Len(), 0),
		keys:    make(map[int]Key),
	}
	if v, ok := content.(Versioned); ok {
		s.version, s.versioned = v.Version(), true
	}
	for _, i := range content.StickyHeaders() {
		if i >= 0 && i < s.count {
			s.sticky = append(s.sticky, i)
		}
	}
	slices.Sort(s.sticky)
	s.sticky = slices.Compact(s.sticky)
	s.pinned = pins.Indices(s.count)
	return s
}

// Count returns the number of items.
func (s *Snapshot) Count() int { return s.count }

// KeyOf returns the key at index.
func (s *Snapshot) KeyOf(index int) (Key, error) {
	if index < 0 || index >= s.count {
		return "", fmt.Errorf("key of %d (count %d): %w", index, s.count, ErrOutOfRange)
	}
	if k, ok := s.keys[index]; ok {
		return k, nil
	}
	k := s.content.KeyAt(index)
	s.keys[index] = k
	return k, nil
}

// IndexOf returns the index of key. The first lookup reads every key.
func (s *Snapshot) IndexOf(key Key) (int, bool) {
	if err := s.buildIndex(); err != nil {
		return -1, false
	}
	i, ok := s.index[key]
	return i, ok
}

// Validate reads every key and reports duplicates.
func (s *Snapshot) Validate() error {
	return s.buildIndex()
}

func (s *Snapshot) buildIndex() error {
	if s.index != nil {
		return nil
	}
	index := make(map[Key]int, s.count)
	for i := range s.count {
		k, _ := s.KeyOf(i)
		if j, ok := index[k]; ok {
			return fmt.Errorf("key %q at %d and %d: %w", k, j, i, ErrDuplicateKey)
		}
		index[k] = i
	}
	s.index = index
	return nil
}

func (s *Snapshot) factory(index int) Factory {
	return s.content.Item(index)
}

// Sticky returns the sorted sticky header indices.
func (s *Snapshot) Sticky() []int { return s.sticky }

// Pinned returns the sorted pinned indices.
func (s *Snapshot) Pinned() []int { return s.pinned }

// IsSticky reports whether index is a sticky header.
func (s *Snapshot) IsSticky(index int) bool {
	_, ok := slices.BinarySearch(s.sticky, index)
	return ok
}

// IsPinned reports whether index is pinned.
func (s *Snapshot) IsPinned(index int) bool {
	_, ok := slices.BinarySearch(s.pinned, index)
	return ok
}

// Verify reports [ErrInconsistentSnapshot] if the content no longer
// matches the snapshot.
func (s *Snapshot) Verify() error {
	if s.versioned {
		if v := s.content.(Versioned).Version(); v != s.version {
			return fmt.Errorf("version %d, snapshot %d: %w", v, s.version, ErrInconsistentSnapshot)
		}
		return nil
	}
	if n := s.content.Len(); n != s.count {
		return fmt.Errorf("count %d, snapshot %d: %w", n, s.count, ErrInconsistentSnapshot)
	}
	for i, k := range s.keys {
		if got := s.content.KeyAt(i); got != k {
			return fmt.Errorf("key at %d is %q, snapshot %q: %w", i, got, k, ErrInconsistentSnapshot)
		}
	}
	return nil
}
