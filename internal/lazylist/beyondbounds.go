package lazylist

import (
	"slices"
	"sync"
)

// Range is an inclusive range of indices.
type Range struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// Empty reports whether the range holds no index.
func (r Range) Empty() bool { return r.Last < r.First }

// Contains reports whether i is within the range.
func (r Range) Contains(i int) bool { return i >= r.First && i <= r.Last }

// Len returns the number of indices in the range.
func (r Range) Len() int { return max(0, r.Last-r.First+1) }

var emptyRange = Range{First: 0, Last: -1}

// Interval is a registered beyond-bounds range.
type Interval struct {
	Range
	passes int
}

// intervalPasses is how many passes an interval stays active: the one it
// was registered for and the one after.
const intervalPasses = 2

// BeyondBounds tracks ranges that must be laid out even though they are
// outside the viewport, for prefetching or moving focus.
type BeyondBounds struct {
	mu        sync.Mutex
	intervals []*Interval
}

// Add registers [from, to]. The bounds may be given in any order.
func (b *BeyondBounds) Add(from, to int) *Interval {
	if from > to {
		from, to = to, from
	}
	iv := &Interval{Range: Range{First: from, Last: to}, passes: intervalPasses}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.intervals = append(b.intervals, iv)
	return iv
}

// Remove revokes iv. It has no effect on a pass already running.
func (b *BeyondBounds) Remove(iv *Interval) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.intervals = slices.DeleteFunc(b.intervals, func(x *Interval) bool { return x == iv })
}

// Clear revokes every interval.
func (b *BeyondBounds) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.intervals = nil
}

// Len returns the number of active intervals.
func (b *BeyondBounds) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.intervals)
}

// active returns the union of the intervals registered for the pass
// about to run, and the intervals themselves for [BeyondBounds.age].
func (b *BeyondBounds) active() (Range, []*Interval, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.intervals) == 0 {
		return emptyRange, nil, false
	}
	merged := b.intervals[0].Range
	for _, iv := range b.intervals[1:] {
		merged.First = min(merged.First, iv.First)
		merged.Last = max(merged.Last, iv.Last)
	}
	return merged, slices.Clone(b.intervals), true
}

// age counts a successful pass against ivs. Intervals added while the
// pass ran are left alone.
func (b *BeyondBounds) age(ivs []*Interval) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, iv := range ivs {
		iv.passes--
	}
	b.intervals = slices.DeleteFunc(b.intervals, func(iv *Interval) bool {
		return iv.passes <= 0
	})
}
