package lazylist

import (
	"slices"
	"sync"
)

// Pins keeps indices laid out even when they are far from the viewport,
// e.g. a focused item. Registrations are reference counted and take
// effect from the next pass.
type Pins struct {
	mu     sync.Mutex
	counts map[int]int
}

// PinHandle releases one registration.
type PinHandle struct {
	pins  *Pins
	index int
	once  sync.Once
}

// Pin registers index.
func (p *Pins) Pin(index int) *PinHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.counts == nil {
		p.counts = make(map[int]int)
	}
	p.counts[index]++
	return &PinHandle{pins: p, index: index}
}

// Index returns the pinned index.
func (h *PinHandle) Index() int { return h.index }

// Release drops the registration. Releasing twice is a no-op.
func (h *PinHandle) Release() {
	h.once.Do(func() {
		p := h.pins
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.counts[h.index]--; p.counts[h.index] <= 0 {
			delete(p.counts, h.index)
		}
	})
}

// Indices returns the sorted pinned indices below count. A nil *Pins has
// none.
func (p *Pins) Indices(count int) []int {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []int
	for i := range p.counts {
		if i >= 0 && i < count {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// Len returns the number of pinned indices.
func (p *Pins) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.counts)
}
