// Package anim animates item placements between layout passes.
//
// An [Animator] keeps one record per item key. Records are created the
// first time a key is placed, move towards a new target whenever a pass
// places the key somewhere else, and are advanced only by [Animator.Tick]:
// the animator never starts goroutines or reads a clock.
package anim

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lazylist/internal/geom"
)

// State is the lifecycle state of a key.
type State int

const (
	Absent State = iota
	Settling
	Settled
)

func (s State) String() string {
	switch s {
	case Settling:
		return "settling"
	case Settled:
		return "settled"
	default:
		return "absent"
	}
}

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear easing.
func Linear(t float64) float64 { return t }

// EaseOutCubic decelerates towards the target.
func EaseOutCubic(t float64) float64 {
	t = 1 - t
	return 1 - t*t*t
}

// Options tune the animation.
type Options struct {
	// Duration is the time one leg of an animation takes.
	Duration time.Duration
	// Tolerance is the distance at which a settling record snaps to its
	// target.
	Tolerance float64
	// MaxDuration bounds the time a key may stay settling, retargets
	// included. Zero means no bound.
	MaxDuration time.Duration
	Easing      Easing
}

// DefaultOptions returns the options the list uses unless configured.
func DefaultOptions() Options {
	return Options{
		Duration:    150 * time.Millisecond,
		Tolerance:   0.5,
		MaxDuration: 600 * time.Millisecond,
		Easing:      EaseOutCubic,
	}
}

// Validate reports options that can't animate.
func (o Options) Validate() error {
	if o.Duration < 0 {
		return fmt.Errorf("animation duration must not be negative: %s", o.Duration)
	}
	if o.MaxDuration < 0 {
		return fmt.Errorf("animation max duration must not be negative: %s", o.MaxDuration)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("animation tolerance must not be negative: %v", o.Tolerance)
	}
	return nil
}

type vec struct{ x, y float64 }

func vecOf(o geom.Offset) vec { return vec{float64(o.X), float64(o.Y)} }

func (v vec) offset() geom.Offset {
	return geom.Offset{X: int(math.Round(v.x)), Y: int(math.Round(v.y))}
}

func (v vec) dist(w vec) float64 { return math.Hypot(v.x-w.x, v.y-w.y) }

func lerp(a, b vec, t float64) vec {
	return vec{a.x + (b.x-a.x)*t, a.y + (b.y-a.y)*t}
}

type record struct {
	from, target, current vec
	// elapsed is the time spent on the current leg, total the time spent
	// settling since the record left Settled.
	elapsed, total time.Duration
	state          State
	seen           bool
	absent         bool
}

func (r *record) settle() {
	r.current = r.target
	r.from = r.target
	r.elapsed, r.total = 0, 0
	r.state = Settled
}

// Animator holds the placement records of one list.
type Animator[K comparable] struct {
	opts    Options
	records map[K]*record
}

// New returns an empty animator.
func New[K comparable](opts Options) *Animator[K] {
	if opts.Easing == nil {
		opts.Easing = EaseOutCubic
	}
	return &Animator[K]{
		opts:    opts,
		records: make(map[K]*record),
	}
}

// SetOptions replaces the options. Running animations keep their
// progress.
func (a *Animator[K]) SetOptions(opts Options) {
	if opts.Easing == nil {
		opts.Easing = EaseOutCubic
	}
	a.opts = opts
}

// Options returns the current options.
func (a *Animator[K]) Options() Options { return a.opts }

// BeginPass starts a layout pass. shift is how far the content moved on
// screen because of scrolling; every record moves with it so scrolling on
// its own never animates.
func (a *Animator[K]) BeginPass(shift geom.Offset) {
	d := vecOf(shift)
	for _, r := range a.records {
		r.from = vec{r.from.x + d.x, r.from.y + d.y}
		r.target = vec{r.target.x + d.x, r.target.y + d.y}
		r.current = vec{r.current.x + d.x, r.current.y + d.y}
		r.seen = false
	}
}

// Resolve records that key is laid out at target during the current pass
// and returns where it should be drawn.
func (a *Animator[K]) Resolve(key K, target geom.Offset) geom.Offset {
	t := vecOf(target)
	r, ok := a.records[key]
	if !ok {
		a.records[key] = &record{from: t, target: t, current: t, state: Settled, seen: true}
		return target
	}
	r.seen = true
	r.absent = false
	if r.target == t {
		return r.current.offset()
	}
	// Start the new leg where the key is drawn right now.
	r.from = r.current
	r.target = t
	r.elapsed = 0
	if r.state != Settling {
		r.total = 0
	}
	r.state = Settling
	if r.from.dist(r.target) <= a.opts.Tolerance {
		r.settle()
	}
	return r.current.offset()
}

// Place puts key at target without animating.
func (a *Animator[K]) Place(key K, target geom.Offset) {
	t := vecOf(target)
	r := &record{target: t, seen: true}
	r.settle()
	a.records[key] = r
}

// EndPass finishes the current pass. Keys that were not placed are
// dropped unless they are still settling.
func (a *Animator[K]) EndPass() {
	for k, r := range a.records {
		if r.seen {
			continue
		}
		if r.state != Settling {
			delete(a.records, k)
			continue
		}
		r.absent = true
	}
}

// Tick advances every settling record by elapsed and reports whether any
// animation is still running.
func (a *Animator[K]) Tick(elapsed time.Duration) bool {
	if elapsed < 0 {
		elapsed = 0
	}
	for k, r := range a.records {
		if r.state != Settling {
			continue
		}
		r.elapsed += elapsed
		r.total += elapsed
		switch {
		case a.opts.Duration <= 0 || r.elapsed >= a.opts.Duration:
			r.settle()
		case a.opts.MaxDuration > 0 && r.total >= a.opts.MaxDuration:
			r.settle()
		default:
			p := a.opts.Easing(float64(r.elapsed) / float64(a.opts.Duration))
			r.current = lerp(r.from, r.target, p)
			if r.current.dist(r.target) <= a.opts.Tolerance {
				r.settle()
			}
		}
		if r.state == Settled && r.absent {
			delete(a.records, k)
		}
	}
	return a.Animating()
}

// Snap ends the animation of key, if any.
func (a *Animator[K]) Snap(key K) {
	if r, ok := a.records[key]; ok {
		r.settle()
	}
}

// Current returns where key is drawn right now.
func (a *Animator[K]) Current(key K) (geom.Offset, bool) {
	r, ok := a.records[key]
	if !ok {
		return geom.Offset{}, false
	}
	return r.current.offset(), true
}

// Progress returns how far along its current leg key is, 1 when settled
// or unknown.
func (a *Animator[K]) Progress(key K) float64 {
	r, ok := a.records[key]
	if !ok || r.state != Settling {
		return 1
	}
	total := r.from.dist(r.target)
	if total == 0 {
		return 1
	}
	return 1 - r.current.dist(r.target)/total
}

// State returns the lifecycle state of key.
func (a *Animator[K]) State(key K) State {
	r, ok := a.records[key]
	if !ok {
		return Absent
	}
	return r.state
}

// Animating reports whether any key is settling.
func (a *Animator[K]) Animating() bool {
	for _, r := range a.records {
		if r.state == Settling {
			return true
		}
	}
	return false
}

// Settling returns the number of settling keys.
func (a *Animator[K]) Settling() int {
	n := 0
	for _, r := range a.records {
		if r.state == Settling {
			n++
		}
	}
	return n
}

// Len returns the number of records.
func (a *Animator[K]) Len() int { return len(a.records) }

// Reset drops every record.
func (a *Animator[K]) Reset() {
	clear(a.records)
}
