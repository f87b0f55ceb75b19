package lazylist

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/lazylist/internal/anim"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/metrics"
)

// State owns everything that survives between the passes of one list:
// the anchor, pending scroll, the animator, beyond-bounds intervals and
// pins. Every method is serialized by the state's mutex, so passes never
// overlap and ticks never race a pass.
type State struct {
	mu       sync.Mutex
	content  Content
	opts     Options
	anchor   Anchor
	pending  float64
	animator *anim.Animator[Key]
	policy   policyCache
	drag     *DragState
	last     *Result
	metrics  *metrics.Metrics

	beyond BeyondBounds
	pins   Pins
}

// NewState returns the state of a list over content.
func NewState(content Content, opts ...Option) (*State, error) {
	so := stateOptions{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(&so)
	}
	if err := so.opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid list options: %w", err)
	}
	return &State{
		content:  content,
		opts:     so.opts,
		animator: anim.New[Key](so.opts.Animation),
		metrics:  so.metrics,
	}, nil
}

// Layout runs one pass against the container constraints. A pass that
// saw the content change is retried once. On error the previous result
// stays available through [State.Last].
func (s *State) Layout(c geom.Constraints) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout(c)
}

// Frame advances animations by elapsed and runs a pass.
func (s *State) Frame(elapsed time.Duration, c geom.Constraints) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick(elapsed)
	return s.layout(c)
}

func (s *State) layout(c geom.Constraints) (*Result, error) {
	start := time.Now()
	in := Input{
		Content:     s.content,
		Pins:        &s.pins,
		Constraints: c,
		Options:     s.opts,
		Anchor:      s.anchor,
		ScrollDelta: s.pending,
		Metrics:     s.metrics,
	}
	r, intervals, ok := s.beyond.active()
	if ok {
		in.BeyondBounds = &r
	}
	if s.drag != nil {
		d := *s.drag
		in.Drag = &d
	}

	var (
		res *Result
		err error
	)
	for attempt := range 2 {
		res, err = plan(in, s.animator, &s.policy)
		if attempt > 0 || !errors.Is(err, ErrInconsistentSnapshot) {
			break
		}
		s.metrics.RecordRetry()
		slog.Debug("Content changed during layout pass, retrying", "anchor", s.anchor)
	}
	if err != nil {
		s.metrics.RecordPass(time.Since(start), 0, 0, false)
		slog.Error("Layout pass failed", "error", err)
		return nil, err
	}

	s.beyond.age(intervals)
	res.UnconsumedScroll = s.pending - res.ConsumedScroll
	s.pending = 0
	s.anchor = res.Anchor
	s.last = res
	s.metrics.RecordPass(time.Since(start), res.Measured, len(res.Items), true)
	return res, nil
}

// Tick advances animations by elapsed and reports whether any is still
// running.
func (s *State) Tick(elapsed time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick(elapsed)
}

func (s *State) tick(elapsed time.Duration) bool {
	animating := s.animator.Tick(elapsed)
	s.metrics.RecordTick(s.animator.Settling())
	return animating
}

// Animating reports whether any item is settling.
func (s *State) Animating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animator.Animating()
}

// Snap ends the animation of key.
func (s *State) Snap(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animator.Snap(key)
}

// ScrollBy queues a scroll delta for the next pass. Positive values
// scroll towards the end.
func (s *State) ScrollBy(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending += delta
}

// ScrollToItem makes index the first visible item, scrolled offset past
// the start. Pending scroll is dropped and running animations end, so
// items that stay on screen jump along with the rest.
func (s *State) ScrollToItem(index, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchor = Anchor{Index: max(index, 0), Offset: max(offset, 0)}
	s.pending = 0
	s.animator.Reset()
}

// Anchor returns the scroll position after the last pass.
func (s *State) Anchor() Anchor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor
}

// Restore sets the scroll position, e.g. one saved from [State.Anchor].
func (s *State) Restore(a Anchor) {
	s.ScrollToItem(a.Index, a.Offset)
}

// Last returns the result of the last successful pass.
func (s *State) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Options returns the layout options.
func (s *State) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// SetOptions replaces the layout options from the next pass on.
func (s *State) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid list options: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
	s.animator.SetOptions(opts.Animation)
	return nil
}

// Content returns the content being laid out.
func (s *State) Content() Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// SetContent swaps the content. Keys present in both keep animating.
func (s *State) SetContent(c Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = c
}

// BeyondBounds returns the tracker of beyond-bounds intervals.
func (s *State) BeyondBounds() *BeyondBounds { return &s.beyond }

// Pins returns the pinned indices registry.
func (s *State) Pins() *Pins { return &s.pins }

// Metrics returns the metrics the state records into, if any.
func (s *State) Metrics() *metrics.Metrics { return s.metrics }

func (s *State) setDrag(d *DragState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = d
}
