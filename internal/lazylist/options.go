package lazylist

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lazylist/internal/anim"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/metrics"
)

// Options configure how a list lays out its items.
type Options struct {
	Orientation   geom.Orientation
	ReverseLayout bool
	Padding       geom.Padding
	// Spacing is the gap between two consecutive items.
	Spacing int
	// Alignment positions children on the cross axis.
	Alignment geom.Alignment
	// BeyondBoundsItemCount items are laid out past each edge of the
	// viewport.
	BeyondBoundsItemCount int
	// CorrectionRetries bounds how many times a pass scrolls back to fill
	// a viewport left partially empty at the end of the content.
	CorrectionRetries int
	Animation         anim.Options
}

// DefaultOptions returns the options a list uses unless configured.
func DefaultOptions() Options {
	return Options{
		Alignment:         geom.AlignStart,
		CorrectionRetries: 1,
		Animation:         anim.DefaultOptions(),
	}
}

// Validate reports options the planner can't lay out with.
func (o Options) Validate() error {
	var errs []error
	if o.Spacing < 0 {
		errs = append(errs, fmt.Errorf("spacing must not be negative: %d", o.Spacing))
	}
	if o.BeyondBoundsItemCount < 0 {
		errs = append(errs, fmt.Errorf("beyond bounds item count must not be negative: %d", o.BeyondBoundsItemCount))
	}
	if o.CorrectionRetries < 0 {
		errs = append(errs, fmt.Errorf("correction retries must not be negative: %d", o.CorrectionRetries))
	}
	p := o.Padding
	if p.Start < 0 || p.End < 0 || p.Top < 0 || p.Bottom < 0 {
		errs = append(errs, fmt.Errorf("padding must not be negative: %+v", p))
	}
	if err := o.Animation.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type stateOptions struct {
	opts    Options
	metrics *metrics.Metrics
}

// Option configures a [State].
type Option func(*stateOptions)

// WithOptions replaces every layout option at once.
func WithOptions(opts Options) Option {
	return func(s *stateOptions) {
		s.opts = opts
	}
}

// WithOrientation sets the main axis.
func WithOrientation(o geom.Orientation) Option {
	return func(s *stateOptions) {
		s.opts.Orientation = o
	}
}

// WithReverseLayout lays items out from the end of the main axis.
func WithReverseLayout(reverse bool) Option {
	return func(s *stateOptions) {
		s.opts.ReverseLayout = reverse
	}
}

// WithPadding sets the content padding.
func WithPadding(p geom.Padding) Option {
	return func(s *stateOptions) {
		s.opts.Padding = p
	}
}

// WithSpacing sets the gap between items.
func WithSpacing(spacing int) Option {
	return func(s *stateOptions) {
		s.opts.Spacing = spacing
	}
}

// WithAlignment sets the cross-axis alignment.
func WithAlignment(a geom.Alignment) Option {
	return func(s *stateOptions) {
		s.opts.Alignment = a
	}
}

// WithBeyondBoundsItemCount lays out n extra items on each side.
func WithBeyondBoundsItemCount(n int) Option {
	return func(s *stateOptions) {
		s.opts.BeyondBoundsItemCount = n
	}
}

// WithCorrectionRetries sets the over-scroll correction bound.
func WithCorrectionRetries(n int) Option {
	return func(s *stateOptions) {
		s.opts.CorrectionRetries = n
	}
}

// WithAnimation sets the placement animation options.
func WithAnimation(o anim.Options) Option {
	return func(s *stateOptions) {
		s.opts.Animation = o
	}
}

// WithMetrics records pass metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *stateOptions) {
		s.metrics = m
	}
}
