package lazylist

import (
	"encoding/binary"

	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/zeebo/xxh3"
)

// policy is everything a pass derives from options and container
// constraints alone.
type policy struct {
	orientation geom.Orientation
	reverse     bool
	padding     geom.Padding
	before      int
	after       int
	container   geom.Constraints
	content     geom.Constraints
	child       geom.Constraints
	// lineCross is the cross extent children align in, -1 when the cross
	// axis is unbounded.
	lineCross     int
	mainAvailable int
	origin        geom.Offset
	spacing       int
	alignment     geom.Alignment
	beyond        int
	retries       int
}

func newPolicy(opts Options, c geom.Constraints) (policy, error) {
	o := opts.Orientation
	if o.MainMax(c) == geom.Infinity {
		return policy{}, ErrUnboundedMainAxis
	}
	p := policy{
		orientation: o,
		reverse:     opts.ReverseLayout,
		padding:     opts.Padding,
		container:   c,
		spacing:     opts.Spacing,
		alignment:   opts.Alignment,
		beyond:      opts.BeyondBoundsItemCount,
		retries:     opts.CorrectionRetries,
	}
	p.before, p.after = opts.Padding.Resolve(o, opts.ReverseLayout)
	p.content = c.Offset(-opts.Padding.Horizontal(), -opts.Padding.Vertical())
	p.mainAvailable = o.MainMax(c) - p.before - p.after

	crossMax := o.CrossMax(p.content)
	crossMin := 0
	p.lineCross = -1
	if crossMax != geom.Infinity {
		p.lineCross = crossMax
		if opts.Alignment == geom.AlignStretch {
			crossMin = crossMax
		}
	}
	p.child = o.Constraints(0, geom.Infinity, crossMin, crossMax)

	p.origin = geom.Offset{X: opts.Padding.Start, Y: opts.Padding.Top}
	if opts.ReverseLayout && p.mainAvailable < 0 {
		// The layout overflows its container; the negative space is
		// taken from the leading edge.
		p.origin = p.origin.Add(o.Offset(p.mainAvailable, 0))
	}
	return p, nil
}

// policyCache memoises the policy of the last pass, keyed by a hash of
// the inputs it is derived from.
type policyCache struct {
	key   uint64
	valid bool
	p     policy
}

func policyKey(opts Options, c geom.Constraints) uint64 {
	b := make([]byte, 0, 14*8)
	for _, v := range []int{
		int(opts.Orientation),
		boolInt(opts.ReverseLayout),
		opts.Padding.Start, opts.Padding.End, opts.Padding.Top, opts.Padding.Bottom,
		opts.Spacing,
		int(opts.Alignment),
		opts.BeyondBoundsItemCount,
		opts.CorrectionRetries,
		c.MinWidth, c.MaxWidth, c.MinHeight, c.MaxHeight,
	} {
		b = binary.LittleEndian.AppendUint64(b, uint64(v))
	}
	return xxh3.Hash(b)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// get returns the policy for opts and c and whether it was memoised.
func (pc *policyCache) get(opts Options, c geom.Constraints) (policy, bool, error) {
	key := policyKey(opts, c)
	if pc.valid && pc.key == key {
		return pc.p, true, nil
	}
	p, err := newPolicy(opts, c)
	if err != nil {
		pc.valid = false
		return policy{}, false, err
	}
	pc.key, pc.p, pc.valid = key, p, true
	return p, false, nil
}
