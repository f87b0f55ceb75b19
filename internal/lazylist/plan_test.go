package lazylist

import (
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/require"
)

func TestPlanThreeItems(t *testing.T) {
	t.Parallel()

	res, err := Plan(Input{
		Content:     newItems(t, 10, 10, 10),
		Constraints: viewport(25),
		Options:     options(func(o *Options) { o.Spacing = 2 }),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, indices(res))
	require.Equal(t, []int{0, 12, 24}, mainOffsets(res))
	require.Equal(t, 34, res.TotalExtent)
	require.Equal(t, Range{First: 0, Last: 2}, res.Window)
	require.Equal(t, 2, res.Items[0].Spacing)
	require.Equal(t, 0, res.Items[2].Spacing, "no spacing after the last item")
	require.True(t, res.CanScrollForward)
	require.False(t, res.CanScrollBackward)
}

func TestPlanDump(t *testing.T) {
	t.Parallel()

	res, err := Plan(Input{
		Content:     newItems(t, 10, 10, 10),
		Constraints: viewport(25),
		Options:     options(func(o *Options) { o.Spacing = 2 }),
	}, nil)
	require.NoError(t, err)
	golden.RequireEqual(t, []byte(res.Dump()))
}

func TestPlanEmpty(t *testing.T) {
	t.Parallel()

	res, err := Plan(Input{
		Content:     newItems(t),
		Constraints: viewport(25),
		Anchor:      Anchor{Index: 4, Offset: 3},
		ScrollDelta: 10,
		Options: options(func(o *Options) {
			o.Padding = geom.Padding{Top: 3, Bottom: 4}
		}),
	}, nil)
	require.NoError(t, err)
	require.Empty(t, res.Items)
	require.Equal(t, 7, res.TotalExtent)
	require.Equal(t, Anchor{}, res.Anchor)
	require.Zero(t, res.ConsumedScroll)
	require.True(t, res.Window.Empty())
}

func TestPlanNegativeAvailableSize(t *testing.T) {
	t.Parallel()

	for _, reverse := range []bool{false, true} {
		res, err := Plan(Input{
			Content:     newItems(t, uniform(5, 10)...),
			Constraints: viewport(60),
			Options: options(func(o *Options) {
				o.Padding = geom.Padding{Top: 50, Bottom: 50}
				o.ReverseLayout = reverse
			}),
		}, nil)
		require.NoError(t, err)
		require.Empty(t, res.Items)
		require.Equal(t, 100, res.TotalExtent)
		require.Equal(t, -40, res.MainAxisAvailable)
		if reverse {
			require.Equal(t, geom.Offset{Y: 10}, res.Origin)
		} else {
			require.Equal(t, geom.Offset{Y: 50}, res.Origin)
		}
	}
}

func TestPlanScroll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		count      int
		anchor     Anchor
		delta      float64
		wantAnchor Anchor
		wantUsed   float64
		wantIdx    []int
		wantOffset []int
	}{
		{
			name:       "forward",
			count:      10,
			delta:      15,
			wantAnchor: Anchor{Index: 1, Offset: 5},
			wantUsed:   15,
			wantIdx:    []int{1, 2, 3},
			wantOffset: []int{-5, 5, 15},
		},
		{
			name:       "backward",
			count:      10,
			anchor:     Anchor{Index: 3},
			delta:      -12,
			wantAnchor: Anchor{Index: 1, Offset: 8},
			wantUsed:   -12,
			wantIdx:    []int{1, 2, 3, 4},
			wantOffset: []int{-8, 2, 12, 22},
		},
		{
			name:       "before start",
			count:      10,
			delta:      -10,
			wantAnchor: Anchor{},
			wantUsed:   0,
			wantIdx:    []int{0, 1, 2},
			wantOffset: []int{0, 10, 20},
		},
		{
			name:       "past end",
			count:      4,
			delta:      100,
			wantAnchor: Anchor{Index: 1, Offset: 5},
			wantUsed:   15,
			wantIdx:    []int{1, 2, 3},
			wantOffset: []int{-5, 5, 15},
		},
		{
			name:       "anchor past count",
			count:      4,
			anchor:     Anchor{Index: 40, Offset: 3},
			wantAnchor: Anchor{Index: 1, Offset: 5},
			wantUsed:   0,
			wantIdx:    []int{1, 2, 3},
			wantOffset: []int{-5, 5, 15},
		},
		{
			name:       "content fits",
			count:      2,
			delta:      30,
			wantAnchor: Anchor{},
			wantUsed:   0,
			wantIdx:    []int{0, 1},
			wantOffset: []int{0, 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := Plan(Input{
				Content:     newItems(t, uniform(tt.count, 10)...),
				Constraints: viewport(25),
				Options:     DefaultOptions(),
				Anchor:      tt.anchor,
				ScrollDelta: tt.delta,
			}, nil)
			require.NoError(t, err)
			require.Equal(t, tt.wantAnchor, res.Anchor)
			require.Equal(t, tt.wantUsed, res.ConsumedScroll)
			require.Equal(t, tt.wantIdx, indices(res))
			require.Equal(t, tt.wantOffset, mainOffsets(res))
		})
	}
}

func TestPlanReverseLayout(t *testing.T) {
	t.Parallel()

	res, err := Plan(Input{
		Content:     newItems(t, 10, 10, 10),
		Constraints: viewport(25),
		Options: options(func(o *Options) {
			o.Spacing = 2
			o.ReverseLayout = true
		}),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, indices(res))
	require.Equal(t, []int{15, 3, -9}, mainOffsets(res))
	require.Equal(t, 34, res.TotalExtent)
}

func TestPlanHorizontal(t *testing.T) {
	t.Parallel()

	items := make([]Item, 4)
	for i := range items {
		items[i] = Item{Key: key(i), Factory: block(geom.Horizontal, 8, 3)}
	}
	content, err := NewItems(items...)
	require.NoError(t, err)

	res, err := Plan(Input{
		Content:     content,
		Constraints: geom.Fixed(20, 5),
		Options: options(func(o *Options) {
			o.Orientation = geom.Horizontal
			o.Padding = geom.Padding{Start: 2, Top: 1}
			o.Alignment = geom.AlignEnd
		}),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, indices(res))
	require.Equal(t, geom.Offset{X: 2, Y: 1}, res.Items[0].Offset)
	require.Equal(t, geom.Offset{X: 10, Y: 1}, res.Items[1].Offset)
	// Cross extent is 4 once the top padding is taken out.
	require.Equal(t, geom.Offset{X: 2, Y: 2}, res.Items[0].Children[0].Offset)
	require.Equal(t, geom.Size{Width: 8, Height: 4}, res.Items[0].Size)
}

func TestPlanBeforePadding(t *testing.T) {
	t.Parallel()

	content := newItems(t, uniform(5, 10)...)
	opts := options(func(o *Options) { o.Padding = geom.Padding{Top: 5} })

	res, err := Plan(Input{Content: content, Constraints: viewport(25), Options: opts}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, indices(res))
	require.Equal(t, []int{5, 15}, mainOffsets(res))
	require.Equal(t, 25, res.TotalExtent)

	res, err = Plan(Input{Content: content, Constraints: viewport(25), Options: opts, ScrollDelta: 3}, nil)
	require.NoError(t, err)
	require.Equal(t, Anchor{Index: 0, Offset: 3}, res.Anchor)
	require.Equal(t, []int{0, 1, 2}, indices(res))
	require.Equal(t, []int{2, 12, 22}, mainOffsets(res))

	// An item scrolled fully into the padding still shows through it but
	// no longer anchors the list.
	res, err = Plan(Input{Content: content, Constraints: viewport(25), Options: opts, ScrollDelta: 12}, nil)
	require.NoError(t, err)
	require.Equal(t, Anchor{Index: 1, Offset: 2}, res.Anchor)
	require.Equal(t, []int{0, 1, 2, 3}, indices(res))
	require.Equal(t, []int{-7, 3, 13, 23}, mainOffsets(res))
}

func TestPlanBeyondBoundsItemCount(t *testing.T) {
	t.Parallel()

	res, err := Plan(Input{
		Content:     newItems(t, uniform(20, 10)...),
		Constraints: viewport(25),
		Anchor:      Anchor{Index: 5},
		Options:     options(func(o *Options) { o.BeyondBoundsItemCount = 2 }),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4, 5, 6, 7, 8, 9}, indices(res))
	require.Equal(t, []int{-20, -10, 0, 10, 20, 30, 40}, mainOffsets(res))
	require.Equal(t, Range{First: 3, Last: 9}, res.Window)
	require.Equal(t, Range{First: 5, Last: 7}, res.Visible)
	require.True(t, res.Items[0].Extra)
	require.False(t, res.Items[2].Extra)
	require.True(t, res.Items[6].Extra)
	require.Equal(t, 70, res.TotalExtent)
	require.Equal(t, 200, res.EstimatedExtent)
}

func TestPlanBeyondBoundsInterval(t *testing.T) {
	t.Parallel()

	res, err := Plan(Input{
		Content:      newItems(t, uniform(20, 10)...),
		Constraints:  viewport(25),
		BeyondBounds: &Range{First: 9, Last: 11},
		Options:      DefaultOptions(),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, Range{First: 0, Last: 11}, res.Window)
	require.Len(t, res.Items, 12)
	require.Equal(t, 110, mainOffsets(res)[11])
}

func TestPlanPinned(t *testing.T) {
	t.Parallel()

	content := newItems(t, uniform(20, 10)...)
	var pins Pins
	h := pins.Pin(15)
	before := pins.Pin(1)

	res, err := Plan(Input{
		Content:     content,
		Pins:        &pins,
		Constraints: viewport(25),
		Anchor:      Anchor{Index: 5},
		Options:     DefaultOptions(),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{5, 6, 7}, indices(res))
	require.Len(t, res.Pinned, 2)
	require.Equal(t, 1, res.Pinned[0].Index)
	require.Equal(t, -10, res.Pinned[0].Offset.Y)
	require.Equal(t, 15, res.Pinned[1].Index)
	require.Equal(t, 30, res.Pinned[1].Offset.Y)
	require.True(t, res.Pinned[1].Pinned)
	require.Equal(t, 30, res.TotalExtent, "pinned items are not part of the extent")

	h.Release()
	h.Release()
	before.Release()
	res, err = Plan(Input{Content: content, Pins: &pins, Constraints: viewport(25), Options: DefaultOptions()}, nil)
	require.NoError(t, err)
	require.Empty(t, res.Pinned)
}

func TestPlanStickyHeaders(t *testing.T) {
	t.Parallel()

	items := make([]Item, 10)
	for i := range items {
		items[i] = Item{Key: key(i), Factory: block(geom.Vertical, 10, 20), Sticky: i == 0 || i == 5}
	}
	content, err := NewItems(items...)
	require.NoError(t, err)

	tests := []struct {
		name       string
		anchor     Anchor
		wantIdx    []int
		wantHeader int
		wantOffset int
		wantExtent int
	}{
		{
			name:       "header in place",
			anchor:     Anchor{},
			wantIdx:    []int{0, 1, 2},
			wantHeader: 0,
			wantOffset: 0,
			wantExtent: 30,
		},
		{
			name:       "header scrolled away sticks",
			anchor:     Anchor{Index: 2},
			wantIdx:    []int{0, 2, 3, 4},
			wantHeader: 0,
			wantOffset: 0,
			wantExtent: 30,
		},
		{
			name:       "pushed by next header",
			anchor:     Anchor{Index: 4, Offset: 5},
			wantIdx:    []int{0, 4, 5, 6},
			wantHeader: 0,
			wantOffset: -5,
			wantExtent: 30,
		},
		{
			name:       "next header takes over",
			anchor:     Anchor{Index: 5, Offset: 3},
			wantIdx:    []int{5, 6, 7},
			wantHeader: 5,
			wantOffset: 0,
			wantExtent: 30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := Plan(Input{
				Content:     content,
				Constraints: viewport(25),
				Anchor:      tt.anchor,
				Options:     DefaultOptions(),
			}, nil)
			require.NoError(t, err)
			require.Equal(t, tt.wantIdx, indices(res))
			require.NotNil(t, res.Header)
			require.Equal(t, tt.wantHeader, res.Header.Index)
			require.Equal(t, tt.wantOffset, res.Header.Offset.Y)
			require.True(t, res.Header.Sticky)
			require.Equal(t, tt.wantExtent, res.TotalExtent)

			p, ok := res.At(1, 0)
			require.True(t, ok)
			require.Equal(t, tt.wantHeader, p.Index, "the header is drawn on top")
		})
	}
}

func TestPlanAlignment(t *testing.T) {
	t.Parallel()

	var seen geom.Constraints
	factory := FactoryFunc(func(c geom.Constraints) ([]Box, error) {
		seen = c
		w := max(10, c.MinWidth)
		return []Box{
			{Size: geom.Size{Width: w, Height: 2}, Align: geom.AlignEnd},
			{Size: geom.Size{Width: 4, Height: 3}},
		}, nil
	})

	tests := []struct {
		name  string
		align geom.Alignment
		want  []int
	}{
		{name: "start", align: geom.AlignStart, want: []int{0, 0}},
		{name: "center", align: geom.AlignCenter, want: []int{5, 8}},
		{name: "end", align: geom.AlignEnd, want: []int{10, 16}},
		{name: "stretch", align: geom.AlignStretch, want: []int{0, 0}},
		{name: "none", align: geom.AlignNone, want: []int{10, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := NewItems(Item{Key: "a", Factory: factory})
			require.NoError(t, err)
			res, err := Plan(Input{
				Content:     content,
				Constraints: viewport(25),
				Options:     options(func(o *Options) { o.Alignment = tt.align }),
			}, nil)
			if tt.align == geom.AlignStretch {
				// The second child is narrower than the stretched minimum.
				var merr *MeasurementError
				require.ErrorAs(t, err, &merr)
				require.Equal(t, 20, seen.MinWidth)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 0, seen.MinWidth)
			children := res.Items[0].Children
			require.Equal(t, tt.want, []int{children[0].Offset.X, children[1].Offset.X})
			require.Equal(t, 2, children[1].Offset.Y)
			require.Equal(t, 5, res.Items[0].Size.Height)
		})
	}
}

func TestPlanErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name    string
		factory Factory
		c       geom.Constraints
		want    error
	}{
		{
			name:    "factory error",
			factory: FactoryFunc(func(geom.Constraints) ([]Box, error) { return nil, boom }),
			c:       viewport(25),
			want:    boom,
		},
		{
			name: "constraint violation",
			factory: FactoryFunc(func(geom.Constraints) ([]Box, error) {
				return []Box{{Size: geom.Size{Width: 99, Height: 1}}}, nil
			}),
			c:    viewport(25),
			want: ErrMeasurement,
		},
		{
			name:    "missing factory",
			factory: nil,
			c:       viewport(25),
			want:    ErrMeasurement,
		},
		{
			name:    "unbounded main axis",
			factory: block(geom.Vertical, 10, 5),
			c:       geom.Constraints{MaxWidth: 20, MaxHeight: geom.Infinity},
			want:    ErrUnboundedMainAxis,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			content, err := NewItems(Item{Key: "a", Factory: tt.factory})
			require.NoError(t, err)
			res, err := Plan(Input{Content: content, Constraints: tt.c, Options: DefaultOptions()}, nil)
			require.Nil(t, res)
			require.ErrorIs(t, err, tt.want)
			if tt.want != ErrUnboundedMainAxis {
				var merr *MeasurementError
				require.ErrorAs(t, err, &merr)
				require.Equal(t, 0, merr.Index)
				require.Equal(t, Key("a"), merr.Key)
			}
		})
	}
}

func TestPlanInconsistentSnapshot(t *testing.T) {
	t.Parallel()

	p := &plain{keys: []Key{"a", "b"}}
	p.factory = func(i int) Factory {
		return FactoryFunc(func(geom.Constraints) ([]Box, error) {
			p.keys = append(p.keys, Key(fmt.Sprintf("late-%d", len(p.keys))))
			return []Box{{Size: geom.Size{Width: 5, Height: 5}}}, nil
		})
	}
	_, err := Plan(Input{Content: p, Constraints: viewport(25), Options: DefaultOptions()}, nil)
	require.ErrorIs(t, err, ErrInconsistentSnapshot)
}

// The viewport is always covered by a contiguous run of items.
func TestPlanWindowProperties(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 12; n++ {
		sizes := make([]int, n)
		for i := range sizes {
			sizes[i] = 3 + (i*7)%11
		}
		content := newItems(t, sizes...)
		total := 0
		for _, s := range sizes {
			total += s + 1
		}
		for _, vp := range []int{1, 7, 25, 60} {
			for _, a := range []Anchor{{}, {Index: n / 2, Offset: 2}, {Index: n + 3}} {
				for _, delta := range []float64{0, 9, -9, 1000} {
					res, err := Plan(Input{
						Content:     content,
						Constraints: viewport(vp),
						Anchor:      a,
						ScrollDelta: delta,
						Options: options(func(o *Options) {
							o.Spacing = 1
							o.BeyondBoundsItemCount = 1
						}),
					}, nil)
					require.NoError(t, err)
					if n == 0 {
						require.Empty(t, res.Items)
						continue
					}
					idx := indices(res)
					for i := 1; i < len(idx); i++ {
						require.Equal(t, idx[i-1]+1, idx[i], "window must be contiguous: %v", idx)
					}
					require.Equal(t, res.Window.First, idx[0])
					require.Equal(t, res.Window.Last, idx[len(idx)-1])

					first := res.Items[res.Visible.First-res.Window.First]
					last := res.Items[res.Visible.Last-res.Window.First]
					require.LessOrEqual(t, first.Offset.Y, 0)
					if total-1 >= vp {
						require.GreaterOrEqual(t, last.Offset.Y+last.Size.Height+last.Spacing, vp)
					}
					require.GreaterOrEqual(t, res.Anchor.Offset, 0)
				}
			}
		}
	}
}

func TestPlanSpacingInvariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sizes   []int
		spacing int
		padding geom.Padding
	}{
		{name: "single", sizes: []int{4}, spacing: 3},
		{name: "uniform", sizes: uniform(6, 5), spacing: 2},
		{name: "mixed with padding", sizes: []int{1, 9, 3, 7}, spacing: 4, padding: geom.Padding{Top: 2, Bottom: 6}},
		{name: "no spacing", sizes: []int{2, 2, 2}, padding: geom.Padding{Bottom: 1}},
		{name: "empty", sizes: nil, spacing: 5, padding: geom.Padding{Top: 1, Bottom: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := Plan(Input{
				Content:     newItems(t, tt.sizes...),
				Constraints: viewport(500),
				Options: options(func(o *Options) {
					o.Spacing = tt.spacing
					o.Padding = tt.padding
				}),
			}, nil)
			require.NoError(t, err)
			want := tt.padding.Top + tt.padding.Bottom
			for _, s := range tt.sizes {
				want += s
			}
			if n := len(tt.sizes); n > 0 {
				want += tt.spacing * (n - 1)
			}
			require.Equal(t, want, res.TotalExtent)
		})
	}
}

func TestPlanIdempotent(t *testing.T) {
	t.Parallel()

	s, err := NewState(newItems(t, 4, 9, 2, 7, 11, 3, 8), WithSpacing(1), WithPadding(geom.Padding{Top: 2}))
	require.NoError(t, err)
	s.ScrollBy(6)
	first, err := s.Layout(viewport(15))
	require.NoError(t, err)
	second, err := s.Layout(viewport(15))
	require.NoError(t, err)
	require.Equal(t, first.Anchor, second.Anchor)
	require.Equal(t, first.Items, second.Items)
	require.Zero(t, second.ConsumedScroll)
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	content := newItems(t, uniform(8, 1)...)
	snap := NewSnapshot(content, nil)
	for i := range snap.Count() {
		k, err := snap.KeyOf(i)
		require.NoError(t, err)
		j, ok := snap.IndexOf(k)
		require.True(t, ok)
		require.Equal(t, i, j)
	}
	_, err := snap.KeyOf(8)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = snap.KeyOf(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.NoError(t, snap.Verify())

	require.NoError(t, content.Move(0, 3))
	require.ErrorIs(t, snap.Verify(), ErrInconsistentSnapshot)
}

func TestSnapshotDuplicateKeys(t *testing.T) {
	t.Parallel()

	p := &plain{keys: []Key{"a", "b", "a"}}
	snap := NewSnapshot(p, nil)
	require.ErrorIs(t, snap.Validate(), ErrDuplicateKey)
	_, ok := snap.IndexOf("a")
	require.False(t, ok)
}

func TestSnapshotPlainVerify(t *testing.T) {
	t.Parallel()

	p := &plain{keys: []Key{"a", "b", "c"}}
	snap := NewSnapshot(p, nil)
	_, _ = snap.KeyOf(1)
	require.NoError(t, snap.Verify())

	p.keys[2] = "z"
	require.NoError(t, snap.Verify(), "unread keys are not compared")

	p.keys[1] = "y"
	require.ErrorIs(t, snap.Verify(), ErrInconsistentSnapshot)

	p.keys = p.keys[:2]
	require.ErrorIs(t, snap.Verify(), ErrInconsistentSnapshot)
}

func TestPolicyCache(t *testing.T) {
	t.Parallel()

	var pc policyCache
	opts := DefaultOptions()
	_, hit, err := pc.get(opts, viewport(10))
	require.NoError(t, err)
	require.False(t, hit)

	_, hit, err = pc.get(opts, viewport(10))
	require.NoError(t, err)
	require.True(t, hit)

	opts.Spacing = 1
	p, hit, err := pc.get(opts, viewport(10))
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, 1, p.spacing)

	_, hit, err = pc.get(opts, viewport(11))
	require.NoError(t, err)
	require.False(t, hit)
}

func TestCheckSequence(t *testing.T) {
	t.Parallel()

	at := func(index, size, main int) laid {
		return laid{item: MeasuredItem{Index: index, Key: key(index), Size: size, Spacing: 1}, main: main}
	}
	sticky := func(l laid, main int) laid {
		l.sticky, l.main = true, main
		return l
	}
	tests := []struct {
		name     string
		items    []laid
		detached bool
		wantErr  bool
	}{
		{name: "empty"},
		{name: "contiguous", items: []laid{at(3, 4, -5), at(4, 2, 0), at(5, 6, 3)}},
		{name: "header in its slot", items: []laid{at(3, 4, -5), sticky(at(4, 2, 0), 7), at(5, 6, 3)}},
		{name: "header first in its slot", items: []laid{sticky(at(4, 2, 0), 7), at(5, 6, 3), at(6, 1, 10)}},
		{name: "detached header", items: []laid{sticky(at(1, 2, 0), 0), at(4, 2, 0), at(5, 6, 3)}, detached: true},
		{name: "missing index", items: []laid{at(3, 4, 0), at(5, 2, 5)}, wantErr: true},
		{name: "repeated index", items: []laid{at(3, 4, 0), at(3, 4, 5)}, wantErr: true},
		{name: "gap", items: []laid{at(3, 4, 0), at(4, 2, 6)}, wantErr: true},
		{name: "overlap", items: []laid{at(3, 4, 0), at(4, 2, 4)}, wantErr: true},
		{name: "gap after header", items: []laid{at(3, 4, 0), sticky(at(4, 2, 5), 0), at(5, 6, 9)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkSequence(tt.items, tt.detached)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLayout)
				return
			}
			require.NoError(t, err)
		})
	}
}
