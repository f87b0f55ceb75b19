package lazylist

import (
	"fmt"
	"testing"

	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/x/exp/ordered"
	"github.com/stretchr/testify/require"
)

// block is a single child of the given main size. Its cross size is
// clamped into the constraints.
func block(o geom.Orientation, main, cross int) Factory {
	return FactoryFunc(func(c geom.Constraints) ([]Box, error) {
		lo, hi := c.MinWidth, c.MaxWidth
		if o == geom.Horizontal {
			lo, hi = c.MinHeight, c.MaxHeight
		}
		return []Box{{Size: o.Size(main, ordered.Clamp(cross, lo, hi))}}, nil
	})
}

func key(i int) Key { return Key(fmt.Sprintf("item-%d", i)) }

func newItems(t *testing.T, sizes ...int) *Items {
	t.Helper()
	items := make([]Item, len(sizes))
	for i, s := range sizes {
		items[i] = Item{Key: key(i), Factory: block(geom.Vertical, s, 20)}
	}
	c, err := NewItems(items...)
	require.NoError(t, err)
	return c
}

func uniform(n, size int) []int {
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = size
	}
	return sizes
}

func mainOffsets(res *Result) []int {
	out := make([]int, 0, len(res.Items))
	for _, p := range res.Items {
		out = append(out, res.Orientation.MainOf(p.Offset))
	}
	return out
}

func indices(res *Result) []int {
	out := make([]int, 0, len(res.Items))
	for _, p := range res.Items {
		out = append(out, p.Index)
	}
	return out
}

func viewport(h int) geom.Constraints { return geom.Fixed(20, h) }

func options(mut ...func(*Options)) Options {
	o := DefaultOptions()
	for _, m := range mut {
		m(&o)
	}
	return o
}

// plain is content without a version counter.
type plain struct {
	keys    []Key
	factory func(i int) Factory
}

func (p *plain) Len() int                { return len(p.keys) }
func (p *plain) KeyAt(i int) Key         { return p.keys[i] }
func (p *plain) Item(i int) Factory      { return p.factory(i) }
func (p *plain) StickyHeaders() []int    { return nil }
func (p *plain) Move(from, to int) error { return nil }
