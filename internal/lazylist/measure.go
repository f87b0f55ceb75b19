package lazylist

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lazylist/internal/geom"
)

// Child is a measured box positioned inside its item.
type Child struct {
	Box Box
	// MainOffset is the distance from the item's start on the main axis.
	MainOffset int
	// CrossOffset is the aligned position on the cross axis.
	CrossOffset int
}

// MeasuredItem is the immutable result of measuring one index.
type MeasuredItem struct {
	Index    int
	Key      Key
	Children []Child
	// Size is the main-axis size without spacing.
	Size int
	// Spacing follows the item; it is zero for the last item.
	Spacing int
	// CrossSize is the cross extent the children occupy.
	CrossSize int
}

// SizeWithSpacing is the main-axis space the item takes in the sequence.
func (m MeasuredItem) SizeWithSpacing() int { return m.Size + m.Spacing }

// Measurer measures items of one snapshot, at most once per index.
type Measurer struct {
	snapshot *Snapshot
	policy   policy
	cache    map[int]MeasuredItem
	measured int
}

func newMeasurer(s *Snapshot, p policy) *Measurer {
	return &Measurer{
		snapshot: s,
		policy:   p,
		cache:    make(map[int]MeasuredItem),
	}
}

// Measured returns how many items were measured so far.
func (m *Measurer) Measured() int { return m.measured }

// Constraints returns the constraints children are measured with.
func (m *Measurer) Constraints() geom.Constraints { return m.policy.child }

// Measure measures index, returning the cached item when it was measured
// before in this pass.
func (m *Measurer) Measure(index int) (MeasuredItem, error) {
	if item, ok := m.cache[index]; ok {
		return item, nil
	}
	key, err := m.snapshot.KeyOf(index)
	if err != nil {
		return MeasuredItem{}, err
	}
	fail := func(err error) (MeasuredItem, error) {
		return MeasuredItem{}, &MeasurementError{Index: index, Key: key, Err: err}
	}

	factory := m.snapshot.factory(index)
	if factory == nil {
		return fail(errors.New("no content for item"))
	}
	cc := m.policy.child
	boxes, err := factory.Measure(cc)
	if err != nil {
		return fail(err)
	}
	m.measured++

	o := m.policy.orientation
	crossSize := 0
	for i, b := range boxes {
		if !cc.Satisfies(b.Size) {
			return fail(fmt.Errorf("child %d size %s violates %s", i, b.Size, cc))
		}
		crossSize = max(crossSize, o.Cross(b.Size))
	}
	line := m.policy.lineCross
	if line < 0 {
		line = crossSize
	}

	children := make([]Child, 0, len(boxes))
	main := 0
	for _, b := range boxes {
		align := m.policy.alignment
		if align == geom.AlignNone {
			align = b.Align
		}
		children = append(children, Child{
			Box:         b,
			MainOffset:  main,
			CrossOffset: align.Align(o.Cross(b.Size), line),
		})
		main += o.Main(b.Size)
	}

	spacing := m.policy.spacing
	if index == m.snapshot.Count()-1 {
		spacing = 0
	}
	item := MeasuredItem{
		Index:     index,
		Key:       key,
		Children:  children,
		Size:      main,
		Spacing:   spacing,
		CrossSize: crossSize,
	}
	m.cache[index] = item
	return item, nil
}
