package lazylist

import (
	"fmt"
)

// Reorder drags one item through the list, moving it past a neighbour
// once it is dragged over the neighbour's midpoint.
type Reorder struct {
	state  *State
	mover  Mover
	key    Key
	index  int
	offset int
	active bool
}

// NewReorder returns a drag controller moving items of s through m,
// usually the content itself.
func NewReorder(s *State, m Mover) *Reorder {
	return &Reorder{state: s, mover: m}
}

// Start begins dragging key, which must be laid out by the last pass.
func (r *Reorder) Start(key Key) error {
	p, ok := r.state.Last().Find(key)
	if !ok {
		return fmt.Errorf("start drag %q: %w", key, ErrNotFound)
	}
	r.key, r.index, r.offset, r.active = key, p.Index, 0, true
	r.state.setDrag(&DragState{Key: key})
	return nil
}

// Dragging returns the dragged key.
func (r *Reorder) Dragging() (Key, bool) {
	return r.key, r.active
}

// Index returns the current index of the dragged key.
func (r *Reorder) Index() int { return r.index }

// Offset returns the displacement of the dragged item from its slot.
func (r *Reorder) Offset() int { return r.offset }

// Drag moves the pointer by delta along the main axis, in screen
// direction, and returns how many slots the item moved.
func (r *Reorder) Drag(delta int) (int, error) {
	if !r.active {
		return 0, nil
	}
	r.offset += delta

	res := r.state.Last()
	content := r.state.Content()
	spacing := r.state.Options().Spacing
	dir := 1
	if res != nil && res.Reverse {
		dir = -1
	}

	moved := 0
	for res != nil {
		// Displacement in index direction.
		disp := r.offset * dir
		step := 1
		if disp < 0 {
			step = -1
		} else if disp == 0 {
			break
		}
		next := r.index + step
		if next < 0 || next >= content.Len() {
			break
		}
		neighbour, ok := res.Find(content.KeyAt(next))
		if !ok {
			break
		}
		size := res.Orientation.Main(neighbour.Size) + spacing
		if abs(disp)*2 <= size {
			break
		}
		if err := r.mover.Move(r.index, next); err != nil {
			r.state.setDrag(&DragState{Key: r.key, Offset: r.offset})
			return moved, fmt.Errorf("drag %q: %w", r.key, err)
		}
		r.state.metrics.RecordMove()
		r.index = next
		r.offset -= step * dir * size
		moved++
	}
	r.state.setDrag(&DragState{Key: r.key, Offset: r.offset})
	return moved, nil
}

// End drops the item into its current slot; the next pass animates it
// there from where it was dragged to.
func (r *Reorder) End() (Key, int) {
	key, index := r.key, r.index
	r.key, r.offset, r.active = "", 0, false
	r.state.setDrag(nil)
	return key, index
}
