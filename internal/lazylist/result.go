package lazylist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lazylist/internal/geom"
)

// Anchor is the scroll position of a list: the first visible index and
// how far it is scrolled past the start of the content area.
type Anchor struct {
	Index  int `json:"index"`
	Offset int `json:"offset"`
}

// PlacedChild is a child box at its absolute position.
type PlacedChild struct {
	Box    Box
	Offset geom.Offset
}

// Placement is an item positioned by a pass.
type Placement struct {
	Index int
	Key   Key
	// Offset is where the item is drawn. It differs from Target while the
	// item animates.
	Offset geom.Offset
	// Target is where the pass laid the item out.
	Target   geom.Offset
	Size     geom.Size
	Spacing  int
	Children []PlacedChild
	// Extra items are laid out outside the viewport for the beyond-bounds
	// margin.
	Extra     bool
	Sticky    bool
	Pinned    bool
	Dragged   bool
	Animating bool
	// Progress of the running animation, 1 when settled.
	Progress float64
}

// Rect returns the drawn bounds of the placement.
func (p Placement) Rect() (geom.Offset, geom.Size) {
	return p.Offset, p.Size
}

// Contains reports whether the drawn bounds contain (x, y).
func (p Placement) Contains(x, y int) bool {
	return x >= p.Offset.X && x < p.Offset.X+p.Size.Width &&
		y >= p.Offset.Y && y < p.Offset.Y+p.Size.Height
}

// Result is the outcome of one layout pass.
type Result struct {
	Anchor Anchor
	// TotalExtent is the main-axis extent of the laid out window: sizes,
	// spacing between the items and both paddings.
	TotalExtent int
	// EstimatedExtent extrapolates TotalExtent to every item using the
	// average measured size.
	EstimatedExtent int
	// ConsumedScroll is the part of the requested delta the pass
	// absorbed. UnconsumedScroll is handed back to the scroll driver.
	ConsumedScroll   float64
	UnconsumedScroll float64
	// Items are ordered by index. A sticky header that is not part of the
	// window comes first.
	Items []Placement
	// Pinned holds pinned items outside the window.
	Pinned []Placement
	// Header is the sticky header, if any. It is also part of Items.
	Header *Placement
	Count  int
	// Window is the laid out index range, extras included. Visible is the
	// part the viewport walk needed.
	Window            Range
	Visible           Range
	ViewportSize      geom.Size
	Origin            geom.Offset
	MainAxisAvailable int
	Orientation       geom.Orientation
	Reverse           bool
	CanScrollBackward bool
	CanScrollForward  bool
	// Measured is how many items the pass measured.
	Measured int
}

// Find returns the placement of key.
func (r *Result) Find(key Key) (Placement, bool) {
	if r == nil {
		return Placement{}, false
	}
	for _, p := range r.Items {
		if p.Key == key {
			return p, true
		}
	}
	for _, p := range r.Pinned {
		if p.Key == key {
			return p, true
		}
	}
	return Placement{}, false
}

// At returns the placement drawn at (x, y). Sticky headers are on top of
// other items.
func (r *Result) At(x, y int) (Placement, bool) {
	if r == nil {
		return Placement{}, false
	}
	if r.Header != nil && r.Header.Contains(x, y) {
		return *r.Header, true
	}
	for _, p := range r.Items {
		if !p.Sticky && p.Contains(x, y) {
			return p, true
		}
	}
	return Placement{}, false
}

// Dump renders the result as plain text, one placement per line.
func (r *Result) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "anchor %d+%d extent %d estimated %d consumed %g\n",
		r.Anchor.Index, r.Anchor.Offset, r.TotalExtent, r.EstimatedExtent, r.ConsumedScroll)
	fmt.Fprintf(&b, "count %d window %d..%d visible %d..%d viewport %s origin %s\n",
		r.Count, r.Window.First, r.Window.Last, r.Visible.First, r.Visible.Last, r.ViewportSize, r.Origin)
	fmt.Fprintf(&b, "scroll backward %t forward %t\n", r.CanScrollBackward, r.CanScrollForward)
	dump := func(prefix string, p Placement) {
		var flags []string
		for _, f := range []struct {
			on   bool
			name string
		}{
			{p.Extra, "extra"},
			{p.Sticky, "sticky"},
			{p.Pinned, "pinned"},
			{p.Dragged, "dragged"},
			{p.Animating, "animating"},
		} {
			if f.on {
				flags = append(flags, f.name)
			}
		}
		line := fmt.Sprintf("%s%4d %-12s %-10s %-8s %s", prefix, p.Index, p.Key, p.Offset, p.Size, strings.Join(flags, ","))
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	for _, p := range r.Items {
		dump("", p)
	}
	for _, p := range r.Pinned {
		dump("pin ", p)
	}
	return b.String()
}
