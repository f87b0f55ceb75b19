// Package geom holds the axis-aware value types the layout engine measures
// and places items with.
package geom

import (
	"fmt"
	"math"
)

// Infinity marks an unbounded maximum in [Constraints].
const Infinity = math.MaxInt32

// Orientation is the main axis of a list.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation parses "vertical" or "horizontal".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("unknown orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Main returns the main-axis component of s.
func (o Orientation) Main(s Size) int {
	if o == Horizontal {
		return s.Width
	}
	return s.Height
}

// Cross returns the cross-axis component of s.
func (o Orientation) Cross(s Size) int {
	if o == Horizontal {
		return s.Height
	}
	return s.Width
}

// Size builds a size from main and cross components.
func (o Orientation) Size(main, cross int) Size {
	if o == Horizontal {
		return Size{Width: main, Height: cross}
	}
	return Size{Width: cross, Height: main}
}

// Offset builds an offset from main and cross components.
func (o Orientation) Offset(main, cross int) Offset {
	if o == Horizontal {
		return Offset{X: main, Y: cross}
	}
	return Offset{X: cross, Y: main}
}

// MainOf returns the main-axis component of off.
func (o Orientation) MainOf(off Offset) int {
	if o == Horizontal {
		return off.X
	}
	return off.Y
}

// CrossOf returns the cross-axis component of off.
func (o Orientation) CrossOf(off Offset) int {
	if o == Horizontal {
		return off.Y
	}
	return off.X
}

// MainMax is the maximum main-axis size allowed by c.
func (o Orientation) MainMax(c Constraints) int {
	if o == Horizontal {
		return c.MaxWidth
	}
	return c.MaxHeight
}

// CrossMax is the maximum cross-axis size allowed by c.
func (o Orientation) CrossMax(c Constraints) int {
	if o == Horizontal {
		return c.MaxHeight
	}
	return c.MaxWidth
}

// ConstrainMain clamps a main-axis size into c.
func (o Orientation) ConstrainMain(c Constraints, v int) int {
	if o == Horizontal {
		return c.ConstrainWidth(v)
	}
	return c.ConstrainHeight(v)
}

// ConstrainCross clamps a cross-axis size into c.
func (o Orientation) ConstrainCross(c Constraints, v int) int {
	if o == Horizontal {
		return c.ConstrainHeight(v)
	}
	return c.ConstrainWidth(v)
}

// Constraints builds constraints from main and cross bounds.
func (o Orientation) Constraints(minMain, maxMain, minCross, maxCross int) Constraints {
	if o == Horizontal {
		return Constraints{MinWidth: minMain, MaxWidth: maxMain, MinHeight: minCross, MaxHeight: maxCross}
	}
	return Constraints{MinWidth: minCross, MaxWidth: maxCross, MinHeight: minMain, MaxHeight: maxMain}
}

// Size is a width and height in cells (or any integer unit).
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Offset is a position relative to the list's top-left corner.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns o+p.
func (o Offset) Add(p Offset) Offset {
	return Offset{X: o.X + p.X, Y: o.Y + p.Y}
}

// Sub returns o-p.
func (o Offset) Sub(p Offset) Offset {
	return Offset{X: o.X - p.X, Y: o.Y - p.Y}
}

func (o Offset) String() string {
	return fmt.Sprintf("(%d,%d)", o.X, o.Y)
}

// Constraints bound the size a box may take. A maximum of [Infinity] is
// unbounded.
type Constraints struct {
	MinWidth  int `json:"min_width"`
	MaxWidth  int `json:"max_width"`
	MinHeight int `json:"min_height"`
	MaxHeight int `json:"max_height"`
}

// Fixed returns constraints that only admit w×h.
func Fixed(w, h int) Constraints {
	return Constraints{MinWidth: w, MaxWidth: w, MinHeight: h, MaxHeight: h}
}

// Loose returns constraints admitting anything up to w×h.
func Loose(w, h int) Constraints {
	return Constraints{MaxWidth: w, MaxHeight: h}
}

// Offset shrinks (negative deltas) or grows c. Bounds never drop below
// zero and unbounded maxima stay unbounded.
func (c Constraints) Offset(dw, dh int) Constraints {
	shift := func(v, d int) int {
		if v == Infinity {
			return v
		}
		return max(0, v+d)
	}
	return Constraints{
		MinWidth:  max(0, c.MinWidth+dw),
		MaxWidth:  shift(c.MaxWidth, dw),
		MinHeight: max(0, c.MinHeight+dh),
		MaxHeight: shift(c.MaxHeight, dh),
	}
}

// ConstrainWidth clamps w into [MinWidth, MaxWidth].
func (c Constraints) ConstrainWidth(w int) int {
	return min(max(w, c.MinWidth), c.MaxWidth)
}

// ConstrainHeight clamps h into [MinHeight, MaxHeight].
func (c Constraints) ConstrainHeight(h int) int {
	return min(max(h, c.MinHeight), c.MaxHeight)
}

// Constrain clamps both components of s.
func (c Constraints) Constrain(s Size) Size {
	return Size{Width: c.ConstrainWidth(s.Width), Height: c.ConstrainHeight(s.Height)}
}

// Satisfies reports whether s fits c.
func (c Constraints) Satisfies(s Size) bool {
	return s.Width >= c.MinWidth && s.Width <= c.MaxWidth &&
		s.Height >= c.MinHeight && s.Height <= c.MaxHeight
}

func (c Constraints) String() string {
	bound := func(v int) string {
		if v == Infinity {
			return "∞"
		}
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("w[%d,%s] h[%d,%s]", c.MinWidth, bound(c.MaxWidth), c.MinHeight, bound(c.MaxHeight))
}

// Padding is content padding around the list's items. Start and End are
// the left and right edges.
type Padding struct {
	Start  int `json:"start,omitempty"`
	End    int `json:"end,omitempty"`
	Top    int `json:"top,omitempty"`
	Bottom int `json:"bottom,omitempty"`
}

// Horizontal is the total left and right padding.
func (p Padding) Horizontal() int { return p.Start + p.End }

// Vertical is the total top and bottom padding.
func (p Padding) Vertical() int { return p.Top + p.Bottom }

// Resolve returns the main-axis padding before the first item and after
// the last one. Reverse layouts swap the two.
func (p Padding) Resolve(o Orientation, reverse bool) (before, after int) {
	if o == Horizontal {
		before, after = p.Start, p.End
	} else {
		before, after = p.Top, p.Bottom
	}
	if reverse {
		before, after = after, before
	}
	return before, after
}

// Alignment positions a child on the cross axis.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	AlignStretch
	// AlignNone leaves each child's own alignment in effect.
	AlignNone
)

var alignmentNames = map[Alignment]string{
	AlignStart:   "start",
	AlignCenter:  "center",
	AlignEnd:     "end",
	AlignStretch: "stretch",
	AlignNone:    "none",
}

func (a Alignment) String() string {
	if s, ok := alignmentNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment parses an alignment name. The empty string is start.
func ParseAlignment(s string) (Alignment, error) {
	if s == "" {
		return AlignStart, nil
	}
	for a, name := range alignmentNames {
		if name == s {
			return a, nil
		}
	}
	return AlignStart, fmt.Errorf("unknown alignment %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) {
	s, ok := alignmentNames[a]
	if !ok {
		return nil, fmt.Errorf("unknown alignment %d", int(a))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(text []byte) error {
	v, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Align returns the offset of a child of the given size inside space.
func (a Alignment) Align(size, space int) int {
	switch a {
	case AlignCenter:
		return (space - size) / 2
	case AlignEnd:
		return space - size
	default:
		return 0
	}
}
