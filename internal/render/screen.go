// Package render draws layout results: into terminal cell buffers and
// into PNG images.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lazylist/internal/lazylist"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

var blank = &uv.Cell{Content: " ", Width: 1}

// order returns the placements in paint order: regular items, then
// pinned items, the sticky header and the dragged item on top.
func order(res *lazylist.Result) []lazylist.Placement {
	var (
		out     []lazylist.Placement
		dragged []lazylist.Placement
	)
	for _, p := range res.Items {
		switch {
		case p.Dragged:
			dragged = append(dragged, p)
		case p.Sticky:
		default:
			out = append(out, p)
		}
	}
	for _, p := range res.Pinned {
		if p.Dragged {
			dragged = append(dragged, p)
			continue
		}
		out = append(out, p)
	}
	if res.Header != nil && !res.Header.Dragged {
		out = append(out, *res.Header)
	}
	return append(out, dragged...)
}

// Draw paints res into area of scr. Child views may be [uv.Drawable],
// strings with ANSI styles, or [fmt.Stringer]; other views are skipped.
// Children are clipped to area.
func Draw(scr uv.Screen, area uv.Rectangle, res *lazylist.Result) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			scr.SetCell(x, y, blank)
		}
	}
	if res == nil {
		return
	}
	for _, p := range order(res) {
		for _, c := range p.Children {
			drawChild(scr, area, c)
		}
	}
}

func drawChild(scr uv.Screen, area uv.Rectangle, c lazylist.PlacedChild) {
	w, h := c.Box.Size.Width, c.Box.Size.Height
	if w <= 0 || h <= 0 {
		return
	}
	rect := uv.Rect(area.Min.X+c.Offset.X, area.Min.Y+c.Offset.Y, w, h)
	vis := rect.Intersect(area)
	if vis.Empty() {
		return
	}

	var d uv.Drawable
	switch v := c.Box.View.(type) {
	case uv.Drawable:
		d = v
	case string:
		d = uv.NewStyledString(v)
	case fmt.Stringer:
		d = uv.NewStyledString(v.String())
	default:
		return
	}

	// Draw the whole child off screen so partially visible children keep
	// their layout, then copy the visible cells.
	buf := uv.NewScreenBuffer(w, h)
	d.Draw(buf, uv.Rect(0, 0, w, h))
	for y := vis.Min.Y; y < vis.Max.Y; y++ {
		for x := vis.Min.X; x < vis.Max.X; x++ {
			if cell := buf.CellAt(x-rect.Min.X, y-rect.Min.Y); cell != nil {
				scr.SetCell(x, y, cell)
			}
		}
	}
}

// Styled renders res into a width x height buffer and returns it with
// ANSI styles.
func Styled(res *lazylist.Result, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	scr := uv.NewScreenBuffer(width, height)
	Draw(scr, uv.Rect(0, 0, width, height), res)
	return scr.Render()
}

// Text renders res like [Styled] without styles or trailing spaces.
func Text(res *lazylist.Result, width, height int) string {
	out := strings.ReplaceAll(ansi.Strip(Styled(res, width, height)), "\r", "")
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
