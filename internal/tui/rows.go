package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/lazylist/internal/db"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/lazylist"
	"github.com/charmbracelet/lazylist/internal/tui/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// maxColumnWidth caps rows of horizontal lists.
const maxColumnWidth = 28

// selection is the browser state rows render from.
type selection struct {
	key     lazylist.Key
	grabbed bool
	pinned  map[lazylist.Key]*lazylist.PinHandle
}

// row measures and renders one stored item.
type row struct {
	item  db.Item
	sel   *selection
	theme *styles.Theme
}

func rowItem(it db.Item, sel *selection, t *styles.Theme) lazylist.Item {
	return lazylist.Item{
		Key:     lazylist.Key(it.ID),
		Factory: row{item: it, sel: sel, theme: t},
		Sticky:  it.Sticky,
	}
}

func (r row) key() lazylist.Key { return lazylist.Key(r.item.ID) }

func (r row) label() string {
	var icon string
	switch {
	case r.sel.grabbed && r.sel.key == r.key():
		icon = styles.GrabIcon
	case r.sel.pinned[r.key()] != nil:
		icon = styles.PinIcon
	case r.item.Sticky:
		icon = styles.StickyIcon
	}
	if icon == "" {
		return r.item.Title
	}
	return icon + " " + r.item.Title
}

func (r row) Measure(c geom.Constraints) ([]lazylist.Box, error) {
	label := r.label()
	natural := geom.Size{Width: uniseg.StringWidth(label) + 2, Height: r.item.Size}

	size := natural
	switch {
	case c.MaxHeight == geom.Infinity:
		// Vertical: rows span the cross axis.
		if c.MaxWidth != geom.Infinity {
			size.Width = c.MaxWidth
		}
	default:
		size.Width = min(natural.Width, maxColumnWidth)
		size.Height = c.MaxHeight
	}
	size = c.Constrain(size)
	if size.Width <= 0 || size.Height <= 0 {
		return []lazylist.Box{{Size: size}}, nil
	}

	style := r.theme.Row
	switch {
	case r.sel.key == r.key():
		style = r.theme.Selected
	case r.item.Sticky:
		style = r.theme.Header
	}

	lines := make([]string, size.Height)
	lines[0] = ansi.Truncate(label, size.Width-1, "…")
	if size.Height > 1 {
		detail := fmt.Sprintf("%s · #%d", shortID(r.item.ID), r.item.Position)
		lines[1] = ansi.Truncate(detail, size.Width-1, "…")
	}
	return []lazylist.Box{{
		Size: size,
		View: rowView{lines: lines, width: size.Width, style: style},
	}}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// rowView is the text of a row. Its foreground is replaced while the row
// animates.
type rowView struct {
	lines []string
	width int
	style lipgloss.Style
}

func (v rowView) tint(c color.Color) rowView {
	v.style = v.style.Foreground(c)
	return v
}

func (v rowView) String() string {
	return v.style.Width(v.width).Render(strings.Join(v.lines, "\n"))
}
