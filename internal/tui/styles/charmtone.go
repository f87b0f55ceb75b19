package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the colors and styles of the list browser.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase     color.Color
	FgMuted    color.Color
	FgSubtle   color.Color
	FgSelected color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	// Placement colors.
	Sticky  color.Color
	Pinned  color.Color
	Dragged color.Color
	Extra   color.Color

	Base      lipgloss.Style
	Row       lipgloss.Style
	Selected  lipgloss.Style
	Header    lipgloss.Style
	Status    lipgloss.Style
	StatusKey lipgloss.Style
	Filter    lipgloss.Style
}

func NewCharmtoneTheme() *Theme {
	t := &Theme{
		Name:   "charmtone",
		IsDark: true,

		Primary:   charmtone.Charple,
		Secondary: charmtone.Dolly,
		Accent:    charmtone.Zest,

		// Backgrounds
		BgBase:    charmtone.Pepper,
		BgSubtle:  charmtone.Charcoal,
		BgOverlay: charmtone.Iron,

		// Foregrounds
		FgBase:     charmtone.Ash,
		FgMuted:    charmtone.Squid,
		FgSubtle:   charmtone.Oyster,
		FgSelected: charmtone.Salt,

		// Borders
		Border:      charmtone.Charcoal,
		BorderFocus: charmtone.Charple,

		// Status
		Success: charmtone.Guac,
		Error:   charmtone.Sriracha,
		Warning: charmtone.Zest,
		Info:    charmtone.Malibu,

		// Placements
		Sticky:  charmtone.Mustard,
		Pinned:  charmtone.Bok,
		Dragged: charmtone.Coral,
		Extra:   charmtone.Oyster,
	}

	t.Base = lipgloss.NewStyle().Foreground(t.FgBase)
	t.Row = t.Base.PaddingLeft(1)
	t.Selected = t.Row.Foreground(t.FgSelected).Background(t.Primary)
	t.Header = t.Row.Foreground(t.Sticky).Bold(true)
	t.Status = t.Base.Foreground(t.FgMuted).Background(t.BgSubtle).Padding(0, 1)
	t.StatusKey = t.Status.Foreground(t.FgSelected).Background(t.Secondary)
	t.Filter = t.Base.Foreground(t.Accent).PaddingLeft(1)
	return t
}

// Fade blends from into to by progress in [0, 1].
func Fade(from, to color.Color, progress float64) color.Color {
	a, ok := colorful.MakeColor(from)
	if !ok {
		return to
	}
	b, ok := colorful.MakeColor(to)
	if !ok {
		return to
	}
	progress = min(max(progress, 0), 1)
	return a.BlendLab(b, progress).Clamped()
}

var current = NewCharmtoneTheme()

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme { return current }
