package render

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/lazylist"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// PNGOptions controls the diagram drawn by [PNG].
type PNGOptions struct {
	// CellWidth and CellHeight are the pixels of one layout unit.
	CellWidth  float64
	CellHeight float64
	// Margin around the diagram, in pixels.
	Margin float64
	// FontSize of the labels in points.
	FontSize float64
	// Scale resizes the finished image. Zero or one keeps it as drawn.
	Scale float64
}

// DefaultPNGOptions returns the options used when a field is zero.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		CellWidth:  8,
		CellHeight: 16,
		Margin:     16,
		FontSize:   11,
		Scale:      1,
	}
}

func (o PNGOptions) withDefaults() PNGOptions {
	d := DefaultPNGOptions()
	o.CellWidth = cmp.Or(o.CellWidth, d.CellWidth)
	o.CellHeight = cmp.Or(o.CellHeight, d.CellHeight)
	o.Margin = cmp.Or(o.Margin, d.Margin)
	o.FontSize = cmp.Or(o.FontSize, d.FontSize)
	o.Scale = cmp.Or(o.Scale, d.Scale)
	return o
}

// Palette colors of the diagram.
var (
	paletteBackground = charmtone.Pepper
	paletteViewport   = charmtone.Squid
	paletteItem       = charmtone.Malibu
	paletteExtra      = charmtone.Oyster
	paletteSticky     = charmtone.Mustard
	palettePinned     = charmtone.Charple
	paletteDragged    = charmtone.Coral
	paletteLabel      = charmtone.Butter
)

// fill returns the color of a placement. Animating items fade from the
// extra color towards their own.
func fill(p lazylist.Placement) color.Color {
	var c color.Color
	switch {
	case p.Dragged:
		c = paletteDragged
	case p.Sticky:
		c = paletteSticky
	case p.Pinned:
		c = palettePinned
	case p.Extra:
		c = paletteExtra
	default:
		c = paletteItem
	}
	if !p.Animating {
		return c
	}
	from, _ := colorful.MakeColor(paletteExtra)
	to, _ := colorful.MakeColor(c)
	return from.BlendLab(to, p.Progress).Clamped()
}

// bounds returns the rectangle in layout units covering the viewport and
// every placement.
func bounds(res *lazylist.Result) image.Rectangle {
	r := image.Rect(0, 0, res.ViewportSize.Width, res.ViewportSize.Height)
	add := func(p lazylist.Placement) {
		r = r.Union(image.Rect(p.Offset.X, p.Offset.Y, p.Offset.X+p.Size.Width, p.Offset.Y+p.Size.Height))
	}
	for _, p := range res.Items {
		add(p)
	}
	for _, p := range res.Pinned {
		add(p)
	}
	return r
}

// Diagram draws res as an image: the viewport outline and every
// placement, extras included, labelled with index and key.
func Diagram(res *lazylist.Result, opts PNGOptions) (image.Image, error) {
	if res == nil {
		return nil, fmt.Errorf("draw diagram: no layout result")
	}
	opts = opts.withDefaults()
	face, err := labelFace(opts.FontSize)
	if err != nil {
		return nil, err
	}

	b := bounds(res)
	w := int(float64(b.Dx())*opts.CellWidth + 2*opts.Margin)
	h := int(float64(b.Dy())*opts.CellHeight + 2*opts.Margin)
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetFontFace(face)
	dc.SetColor(paletteBackground)
	dc.Clear()

	px := func(off geom.Offset) (float64, float64) {
		return float64(off.X-b.Min.X)*opts.CellWidth + opts.Margin,
			float64(off.Y-b.Min.Y)*opts.CellHeight + opts.Margin
	}

	for _, p := range order(res) {
		x, y := px(p.Offset)
		pw := float64(p.Size.Width) * opts.CellWidth
		ph := float64(p.Size.Height) * opts.CellHeight
		dc.DrawRectangle(x+1, y+1, pw-2, ph-2)
		dc.SetColor(fill(p))
		dc.FillPreserve()
		dc.SetColor(paletteBackground)
		dc.SetLineWidth(1)
		dc.Stroke()
		if p.Animating {
			// Dashed outline where the item will settle.
			tx, ty := px(p.Target)
			dc.SetDash(4, 3)
			dc.DrawRectangle(tx+1, ty+1, pw-2, ph-2)
			dc.SetColor(fill(p))
			dc.Stroke()
			dc.SetDash()
		}
		dc.SetColor(paletteBackground)
		dc.DrawStringAnchored(fmt.Sprintf("%d %s", p.Index, p.Key), x+4, y+ph/2, 0, 0.5)
	}

	vx, vy := px(geom.Offset{})
	dc.SetColor(paletteViewport)
	dc.SetLineWidth(2)
	dc.DrawRectangle(vx, vy,
		float64(res.ViewportSize.Width)*opts.CellWidth,
		float64(res.ViewportSize.Height)*opts.CellHeight)
	dc.Stroke()

	dc.SetColor(paletteLabel)
	dc.DrawStringAnchored(
		fmt.Sprintf("anchor %d+%d  extent %d", res.Anchor.Index, res.Anchor.Offset, res.TotalExtent),
		opts.Margin, opts.Margin/2, 0, 0.5)

	img := dc.Image()
	if opts.Scale != 1 && opts.Scale > 0 {
		sw := uint(float64(img.Bounds().Dx()) * opts.Scale)
		img = resize.Resize(max(sw, 1), 0, img, resize.Lanczos3)
	}
	return img, nil
}

// PNG writes the diagram of res to w.
func PNG(w io.Writer, res *lazylist.Result, opts PNGOptions) error {
	img, err := Diagram(res, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}
	return nil
}

func labelFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
