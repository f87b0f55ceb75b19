package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/lazylist"
	"github.com/charmbracelet/lazylist/internal/render"
	"github.com/charmbracelet/x/exp/ordered"
	"github.com/spf13/cobra"
)

func init() {
	planCmd.Flags().String("sizes", "10,10,10", "Comma separated main-axis sizes of the items")
	planCmd.Flags().String("viewport", "20x20", "Viewport as WIDTHxHEIGHT")
	planCmd.Flags().Int("spacing", 0, "Gap between items")
	planCmd.Flags().Int("padding", 0, "Content padding on every side")
	planCmd.Flags().Bool("reverse", false, "Reverse layout")
	planCmd.Flags().Bool("horizontal", false, "Lay out along the horizontal axis")
	planCmd.Flags().String("alignment", "start", "Cross-axis alignment: start, center, end, stretch or none")
	planCmd.Flags().Float64("scroll", 0, "Scroll delta applied by a second pass")
	planCmd.Flags().Int("beyond", 0, "Items laid out past each edge of the viewport")
	planCmd.Flags().Bool("draw", false, "Draw the viewport instead of listing placements")
	planCmd.Flags().String("png", "", "Also write a diagram of the layout to this PNG file")
	planCmd.Flags().Float64("scale", 1, "Scale of the PNG diagram")
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Lay out synthetic items once and print the placements",
	Long: heredoc.Doc(`
		Run layout passes over synthetic items without a terminal UI.

		Each item is one box of the given main-axis size filling the cross axis.
		With --scroll a second pass scrolls by the given delta. The placements
		are printed as a table on a terminal and as plain text otherwise.
	`),
	Example: heredoc.Doc(`
		# Three items of 10 rows in a 20x25 viewport with a gap of 2
		lazylist plan --sizes 10,10,10 --viewport 20x25 --spacing 2

		# Scroll a reversed list and draw the result
		lazylist plan --sizes 3,3,3,3,3 --viewport 12x6 --reverse --scroll 4 --draw

		# Write a diagram of a horizontal list
		lazylist plan --horizontal --sizes 4,8,4 --viewport 12x3 --png plan.png
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sizesFlag, _ := cmd.Flags().GetString("sizes")
		viewportFlag, _ := cmd.Flags().GetString("viewport")
		spacing, _ := cmd.Flags().GetInt("spacing")
		padding, _ := cmd.Flags().GetInt("padding")
		reverse, _ := cmd.Flags().GetBool("reverse")
		horizontal, _ := cmd.Flags().GetBool("horizontal")
		alignFlag, _ := cmd.Flags().GetString("alignment")
		scroll, _ := cmd.Flags().GetFloat64("scroll")
		beyond, _ := cmd.Flags().GetInt("beyond")
		draw, _ := cmd.Flags().GetBool("draw")
		pngFile, _ := cmd.Flags().GetString("png")
		scale, _ := cmd.Flags().GetFloat64("scale")

		sizes, err := parseSizes(sizesFlag)
		if err != nil {
			return err
		}
		w, h, err := parseViewport(viewportFlag)
		if err != nil {
			return err
		}
		align, err := geom.ParseAlignment(alignFlag)
		if err != nil {
			return err
		}
		orientation := geom.Vertical
		if horizontal {
			orientation = geom.Horizontal
		}

		content, err := syntheticItems(orientation, sizes)
		if err != nil {
			return err
		}
		state, err := lazylist.NewState(content,
			lazylist.WithOrientation(orientation),
			lazylist.WithReverseLayout(reverse),
			lazylist.WithSpacing(spacing),
			lazylist.WithPadding(geom.Padding{Top: padding, Bottom: padding, Start: padding, End: padding}),
			lazylist.WithAlignment(align),
			lazylist.WithBeyondBoundsItemCount(beyond),
		)
		if err != nil {
			return err
		}

		c := geom.Fixed(w, h)
		res, err := state.Layout(c)
		if err != nil {
			return err
		}
		if scroll != 0 {
			state.ScrollBy(scroll)
			if res, err = state.Layout(c); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		switch {
		case draw:
			fmt.Fprintln(out, render.Text(res, w, h))
		case isTerminal(out):
			lipgloss.Fprintln(out, placementTable(res))
		default:
			fmt.Fprint(out, res.Dump())
		}

		if pngFile != "" {
			f, err := os.Create(pngFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", pngFile, err)
			}
			defer f.Close()
			if err := render.PNG(f, res, render.PNGOptions{Scale: scale}); err != nil {
				return err
			}
		}
		return nil
	},
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid item size %q", field)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func parseViewport(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid viewport %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w < 0 {
		return 0, 0, fmt.Errorf("invalid viewport width %q", ws)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 {
		return 0, 0, fmt.Errorf("invalid viewport height %q", hs)
	}
	return w, h, nil
}

// syntheticItems returns one item per size: a box of that main size that
// fills the cross axis, labelled with its key.
func syntheticItems(o geom.Orientation, sizes []int) (*lazylist.Items, error) {
	items := make([]lazylist.Item, len(sizes))
	for i, size := range sizes {
		key := lazylist.Key(fmt.Sprintf("item-%d", i))
		items[i] = lazylist.Item{
			Key: key,
			Factory: lazylist.FactoryFunc(func(c geom.Constraints) ([]lazylist.Box, error) {
				lo, hi := o.Cross(geom.Size{Width: c.MinWidth, Height: c.MinHeight}), o.CrossMax(c)
				cross := hi
				if cross == geom.Infinity {
					cross = ordered.Clamp(len(key), lo, hi)
				}
				return []lazylist.Box{{Size: o.Size(size, cross), View: string(key)}}, nil
			}),
		}
	}
	return lazylist.NewItems(items...)
}

func placementTable(res *lazylist.Result) *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Index", "Key", "Offset", "Size", "Flags").
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	add := func(p lazylist.Placement) {
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
		t.Row(strconv.Itoa(p.Index), string(p.Key), p.Offset.String(), p.Size.String(), strings.Join(flags, ","))
	}
	for _, p := range res.Items {
		add(p)
	}
	for _, p := range res.Pinned {
		add(p)
	}
	return t
}
