package lazylist

import (
	"fmt"
	"math"
	"slices"

	"github.com/charmbracelet/lazylist/internal/anim"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/metrics"
	"github.com/charmbracelet/x/exp/ordered"
)

// Animator resolves where placed items are drawn. *anim.Animator[Key]
// implements it.
type Animator interface {
	BeginPass(shift geom.Offset)
	Resolve(key Key, target geom.Offset) geom.Offset
	Place(key Key, target geom.Offset)
	State(key Key) anim.State
	Progress(key Key) float64
	EndPass()
}

var _ Animator = (*anim.Animator[Key])(nil)

// Input is everything one pass reads.
type Input struct {
	Content     Content
	Pins        *Pins
	Constraints geom.Constraints
	Options     Options
	Anchor      Anchor
	// ScrollDelta is the pending scroll. Positive values scroll towards
	// the end of the content.
	ScrollDelta float64
	// BeyondBounds is the merged beyond-bounds interval, if any.
	BeyondBounds *Range
	// Drag, when set, draws the dragged key displaced from its slot.
	Drag    *DragState
	Metrics *metrics.Metrics
}

// DragState is the key being dragged and its displacement along the main
// axis, in screen direction.
type DragState struct {
	Key    Key
	Offset int
}

// Plan runs one layout pass. anim may be nil, in which case every item is
// drawn at its target.
func Plan(in Input, anim Animator) (*Result, error) {
	return plan(in, anim, &policyCache{})
}

type stage struct {
	name string
	run  func(*pass) error
	// always stages run even when an earlier stage finished the layout
	// early.
	always bool
}

var stages = []stage{
	{name: "snapshot", run: (*pass).snapshot},
	{name: "absorb", run: (*pass).absorb},
	{name: "walk", run: (*pass).walk},
	{name: "correct", run: (*pass).correct},
	{name: "extend", run: (*pass).extend},
	{name: "place", run: (*pass).place},
	{name: "stick", run: (*pass).stick},
	{name: "verify", run: (*pass).verify, always: true},
	{name: "animate", run: (*pass).animate, always: true},
	{name: "emit", run: (*pass).emit, always: true},
}

type laid struct {
	item MeasuredItem
	// main is the offset from the start of the content area before the
	// reverse flip.
	main   int
	extra  bool
	sticky bool
	pinned bool
}

// pass is the context shared by the stages of one layout pass.
type pass struct {
	in    Input
	anim  Animator
	cache *policyCache

	p     policy
	snap  *Snapshot
	m     *Measurer
	count int
	done  bool

	idx, off    int
	scrollDelta int
	// itemsOffset is where the first walked item starts.
	itemsOffset int
	consumed    float64

	visible   []MeasuredItem
	current   int
	nextIndex int

	extrasBefore []MeasuredItem
	extrasAfter  []MeasuredItem
	pinnedBefore []MeasuredItem
	pinnedAfter  []MeasuredItem

	mainLayout  int
	crossLayout int

	items  []laid
	pinned []laid
	header int
	// detached is set when the sticky header was prepended to the window
	// instead of taking its own slot.
	detached bool

	placements []Placement
	pins       []Placement
	res        *Result
}

func plan(in Input, a Animator, cache *policyCache) (*Result, error) {
	ps := &pass{in: in, anim: a, cache: cache, header: -1}
	for _, st := range stages {
		if ps.done && !st.always {
			continue
		}
		if err := st.run(ps); err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
	}
	return ps.res, nil
}

func (ps *pass) measure(index int) (MeasuredItem, error) {
	return ps.m.Measure(index)
}

func (ps *pass) snapshot() error {
	p, hit, err := ps.cache.get(ps.in.Options, ps.in.Constraints)
	if err != nil {
		return err
	}
	ps.in.Metrics.RecordPolicy(hit)
	ps.p = p
	ps.snap = NewSnapshot(ps.in.Content, ps.in.Pins)
	ps.count = ps.snap.Count()
	ps.m = newMeasurer(ps.snap, p)
	return nil
}

func (ps *pass) absorb() error {
	if ps.count == 0 {
		ps.idx, ps.off = 0, 0
		ps.done = true
		return nil
	}
	idx, off := ps.in.Anchor.Index, max(ps.in.Anchor.Offset, 0)
	if idx >= ps.count {
		idx, off = ps.count-1, 0
	}
	if idx < 0 {
		idx, off = 0, 0
	}
	if ps.p.mainAvailable <= 0 {
		// Nothing fits; keep the position and scroll nothing.
		ps.idx, ps.off = idx, off
		ps.done = true
		return nil
	}
	delta := int(math.Round(ps.in.ScrollDelta))
	off += delta
	if idx == 0 && off < 0 {
		delta -= off
		off = 0
	}
	ps.idx, ps.off, ps.scrollDelta = idx, off, delta
	return nil
}

func (ps *pass) walk() error {
	minOffset := -ps.p.before
	maxOffset := ps.p.mainAvailable

	// Shift into the before-padding area so items visible through it get
	// laid out too.
	ps.off += minOffset
	for ps.off < 0 && ps.idx > 0 {
		item, err := ps.measure(ps.idx - 1)
		if err != nil {
			return err
		}
		ps.visible = slices.Insert(ps.visible, 0, item)
		ps.off += item.SizeWithSpacing()
		ps.idx--
	}
	if ps.off < minOffset {
		// Scrolled back past the first item.
		ps.scrollDelta += minOffset - ps.off
		ps.off = minOffset
	}
	ps.off -= minOffset

	index := ps.idx
	maxMain := max(maxOffset+ps.p.after, 0)
	current := -ps.off

	for i := 0; i < len(ps.visible); {
		if current >= maxMain {
			ps.visible = slices.Delete(ps.visible, i, i+1)
			continue
		}
		index++
		current += ps.visible[i].SizeWithSpacing()
		i++
	}

	for index < ps.count && (current < maxMain || current <= 0 || len(ps.visible) == 0) {
		item, err := ps.measure(index)
		if err != nil {
			return err
		}
		current += item.SizeWithSpacing()
		if current <= minOffset && index != ps.count-1 {
			// Entirely in the before padding: it only moves the anchor.
			ps.idx = index + 1
			ps.off -= item.SizeWithSpacing()
		} else {
			ps.visible = append(ps.visible, item)
		}
		index++
	}
	ps.current = current
	ps.nextIndex = index
	return nil
}

func (ps *pass) correct() error {
	maxOffset := ps.p.mainAvailable
	for attempt := 0; attempt < ps.p.retries && ps.current < maxOffset; attempt++ {
		toBack := maxOffset - ps.current
		ps.off -= toBack
		ps.current += toBack
		for ps.off < ps.p.before && ps.idx > 0 {
			item, err := ps.measure(ps.idx - 1)
			if err != nil {
				return err
			}
			ps.visible = slices.Insert(ps.visible, 0, item)
			ps.off += item.SizeWithSpacing()
			ps.idx--
		}
		ps.scrollDelta -= toBack
		if ps.off < 0 {
			ps.scrollDelta -= ps.off
			ps.current += ps.off
			ps.off = 0
		}
	}

	requested := int(math.Round(ps.in.ScrollDelta))
	ps.consumed = ps.in.ScrollDelta
	same := ps.scrollDelta == 0 || sign(requested) == sign(ps.scrollDelta)
	if same && abs(requested) >= abs(ps.scrollDelta) {
		ps.consumed = float64(ps.scrollDelta)
	}

	ps.itemsOffset = -ps.off

	// Items that sit entirely in the before padding don't count for the
	// anchor.
	if ps.p.before > 0 {
		for i := 0; i < len(ps.visible)-1; i++ {
			size := ps.visible[i].SizeWithSpacing()
			if ps.off == 0 || size > ps.off {
				break
			}
			ps.off -= size
			ps.idx = ps.visible[i+1].Index
		}
	}
	return nil
}

func (ps *pass) extend() error {
	first := ps.visible[0].Index
	last := ps.visible[len(ps.visible)-1].Index

	start := first
	end := last
	if bb := ps.in.BeyondBounds; bb != nil && !bb.Empty() {
		start = min(start, ordered.Clamp(bb.First, 0, ps.count-1))
		end = max(end, ordered.Clamp(bb.Last, 0, ps.count-1))
	}
	start = max(0, start-ps.p.beyond)
	end = min(ps.count-1, end+ps.p.beyond)

	for i := first - 1; i >= start; i-- {
		item, err := ps.measure(i)
		if err != nil {
			return err
		}
		ps.extrasBefore = append(ps.extrasBefore, item)
	}
	for i := last + 1; i <= end; i++ {
		item, err := ps.measure(i)
		if err != nil {
			return err
		}
		ps.extrasAfter = append(ps.extrasAfter, item)
	}

	pinned := ps.snap.Pinned()
	for j := len(pinned) - 1; j >= 0; j-- {
		if i := pinned[j]; i < start {
			item, err := ps.measure(i)
			if err != nil {
				return err
			}
			ps.pinnedBefore = append(ps.pinnedBefore, item)
		}
	}
	for _, i := range pinned {
		if i > end {
			item, err := ps.measure(i)
			if err != nil {
				return err
			}
			ps.pinnedAfter = append(ps.pinnedAfter, item)
		}
	}
	return nil
}

func (ps *pass) place() error {
	o := ps.p.orientation
	crossMax := 0
	for _, it := range ps.visible {
		crossMax = max(crossMax, it.CrossSize)
	}
	ps.mainLayout = o.ConstrainMain(ps.p.content, ps.current)
	ps.crossLayout = o.ConstrainCross(ps.p.content, crossMax)

	start := ps.itemsOffset
	cur := start
	var before []laid
	for _, it := range ps.extrasBefore {
		cur -= it.SizeWithSpacing()
		before = append(before, laid{item: it, main: cur, extra: true})
	}
	slices.Reverse(before)
	ps.items = append(ps.items, before...)

	cur = start
	for _, it := range ps.visible {
		ps.items = append(ps.items, laid{item: it, main: cur})
		cur += it.SizeWithSpacing()
	}
	for _, it := range ps.extrasAfter {
		ps.items = append(ps.items, laid{item: it, main: cur, extra: true})
		cur += it.SizeWithSpacing()
	}
	for _, it := range ps.pinnedAfter {
		ps.pinned = append(ps.pinned, laid{item: it, main: cur, pinned: true})
		cur += it.SizeWithSpacing()
	}

	cur = ps.items[0].main
	var pinnedBefore []laid
	for _, it := range ps.pinnedBefore {
		cur -= it.SizeWithSpacing()
		pinnedBefore = append(pinnedBefore, laid{item: it, main: cur, pinned: true})
	}
	slices.Reverse(pinnedBefore)
	ps.pinned = append(pinnedBefore, ps.pinned...)
	return nil
}

func (ps *pass) stick() error {
	headers := ps.snap.Sticky()
	if len(headers) == 0 {
		return nil
	}
	first := ps.visible[0].Index
	current, next := -1, -1
	for i, h := range headers {
		if h > first {
			break
		}
		current, next = h, -1
		if i+1 < len(headers) {
			next = headers[i+1]
		}
	}
	if current < 0 {
		return nil
	}

	item, err := ps.measure(current)
	if err != nil {
		return err
	}
	offset := -ps.p.before
	at := -1
	for i, l := range ps.items {
		switch l.item.Index {
		case current:
			at = i
			offset = max(offset, l.main)
		case next:
			offset = min(offset, l.main-item.Size)
		}
	}
	header := laid{item: item, main: offset, sticky: true}
	if at >= 0 {
		header.extra = ps.items[at].extra
		ps.items[at] = header
		ps.header = at
	} else {
		ps.items = slices.Insert(ps.items, 0, header)
		ps.header = 0
		ps.detached = true
	}
	return nil
}

func (ps *pass) verify() error {
	if err := ps.snap.Verify(); err != nil {
		return err
	}
	return checkSequence(ps.items, ps.detached)
}

// checkSequence reports a window whose indices are not consecutive or
// whose target offsets don't follow from the sizes and spacing before
// them. A sticky header keeps the slot of its index but is drawn
// elsewhere; a detached one is not part of the window at all.
func checkSequence(items []laid, detached bool) error {
	var (
		prev     = -1
		expected int
		known    bool
	)
	for _, l := range items {
		if l.sticky && detached {
			continue
		}
		if prev >= 0 && l.item.Index != prev+1 {
			return fmt.Errorf("%w: item %d follows item %d", ErrInvalidLayout, l.item.Index, prev)
		}
		if !l.sticky && known && l.main != expected {
			return fmt.Errorf("%w: item %d at %d, want %d", ErrInvalidLayout, l.item.Index, l.main, expected)
		}
		switch {
		case !l.sticky:
			expected, known = l.main+l.item.SizeWithSpacing(), true
		case known:
			expected += l.item.SizeWithSpacing()
		}
		prev = l.item.Index
	}
	return nil
}

// position converts a laid out item into absolute coordinates.
func (ps *pass) position(l laid) Placement {
	p := ps.p
	o := p.orientation
	item := l.item
	main := l.main
	if p.reverse {
		main = ps.mainLayout - l.main - item.Size
	}
	line := p.lineCross
	if line < 0 {
		line = item.CrossSize
	}
	target := p.origin.Add(o.Offset(main, 0))
	children := make([]PlacedChild, len(item.Children))
	for i, c := range item.Children {
		cm := c.MainOffset
		if p.reverse {
			cm = item.Size - c.MainOffset - o.Main(c.Box.Size)
		}
		children[i] = PlacedChild{Box: c.Box, Offset: target.Add(o.Offset(cm, c.CrossOffset))}
	}
	return Placement{
		Index:    item.Index,
		Key:      item.Key,
		Offset:   target,
		Target:   target,
		Size:     o.Size(item.Size, line),
		Spacing:  item.Spacing,
		Children: children,
		Extra:    l.extra,
		Sticky:   l.sticky,
		Pinned:   l.pinned,
		Progress: 1,
	}
}

func (ps *pass) animate() error {
	for _, l := range ps.items {
		ps.placements = append(ps.placements, ps.position(l))
	}
	for _, l := range ps.pinned {
		ps.pins = append(ps.pins, ps.position(l))
	}

	o := ps.p.orientation
	var drag geom.Offset
	if d := ps.in.Drag; d != nil {
		drag = o.Offset(d.Offset, 0)
	}
	draw := func(pl *Placement) {
		if d := ps.in.Drag; d != nil && d.Key == pl.Key {
			pl.Dragged = true
			pl.Offset = pl.Target.Add(drag)
		}
		if ps.anim != nil {
			switch {
			case pl.Dragged, pl.Sticky:
				ps.anim.Place(pl.Key, pl.Offset)
			default:
				pl.Offset = ps.anim.Resolve(pl.Key, pl.Target)
				pl.Animating = ps.anim.State(pl.Key) == anim.Settling
				pl.Progress = ps.anim.Progress(pl.Key)
			}
		}
		if shift := pl.Offset.Sub(pl.Target); shift != (geom.Offset{}) {
			for i := range pl.Children {
				pl.Children[i].Offset = pl.Children[i].Offset.Add(shift)
			}
		}
	}

	if ps.anim != nil {
		shift := -ps.scrollDelta
		if ps.p.reverse {
			shift = ps.scrollDelta
		}
		ps.anim.BeginPass(o.Offset(shift, 0))
	}
	for i := range ps.placements {
		draw(&ps.placements[i])
	}
	for i := range ps.pins {
		draw(&ps.pins[i])
	}
	if ps.anim != nil {
		ps.anim.EndPass()
	}
	return nil
}

func (ps *pass) emit() error {
	p := ps.p
	o := p.orientation
	res := &Result{
		Anchor:            Anchor{Index: ps.idx, Offset: ps.off},
		ConsumedScroll:    ps.consumed,
		Items:             ps.placements,
		Pinned:            ps.pins,
		Count:             ps.count,
		Window:            emptyRange,
		Visible:           emptyRange,
		Origin:            p.origin,
		MainAxisAvailable: p.mainAvailable,
		Orientation:       o,
		Reverse:           p.reverse,
		Measured:          ps.m.Measured(),
	}
	ps.res = res

	content := o.Size(ps.mainLayout, ps.crossLayout)
	if ps.done {
		content = o.Size(o.ConstrainMain(p.content, 0), o.ConstrainCross(p.content, 0))
	}
	res.ViewportSize = p.container.Constrain(geom.Size{
		Width:  content.Width + p.padding.Horizontal(),
		Height: content.Height + p.padding.Vertical(),
	})

	if !ps.done {
		res.Visible = Range{First: ps.visible[0].Index, Last: ps.visible[len(ps.visible)-1].Index}
		res.Window = Range{
			First: res.Visible.First - len(ps.extrasBefore),
			Last:  res.Visible.Last + len(ps.extrasAfter),
		}
		res.CanScrollForward = ps.nextIndex < ps.count || ps.current > p.mainAvailable
	}

	extent, window := 0, 0
	var last MeasuredItem
	for _, l := range ps.items {
		if !res.Window.Contains(l.item.Index) {
			continue
		}
		extent += l.item.SizeWithSpacing()
		window++
		last = l.item
	}
	if window > 0 {
		extent -= last.Spacing
	}
	res.TotalExtent = extent + p.before + p.after
	res.EstimatedExtent = res.TotalExtent
	if window > 0 && window < ps.count {
		avg := float64(extent) / float64(window)
		res.EstimatedExtent += int(math.Round(avg * float64(ps.count-window)))
	}
	res.CanScrollBackward = res.Anchor.Index > 0 || res.Anchor.Offset > 0
	if ps.header >= 0 {
		h := res.Items[ps.header]
		res.Header = &h
	}
	return nil
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
