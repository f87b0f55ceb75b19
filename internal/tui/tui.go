// Package tui is an interactive browser for a stored list: it scrolls,
// filters and reorders items laid out by the lazylist engine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lazylist/internal/db"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/lazylist"
	"github.com/charmbracelet/lazylist/internal/metrics"
	"github.com/charmbracelet/lazylist/internal/render"
	"github.com/charmbracelet/lazylist/internal/tui/styles"
	"github.com/charmbracelet/lazylist/internal/tui/util"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	wheelStep  = 3
	statusTTL  = 3 * time.Second
	minWidth   = 20
	minHeight  = 6
	defaultFPS = 60
)

type (
	// loadedMsg carries the rows read from the store.
	loadedMsg struct {
		rows      []db.Item
		err       error
		selectKey lazylist.Key
	}
	frameMsg struct{ at time.Time }

	// ConfigReloadedMsg applies new layout options.
	ConfigReloadedMsg struct {
		Options lazylist.Options
	}
)

var lastMouseEvent time.Time

// MouseEventFilter drops wheel and motion events arriving faster than a
// terminal can redraw.
func MouseEventFilter(m tea.Model, msg tea.Msg) tea.Msg {
	switch msg.(type) {
	case tea.MouseWheelMsg, tea.MouseMotionMsg:
		now := time.Now()
		// trackpad is sending too many requests
		if now.Sub(lastMouseEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseEvent = now
	}
	return msg
}

// Model is the list browser.
type Model struct {
	ctx     context.Context
	store   *db.Store
	state   *lazylist.State
	items   *lazylist.Items
	reorder *lazylist.Reorder
	theme   *styles.Theme
	keyMap  KeyMap
	help    help.Model
	filter  textinput.Model

	rows      []db.Item
	sel       *selection
	filtering bool

	width, height int
	frame         time.Duration
	lastFrame     time.Time
	ticking       bool

	dragFrom  int
	mouseDrag bool
	mouseAt   geom.Offset

	status util.InfoMsg
}

// New returns a browser over the items of store.
func New(ctx context.Context, store *db.Store, opts lazylist.Options, frame time.Duration, m *metrics.Metrics) (*Model, error) {
	items, err := lazylist.NewItems()
	if err != nil {
		return nil, err
	}
	state, err := lazylist.NewState(items, lazylist.WithOptions(opts), lazylist.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	if frame <= 0 {
		frame = time.Second / defaultFPS
	}
	t := styles.CurrentTheme()

	h := help.New()
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "

	return &Model{
		ctx:     ctx,
		store:   store,
		state:   state,
		items:   items,
		reorder: lazylist.NewReorder(state, items),
		theme:   t,
		keyMap:  DefaultKeyMap(),
		help:    h,
		filter:  ti,
		sel:     &selection{pinned: make(map[lazylist.Key]*lazylist.PinHandle)},
		frame:   frame,
	}, nil
}

// State returns the layout state of the list.
func (m *Model) State() *lazylist.State { return m.state }

// Selected returns the key of the selected item.
func (m *Model) Selected() lazylist.Key { return m.sel.key }

func (m *Model) Init() tea.Cmd {
	return m.load("")
}

func (m *Model) load(selectKey lazylist.Key) tea.Cmd {
	return func() tea.Msg {
		rows, err := m.store.List(m.ctx)
		return loadedMsg{rows: rows, err: err, selectKey: selectKey}
	}
}

// persist runs op against the store and reloads it. The rows are reloaded
// even when op fails, undoing local edits the store rejected.
func (m *Model) persist(op func(context.Context) error, selectKey lazylist.Key) tea.Cmd {
	return func() tea.Msg {
		opErr := op(m.ctx)
		rows, err := m.store.List(m.ctx)
		if err != nil {
			rows = nil
		}
		return loadedMsg{rows: rows, err: errors.Join(opErr, err), selectKey: selectKey}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		var cmd tea.Cmd
		if msg.err != nil {
			cmd = util.ReportError(msg.err)
			if msg.rows == nil {
				return m, cmd
			}
		}
		m.rows = msg.rows
		if msg.selectKey != "" {
			m.sel.key = msg.selectKey
		}
		if err := m.rebuild(); err != nil {
			return m, util.ReportError(err)
		}
		return m, tea.Batch(cmd, m.layout())
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetWidth(msg.Width)
		return m, m.layout()
	case frameMsg:
		elapsed := msg.at.Sub(m.lastFrame)
		m.lastFrame = msg.at
		if _, err := m.state.Frame(elapsed, m.constraints()); err != nil {
			m.ticking = false
			return m, util.ReportError(err)
		}
		if !m.state.Animating() {
			m.ticking = false
			return m, nil
		}
		return m, m.tick()
	case ConfigReloadedMsg:
		if err := m.state.SetOptions(msg.Options); err != nil {
			return m, util.ReportError(err)
		}
		return m, tea.Batch(m.layout(), util.ReportInfo("Configuration reloaded"))
	case util.InfoMsg:
		m.status = msg
		ttl := msg.TTL
		if ttl == 0 {
			ttl = statusTTL
		}
		return m, tea.Tick(ttl, func(time.Time) tea.Msg { return util.ClearStatusMsg{} })
	case util.ClearStatusMsg:
		m.status = util.InfoMsg{}
		return m, nil
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelDown:
			m.state.ScrollBy(m.screenToScroll(wheelStep))
		case tea.MouseWheelUp:
			m.state.ScrollBy(m.screenToScroll(-wheelStep))
		}
		return m, m.layout()
	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return m, nil
		}
		p, ok := m.state.Last().At(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.sel.key = p.Key
		cmd := m.grab()
		m.mouseDrag = m.sel.grabbed
		m.mouseAt = geom.Offset{X: msg.X, Y: msg.Y}
		return m, tea.Batch(cmd, m.layout())
	case tea.MouseMotionMsg:
		if !m.mouseDrag {
			return m, nil
		}
		at := geom.Offset{X: msg.X, Y: msg.Y}
		delta := m.state.Options().Orientation.MainOf(at.Sub(m.mouseAt))
		m.mouseAt = at
		return m, tea.Batch(m.drag(delta), m.layout())
	case tea.MouseReleaseMsg:
		if !m.mouseDrag {
			return m, nil
		}
		m.mouseDrag = false
		return m, tea.Batch(m.drop(), m.layout())
	case tea.KeyPressMsg:
		return m, m.handleKeyPressMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyPressMsg(msg tea.KeyPressMsg) tea.Cmd {
	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.Reset()
			return tea.Batch(m.refilter(), m.layout())
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return tea.Batch(cmd, m.refilter(), m.layout())
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.layout()
	case key.Matches(msg, m.keyMap.Up):
		if m.sel.grabbed {
			return tea.Batch(m.step(-1), m.layout())
		}
		return m.moveSelection(-1)
	case key.Matches(msg, m.keyMap.Down):
		if m.sel.grabbed {
			return tea.Batch(m.step(1), m.layout())
		}
		return m.moveSelection(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.state.ScrollBy(m.screenToScroll(-m.page()))
		return m.layout()
	case key.Matches(msg, m.keyMap.PageDown):
		m.state.ScrollBy(m.screenToScroll(m.page()))
		return m.layout()
	case key.Matches(msg, m.keyMap.Top):
		return m.jump(0)
	case key.Matches(msg, m.keyMap.Bottom):
		return m.jump(m.items.Len() - 1)
	case key.Matches(msg, m.keyMap.Grab):
		if m.sel.grabbed {
			return tea.Batch(m.drop(), m.layout())
		}
		return tea.Batch(m.grab(), m.layout())
	case key.Matches(msg, m.keyMap.Cancel):
		if m.sel.grabbed {
			return tea.Batch(m.drop(), m.layout())
		}
		if m.filter.Value() != "" {
			m.filter.Reset()
			return tea.Batch(m.refilter(), m.layout())
		}
	case key.Matches(msg, m.keyMap.Pin):
		return tea.Batch(m.togglePin(), m.layout())
	case key.Matches(msg, m.keyMap.Add):
		return m.add()
	case key.Matches(msg, m.keyMap.Delete):
		return m.remove()
	case key.Matches(msg, m.keyMap.Filter):
		if m.sel.grabbed {
			return nil
		}
		m.filtering = true
		return m.filter.Focus()
	case key.Matches(msg, m.keyMap.Copy):
		return m.copyLayout()
	case key.Matches(msg, m.keyMap.Reverse):
		opts := m.state.Options()
		opts.ReverseLayout = !opts.ReverseLayout
		if err := m.state.SetOptions(opts); err != nil {
			return util.ReportError(err)
		}
		return m.layout()
	}
	return nil
}

// rebuild replaces the content with the rows passing the filter. Pins
// follow their items to their new indices.
func (m *Model) rebuild() error {
	pinned := make([]lazylist.Key, 0, len(m.sel.pinned))
	for k, h := range m.sel.pinned {
		h.Release()
		delete(m.sel.pinned, k)
		pinned = append(pinned, k)
	}
	rows := m.visibleRows()
	items := make([]lazylist.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem(r, m.sel, m.theme)
	}
	if err := m.items.SetItems(items); err != nil {
		return err
	}
	for _, k := range pinned {
		if i, ok := m.items.Index(k); ok {
			m.sel.pinned[k] = m.state.Pins().Pin(i)
		}
	}
	if _, ok := m.items.Index(m.sel.key); !ok {
		m.sel.key = ""
		if m.items.Len() > 0 {
			m.sel.key = m.items.KeyAt(0)
		}
	}
	return nil
}

func (m *Model) visibleRows() []db.Item {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		return m.rows
	}
	names := make([]string, len(m.rows))
	for i, r := range m.rows {
		names[i] = strings.ToLower(r.Title)
	}
	matches := fuzzy.Find(query, names)
	idx := make([]int, 0, len(matches))
	for _, match := range matches {
		idx = append(idx, match.Index)
	}
	slices.Sort(idx)
	out := make([]db.Item, len(idx))
	for i, j := range idx {
		out[i] = m.rows[j]
	}
	return out
}

func (m *Model) refilter() tea.Cmd {
	if err := m.rebuild(); err != nil {
		return util.ReportError(err)
	}
	return nil
}

func (m *Model) listHeight() int {
	h := m.height - 1 - lipgloss.Height(m.help.View(m.keyMap))
	if m.filtering || m.filter.Value() != "" {
		h--
	}
	return max(h, 0)
}

func (m *Model) constraints() geom.Constraints {
	return geom.Fixed(m.width, m.listHeight())
}

// layout runs a pass and starts the frame ticker when items animate.
func (m *Model) layout() tea.Cmd {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	if _, err := m.state.Layout(m.constraints()); err != nil {
		return util.ReportError(err)
	}
	if m.ticking || !m.state.Animating() {
		return nil
	}
	m.ticking = true
	m.lastFrame = time.Now()
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg{at: t} })
}

// screenToScroll converts a distance in screen direction into a scroll
// delta.
func (m *Model) screenToScroll(d int) float64 {
	if m.state.Options().ReverseLayout {
		return float64(-d)
	}
	return float64(d)
}

func (m *Model) page() int {
	o := m.state.Options()
	return max(o.Orientation.MainMax(m.constraints())-1, 1)
}

func (m *Model) selectedIndex() (int, bool) {
	return m.items.Index(m.sel.key)
}

// moveSelection selects the neighbour in screen direction dir and scrolls
// it into view.
func (m *Model) moveSelection(dir int) tea.Cmd {
	i, ok := m.selectedIndex()
	if !ok {
		return nil
	}
	if m.state.Options().ReverseLayout {
		dir = -dir
	}
	next := i + dir
	if next < 0 || next >= m.items.Len() {
		return nil
	}
	m.sel.key = m.items.KeyAt(next)
	m.reveal(next)
	return m.layout()
}

func (m *Model) jump(index int) tea.Cmd {
	if index < 0 {
		return nil
	}
	m.sel.key = m.items.KeyAt(index)
	m.state.ScrollToItem(index, 0)
	return m.layout()
}

// reveal scrolls just enough for index to be fully visible.
func (m *Model) reveal(index int) {
	res := m.state.Last()
	p, ok := res.Find(m.items.KeyAt(index))
	if !ok || p.Pinned || p.Sticky {
		if !ok {
			m.state.ScrollToItem(index, 0)
		}
		return
	}
	o := res.Orientation
	start := o.MainOf(p.Target)
	end := start + o.Main(p.Size)
	viewport := o.Main(res.ViewportSize)
	switch {
	case start < 0:
		m.state.ScrollBy(m.screenToScroll(start))
	case end > viewport:
		m.state.ScrollBy(m.screenToScroll(min(end-viewport, start)))
	}
}

func (m *Model) grab() tea.Cmd {
	if m.filter.Value() != "" {
		return util.ReportWarn("Clear the filter to reorder items")
	}
	i, ok := m.selectedIndex()
	if !ok {
		return nil
	}
	if err := m.reorder.Start(m.sel.key); err != nil {
		return util.ReportError(err)
	}
	m.sel.grabbed = true
	m.dragFrom = i
	return nil
}

// step drags the grabbed item one neighbour in screen direction dir.
func (m *Model) step(dir int) tea.Cmd {
	res := m.state.Last()
	i := m.reorder.Index()
	next := i + dir
	if res.Reverse {
		next = i - dir
	}
	if next < 0 || next >= m.items.Len() {
		return nil
	}
	p, ok := res.Find(m.items.KeyAt(next))
	if !ok {
		return nil
	}
	size := res.Orientation.Main(p.Size) + m.state.Options().Spacing
	cmd := m.drag(dir * size)
	// Leftover displacement snaps back into the new slot.
	if off := m.reorder.Offset(); off != 0 {
		if c := m.drag(-off); c != nil {
			cmd = tea.Batch(cmd, c)
		}
	}
	m.reveal(m.reorder.Index())
	return cmd
}

func (m *Model) drag(delta int) tea.Cmd {
	if !m.sel.grabbed || delta == 0 {
		return nil
	}
	if _, err := m.reorder.Drag(delta); err != nil {
		return util.ReportError(err)
	}
	return nil
}

// drop ends the drag and stores the new position.
func (m *Model) drop() tea.Cmd {
	if !m.sel.grabbed {
		return nil
	}
	m.sel.grabbed = false
	key, to := m.reorder.End()
	from := m.dragFrom
	if from == to {
		return nil
	}
	return tea.Batch(
		m.persist(func(ctx context.Context) error {
			return m.store.Move(ctx, from, to)
		}, key),
		util.ReportInfo(fmt.Sprintf("Moved to position %d", to+1)),
	)
}

func (m *Model) togglePin() tea.Cmd {
	i, ok := m.selectedIndex()
	if !ok {
		return nil
	}
	if h := m.sel.pinned[m.sel.key]; h != nil {
		h.Release()
		delete(m.sel.pinned, m.sel.key)
		return util.ReportInfo("Unpinned")
	}
	m.sel.pinned[m.sel.key] = m.state.Pins().Pin(i)
	return util.ReportInfo("Pinned")
}

func (m *Model) add() tea.Cmd {
	at := 0
	if i, ok := m.selectedIndex(); ok && m.filter.Value() == "" {
		at = i + 1
	}
	title := fmt.Sprintf("item %d", len(m.rows)+1)
	return func() tea.Msg {
		it, err := m.store.Insert(m.ctx, at, title, 1, false)
		if err != nil {
			return loadedMsg{err: err}
		}
		rows, err := m.store.List(m.ctx)
		return loadedMsg{rows: rows, err: err, selectKey: lazylist.Key(it.ID)}
	}
}

func (m *Model) remove() tea.Cmd {
	if m.sel.key == "" || m.sel.grabbed {
		return nil
	}
	id := string(m.sel.key)
	next := lazylist.Key("")
	if i, ok := m.selectedIndex(); ok {
		switch {
		case i+1 < m.items.Len():
			next = m.items.KeyAt(i + 1)
		case i > 0:
			next = m.items.KeyAt(i - 1)
		}
	}
	return m.persist(func(ctx context.Context) error {
		err := m.store.Delete(ctx, id)
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return err
	}, next)
}

func (m *Model) copyLayout() tea.Cmd {
	res := m.state.Last()
	if res == nil {
		return util.ReportWarn("Nothing laid out yet")
	}
	dump := res.Dump()
	return tea.Sequence(
		// We use both OSC 52 and native clipboard for compatibility with different
		// terminal emulators and environments.
		tea.SetClipboard(dump),
		func() tea.Msg {
			_ = clipboard.WriteAll(dump)
			return nil
		},
		util.ReportInfo("Layout copied to clipboard"),
	)
}

// decorate tints animating rows by their progress.
func (m *Model) decorate(res *lazylist.Result) *lazylist.Result {
	if res == nil {
		return nil
	}
	out := *res
	tint := func(ps []lazylist.Placement) []lazylist.Placement {
		ps = slices.Clone(ps)
		for i, p := range ps {
			if !p.Animating && !p.Dragged {
				continue
			}
			children := slices.Clone(p.Children)
			for j, c := range children {
				v, ok := c.Box.View.(rowView)
				if !ok {
					continue
				}
				if p.Dragged {
					v = v.tint(m.theme.Dragged)
				} else {
					v = v.tint(styles.Fade(m.theme.Extra, v.style.GetForeground(), p.Progress))
				}
				children[j].Box.View = v
			}
			ps[i].Children = children
		}
		return ps
	}
	out.Items = tint(res.Items)
	out.Pinned = tint(res.Pinned)
	if res.Header != nil {
		for _, p := range out.Items {
			if p.Key == res.Header.Key {
				out.Header = &p
				break
			}
		}
	}
	return &out
}

func (m *Model) statusView() string {
	t := m.theme
	res := m.state.Last()
	title := cases.Title(language.English)
	opts := m.state.Options()

	mode := title.String(opts.Orientation.String())
	if opts.ReverseLayout {
		mode += " " + title.String("reversed")
	}
	left := t.StatusKey.Render(" " + mode + " ")

	var info []string
	if m.status.Msg != "" {
		icon := styles.InfoIcon
		switch m.status.Type {
		case util.InfoTypeError:
			icon = styles.ErrorIcon
		case util.InfoTypeWarn:
			icon = styles.WarningIcon
		case util.InfoTypeSuccess:
			icon = styles.CheckIcon
		}
		info = append(info, icon+" "+m.status.Msg)
	}
	if m.sel.grabbed {
		info = append(info, fmt.Sprintf("%s moving to %d", styles.MoveIcon, m.reorder.Index()+1))
	}
	if res != nil {
		info = append(info,
			fmt.Sprintf("%d items", res.Count),
			fmt.Sprintf("anchor %d+%d", res.Anchor.Index, res.Anchor.Offset),
		)
		if res.Count > 0 {
			info = append(info, fmt.Sprintf("%d..%d", res.Visible.First+1, res.Visible.Last+1))
		}
	}
	width := max(m.width-lipgloss.Width(left), 0)
	text := ansi.Truncate(strings.Join(info, " · "), max(width-2, 0), "…")
	right := t.Status.Width(width).Render(text)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) View() tea.View {
	var view tea.View
	t := m.theme
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion
	view.BackgroundColor = t.BgBase
	if m.width < minWidth || m.height < minHeight {
		view.Content = t.Base.Width(m.width).Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Window too small!")
		return view
	}

	parts := []string{render.Styled(m.decorate(m.state.Last()), m.width, m.listHeight())}
	if m.filtering || m.filter.Value() != "" {
		parts = append(parts, t.Filter.Render(m.filter.View()))
	}
	parts = append(parts, m.statusView(), m.help.View(m.keyMap))
	view.Content = lipgloss.JoinVertical(lipgloss.Left, parts...)
	return view
}
