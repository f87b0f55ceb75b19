package tui

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lazylist/internal/db"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/lazylist"
	"github.com/charmbracelet/lazylist/internal/tui/styles"
	"github.com/charmbracelet/lazylist/internal/tui/util"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, seed int) (*Model, *db.Store) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Connect(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	store, err := db.NewStore(ctx, conn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	_, err = store.Seed(ctx, seed)
	require.NoError(t, err)

	m, err := New(ctx, store, lazylist.DefaultOptions(), time.Millisecond, nil)
	require.NoError(t, err)
	drain(t, m, m.Init())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	return m, store
}

// drain runs cmd and feeds store reloads back into m. Other messages,
// timers included, are dropped.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(200 * time.Millisecond):
		return
	}
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, m, c)
		}
	case loadedMsg:
		m.Update(msg)
	}
}

func press(m *Model, k tea.KeyPressMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

var (
	keyDown  = tea.KeyPressMsg{Code: tea.KeyDown}
	keyUp    = tea.KeyPressMsg{Code: tea.KeyUp}
	keySpace = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
)

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func titles(t *testing.T, s *db.Store) []string {
	t.Helper()
	rows, err := s.List(context.Background())
	require.NoError(t, err)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func TestModelLoads(t *testing.T) {
	t.Parallel()

	m, store := newModel(t, 20)
	rows, err := store.List(context.Background())
	require.NoError(t, err)

	require.Equal(t, lazylist.Key(rows[0].ID), m.Selected())
	res := m.State().Last()
	require.NotNil(t, res)
	require.Equal(t, 20, res.Count)
	require.Equal(t, geom.Size{Width: 40, Height: 10}, res.ViewportSize)
	require.Contains(t, m.View().Content, "Section 1")
	require.Contains(t, m.View().Content, "Vertical")
}

func TestModelMovesSelection(t *testing.T) {
	t.Parallel()

	m, store := newModel(t, 20)
	rows, err := store.List(context.Background())
	require.NoError(t, err)

	press(m, keyDown)
	press(m, keyDown)
	require.Equal(t, lazylist.Key(rows[2].ID), m.Selected())
	press(m, keyUp)
	require.Equal(t, lazylist.Key(rows[1].ID), m.Selected())

	// The first item has no predecessor.
	press(m, keyUp)
	press(m, keyUp)
	require.Equal(t, lazylist.Key(rows[0].ID), m.Selected())

	press(m, char('G'))
	require.Equal(t, lazylist.Key(rows[19].ID), m.Selected())
	res := m.State().Last()
	require.True(t, res.Visible.Contains(19))
	require.False(t, res.CanScrollForward)
}

func TestModelGrabAndDrop(t *testing.T) {
	t.Parallel()

	m, store := newModel(t, 20)
	press(m, keyDown)
	press(m, keySpace)
	require.True(t, m.sel.grabbed)

	// basil has size 2 and moves past cedar, size 3.
	press(m, keyDown)
	require.Equal(t, 2, m.reorder.Index())
	require.Zero(t, m.reorder.Offset())

	drain(t, m, press(m, keySpace))
	require.False(t, m.sel.grabbed)
	require.Equal(t, []string{"Section 1", "cedar 2", "basil 1", "dune 3"}, titles(t, store)[:4])
	require.Equal(t, m.Selected(), m.items.KeyAt(2))
}

func TestModelFilter(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t, 20)
	press(m, char('/'))
	require.True(t, m.filtering)

	m.filter.SetValue("section")
	require.Nil(t, m.refilter())
	require.Equal(t, 3, m.items.Len())

	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.False(t, m.filtering)

	// Filtered lists can't be reordered.
	msg := press(m, keySpace)
	require.NotNil(t, msg)
	require.False(t, m.sel.grabbed)

	press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	require.Equal(t, 20, m.items.Len())
}

func TestModelPins(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t, 20)
	press(m, char('p'))
	require.Equal(t, 1, m.State().Pins().Len())
	press(m, char('p'))
	require.Zero(t, m.State().Pins().Len())
}

func TestModelAddAndDelete(t *testing.T) {
	t.Parallel()

	m, store := newModel(t, 4)
	drain(t, m, press(m, char('a')))
	got := titles(t, store)
	require.Len(t, got, 5)
	require.Equal(t, "item 5", got[1])
	require.Equal(t, m.items.KeyAt(1), m.Selected())

	drain(t, m, press(m, char('x')))
	require.Equal(t, []string{"Section 1", "basil 1", "cedar 2", "dune 3"}, titles(t, store))
	require.Equal(t, m.items.KeyAt(1), m.Selected())
}

func TestModelOptions(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t, 20)
	press(m, char('r'))
	require.True(t, m.State().Options().ReverseLayout)
	require.Contains(t, m.View().Content, "Reversed")

	opts := lazylist.DefaultOptions()
	opts.Spacing = 1
	_, cmd := m.Update(ConfigReloadedMsg{Options: opts})
	require.NotNil(t, cmd)
	require.Equal(t, 1, m.State().Options().Spacing)

	opts.Spacing = -1
	m.Update(ConfigReloadedMsg{Options: opts})
	require.Equal(t, 1, m.State().Options().Spacing, "invalid options are ignored")
}

func TestModelStatus(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t, 4)
	m.Update(util.InfoMsg{Type: util.InfoTypeWarn, Msg: "careful"})
	require.Contains(t, m.View().Content, "careful")
	m.Update(util.ClearStatusMsg{})
	require.NotContains(t, m.View().Content, "careful")

	require.NotNil(t, press(m, char('y')))
}

func TestModelTooSmall(t *testing.T) {
	t.Parallel()

	m, _ := newModel(t, 4)
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 3})
	require.Contains(t, m.View().Content, "Window too small!")
}

func TestRowMeasure(t *testing.T) {
	t.Parallel()

	sel := &selection{pinned: map[lazylist.Key]*lazylist.PinHandle{}}
	r := row{item: db.Item{ID: "0123456789", Title: "meadow", Size: 2}, sel: sel, theme: styles.CurrentTheme()}

	tests := []struct {
		name string
		c    geom.Constraints
		want geom.Size
	}{
		{
			name: "vertical spans the width",
			c:    geom.Constraints{MaxWidth: 30, MaxHeight: geom.Infinity},
			want: geom.Size{Width: 30, Height: 2},
		},
		{
			name: "horizontal fits the title",
			c:    geom.Constraints{MaxWidth: geom.Infinity, MaxHeight: 5},
			want: geom.Size{Width: 8, Height: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			boxes, err := r.Measure(tt.c)
			require.NoError(t, err)
			require.Len(t, boxes, 1)
			require.Equal(t, tt.want, boxes[0].Size)
			require.Contains(t, boxes[0].View.(rowView).String(), "meadow")
		})
	}
}

func TestRowLabel(t *testing.T) {
	t.Parallel()

	sel := &selection{pinned: map[lazylist.Key]*lazylist.PinHandle{}}
	it := db.Item{ID: "a", Title: "meadow", Size: 1}
	r := row{item: it, sel: sel, theme: styles.CurrentTheme()}
	require.Equal(t, "meadow", r.label())

	it.Sticky = true
	require.Equal(t, "§ meadow", row{item: it, sel: sel}.label())

	sel.pinned["a"] = &lazylist.PinHandle{}
	require.Equal(t, "◆ meadow", r.label())

	sel.key, sel.grabbed = "a", true
	require.Equal(t, "⠿ meadow", r.label())
}
