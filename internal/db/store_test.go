package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	conn, err := Connect(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	s, err := NewStore(ctx, conn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func titles(t *testing.T, s *Store) []string {
	t.Helper()
	items, err := s.List(context.Background())
	require.NoError(t, err)
	out := make([]string, len(items))
	for i, it := range items {
		require.Equal(t, i, it.Position, "positions stay contiguous")
		out[i] = it.Title
	}
	return out
}

func TestConnectRequiresDataDir(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), "")
	require.Error(t, err)
}

func TestStoreInsertDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	a, err := s.Insert(ctx, -1, "a", 1, false)
	require.NoError(t, err)
	_, err = s.Insert(ctx, -1, "c", 2, false)
	require.NoError(t, err)
	b, err := s.Insert(ctx, 1, "b", 3, true)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, titles(t, s))

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, Item{ID: b.ID, Title: "b", Size: 3, Sticky: true, Position: 1}, got)

	_, err = s.Insert(ctx, 0, "zero", 0, false)
	require.Error(t, err)

	require.NoError(t, s.Delete(ctx, a.ID))
	require.Equal(t, []string{"b", "c"}, titles(t, s))
	require.ErrorIs(t, s.Delete(ctx, a.ID), ErrNotFound)
	_, err = s.Get(ctx, a.ID)
	require.ErrorIs(t, err, ErrNotFound)

	b.Title, b.Size = "bee", 1
	require.NoError(t, s.Update(ctx, b))
	require.Equal(t, []string{"bee", "c"}, titles(t, s))
	require.ErrorIs(t, s.Update(ctx, a), ErrNotFound)
}

func TestStoreMove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)
	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := s.Insert(ctx, -1, title, 1, false)
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "down", from: 0, to: 2, want: []string{"b", "c", "a", "d"}},
		{name: "up", from: 3, to: 0, want: []string{"d", "b", "c", "a"}},
		{name: "noop", from: 1, to: 1, want: []string{"d", "b", "c", "a"}},
	}
	for _, tt := range tests {
		require.NoError(t, s.Move(ctx, tt.from, tt.to), tt.name)
		require.Equal(t, tt.want, titles(t, s), tt.name)
	}
	require.ErrorIs(t, s.Move(ctx, 0, 9), ErrNotFound)
}

func TestStoreSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	n, err := s.Seed(ctx, 20)
	require.NoError(t, err)
	require.Equal(t, 20, n)

	n, err = s.Seed(ctx, 20)
	require.NoError(t, err)
	require.Zero(t, n, "seeding only fills an empty store")

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 20)
	require.True(t, items[0].Sticky)
	require.Equal(t, "Section 1", items[0].Title)
	require.True(t, items[8].Sticky)
	require.Equal(t, 2, items[1].Size)
}
