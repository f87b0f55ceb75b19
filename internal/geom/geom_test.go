package geom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrientationAxes(t *testing.T) {
	t.Parallel()

	s := Size{Width: 3, Height: 7}
	require.Equal(t, 7, Vertical.Main(s))
	require.Equal(t, 3, Vertical.Cross(s))
	require.Equal(t, 3, Horizontal.Main(s))
	require.Equal(t, 7, Horizontal.Cross(s))

	require.Equal(t, Offset{X: 2, Y: 5}, Vertical.Offset(5, 2))
	require.Equal(t, Offset{X: 5, Y: 2}, Horizontal.Offset(5, 2))
	require.Equal(t, Size{Width: 2, Height: 5}, Vertical.Size(5, 2))

	off := Offset{X: 4, Y: 9}
	require.Equal(t, 9, Vertical.MainOf(off))
	require.Equal(t, 4, Vertical.CrossOf(off))
	require.Equal(t, 4, Horizontal.MainOf(off))
}

func TestConstraintsOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     Constraints
		dw, dh int
		want   Constraints
	}{
		{
			name: "shrink",
			in:   Fixed(10, 20),
			dw:   -4, dh: -6,
			want: Fixed(6, 14),
		},
		{
			name: "never below zero",
			in:   Constraints{MinWidth: 2, MaxWidth: 5, MinHeight: 0, MaxHeight: 3},
			dw:   -10, dh: -10,
			want: Constraints{},
		},
		{
			name: "unbounded stays unbounded",
			in:   Constraints{MaxWidth: 10, MaxHeight: Infinity},
			dw:   -2, dh: -2,
			want: Constraints{MaxWidth: 8, MaxHeight: Infinity},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.in.Offset(tt.dw, tt.dh))
		})
	}
}

func TestConstraintsSatisfies(t *testing.T) {
	t.Parallel()

	c := Constraints{MinWidth: 2, MaxWidth: 4, MaxHeight: Infinity}
	require.True(t, c.Satisfies(Size{Width: 3, Height: 100}))
	require.False(t, c.Satisfies(Size{Width: 1, Height: 1}))
	require.False(t, c.Satisfies(Size{Width: 5, Height: 1}))
	require.Equal(t, Size{Width: 4, Height: 9}, c.Constrain(Size{Width: 9, Height: 9}))
}

func TestPaddingResolve(t *testing.T) {
	t.Parallel()

	p := Padding{Start: 1, End: 2, Top: 3, Bottom: 4}

	before, after := p.Resolve(Vertical, false)
	require.Equal(t, [2]int{3, 4}, [2]int{before, after})

	before, after = p.Resolve(Vertical, true)
	require.Equal(t, [2]int{4, 3}, [2]int{before, after})

	before, after = p.Resolve(Horizontal, false)
	require.Equal(t, [2]int{1, 2}, [2]int{before, after})

	before, after = p.Resolve(Horizontal, true)
	require.Equal(t, [2]int{2, 1}, [2]int{before, after})
}

func TestAlignment(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, AlignStart.Align(4, 10))
	require.Equal(t, 3, AlignCenter.Align(4, 10))
	require.Equal(t, 6, AlignEnd.Align(4, 10))
	require.Equal(t, 0, AlignStretch.Align(10, 10))
	require.Equal(t, 0, AlignNone.Align(4, 10))

	type wrapper struct {
		A Alignment   `json:"a"`
		O Orientation `json:"o"`
	}
	data, err := json.Marshal(wrapper{A: AlignCenter, O: Horizontal})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":"center","o":"horizontal"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"a":"stretch","o":"vertical"}`), &w))
	require.Equal(t, AlignStretch, w.A)
	require.Equal(t, Vertical, w.O)

	require.Error(t, json.Unmarshal([]byte(`{"a":"diagonal"}`), &w))
}
