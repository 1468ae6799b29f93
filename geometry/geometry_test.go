package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionsSingleRow(t *testing.T) {
	pos := Positions(Layout{Rows: []int{4}, TotalPins: 4})
	require.Len(t, pos, 4)
	for i, p := range pos {
		assert.Equal(t, i+1, p.PinNumber)
		assert.Equal(t, 0, p.Row)
		assert.InDelta(t, 8+float64(i)*24, p.X, 1e-9)
	}
}

func TestPositionsTwoRowsAreStaggered(t *testing.T) {
	pos := Positions(Layout{Rows: []int{5, 4}, TotalPins: 9})
	require.Len(t, pos, 9)
	assert.Equal(t, 6, pos[5].PinNumber)
	assert.Equal(t, 1, pos[5].Row)
	assert.InDelta(t, pos[0].X+12, pos[5].X, 1e-9)
	assert.InDelta(t, pos[0].Y+28, pos[5].Y, 1e-9)
}

func TestTriangleBoundsAreSquare(t *testing.T) {
	l := Layout{Rows: []int{3}, Layout: "triangle", TotalPins: 3}
	pos := Positions(l)
	require.Len(t, pos, 3)
	assert.Less(t, pos[0].Y, pos[1].Y, "pin 1 sits on top")

	b := Bounds(l)
	assert.InDelta(t, b.Width, b.Height, 1e-9)
	for _, p := range pos {
		assert.True(t, p.X > b.X && p.X < b.X+b.Width)
		assert.True(t, p.Y > b.Y && p.Y < b.Y+b.Height)
	}
}

func TestBoundsEmpty(t *testing.T) {
	assert.Equal(t, Rect{Width: 80, Height: 60}, Bounds(Layout{}))
}
