// Package geometry computes where pins sit in connector space. It holds no
// state and knows nothing about labels or colors.
package geometry

import "math"

const (
	pinSpacing = 24.0
	rowGap     = 28.0
	startX     = 8.0
	topY       = 24.0
	padding    = 20.0
)

// Layout is the part of a connector type that determines pin placement.
type Layout struct {
	Rows      []int
	Layout    string
	TotalPins int
}

// Position is the center of one pin.
type Position struct {
	PinNumber int     `json:"pinNumber"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Row       int     `json:"row"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (l Layout) triangle() bool {
	return l.Layout == "triangle" && l.TotalPins == 3
}

// Positions lays pins out as a single row, two staggered D-sub rows, or a
// triangle for 3-pin power connectors. Pins are numbered left to right,
// top row first.
func Positions(l Layout) []Position {
	if l.triangle() {
		cx := startX + pinSpacing
		cy := topY + 20
		const r = 28.0
		out := make([]Position, 0, 3)
		for i, deg := range []float64{-90, 150, 30} {
			a := deg * math.Pi / 180
			out = append(out, Position{PinNumber: i + 1, X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
		}
		return out
	}

	var out []Position
	pin := 1
	for row, count := range l.Rows {
		if row > 1 {
			break
		}
		offset, y := 0.0, topY
		if row == 1 {
			offset, y = pinSpacing/2, topY+rowGap
		}
		for i := 0; i < count; i++ {
			out = append(out, Position{PinNumber: pin, X: startX + offset + float64(i)*pinSpacing, Y: y, Row: row})
			pin++
		}
	}
	return out
}

// Bounds returns the body rectangle enclosing all pins.
func Bounds(l Layout) Rect {
	pos := Positions(l)
	if len(pos) == 0 {
		return Rect{Width: 80, Height: 60}
	}

	if l.triangle() {
		var cx, cy float64
		for _, p := range pos {
			cx += p.X
			cy += p.Y
		}
		cx /= 3
		cy /= 3
		r := 0.0
		for _, p := range pos {
			r = math.Max(r, math.Hypot(p.X-cx, p.Y-cy))
		}
		r += 14
		return Rect{X: cx - r - padding, Y: cy - r - padding, Width: 2*r + 2*padding, Height: 2*r + 2*padding}
	}

	minX, maxX := pos[0].X, pos[0].X
	minY, maxY := pos[0].Y, pos[0].Y
	for _, p := range pos[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{
		X:      minX - padding,
		Y:      minY - 14,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + padding + 10,
	}
}
