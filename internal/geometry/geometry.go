// Package geometry holds the pixel and unit-square primitives shared by the
// layout engines and the store.
//
// Pixel space uses integer Rect/Point values in absolute screen coordinates.
// Unit space uses UnitRect/UnitPoint values in [0,1]² relative to a monitor's
// working area.
package geometry

import "math"

// Point is an integer point in screen coordinates.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Shrink insets every edge by n pixels, clamping to a 1x1 minimum.
func (r Rect) Shrink(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}
	return out
}

// UnitPoint is a point in the unit square.
type UnitPoint struct {
	X float64
	Y float64
}

// UnitRect is a rectangle in the unit square.
type UnitRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// UnitSquare covers the whole unit square.
var UnitSquare = UnitRect{X: 0, Y: 0, Width: 1, Height: 1}

// Contains reports whether p lies inside r, right and bottom edges exclusive.
func (r UnitRect) Contains(p UnitPoint) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the center of the rectangle.
func (r UnitRect) Center() UnitPoint {
	return UnitPoint{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Clamp keeps the rectangle inside the unit square, preserving its size when
// possible.
func (r UnitRect) Clamp() UnitRect {
	r.Width = clamp01(r.Width)
	r.Height = clamp01(r.Height)
	r.X = math.Max(0, math.Min(r.X, 1-r.Width))
	r.Y = math.Max(0, math.Min(r.Y, 1-r.Height))
	return r
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ToUnitPoint converts an absolute point into the unit square of area.
func ToUnitPoint(area Rect, p Point) UnitPoint {
	if area.Empty() {
		return UnitPoint{}
	}
	return UnitPoint{
		X: float64(p.X-area.X) / float64(area.Width),
		Y: float64(p.Y-area.Y) / float64(area.Height),
	}
}

// ToUnitRect converts an absolute rectangle into the unit square of area.
func ToUnitRect(area Rect, r Rect) UnitRect {
	if area.Empty() {
		return UnitRect{}
	}
	return UnitRect{
		X:      float64(r.X-area.X) / float64(area.Width),
		Y:      float64(r.Y-area.Y) / float64(area.Height),
		Width:  float64(r.Width) / float64(area.Width),
		Height: float64(r.Height) / float64(area.Height),
	}
}

// FromUnitRect scales a unit rectangle onto area. Edges are rounded
// independently so adjacent unit rectangles map to adjacent pixel
// rectangles without gaps.
func FromUnitRect(area Rect, r UnitRect) Rect {
	left := area.X + int(math.Round(r.X*float64(area.Width)))
	top := area.Y + int(math.Round(r.Y*float64(area.Height)))
	right := area.X + int(math.Round((r.X+r.Width)*float64(area.Width)))
	bottom := area.Y + int(math.Round((r.Y+r.Height)*float64(area.Height)))
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// FromUnitPoint scales a unit point onto area.
func FromUnitPoint(area Rect, p UnitPoint) Point {
	return Point{
		X: area.X + int(math.Round(p.X*float64(area.Width))),
		Y: area.Y + int(math.Round(p.Y*float64(area.Height))),
	}
}
