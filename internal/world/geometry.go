package world

import "math"

// Vec is a position or direction in map cells.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64  { return v.Sub(o).Len() }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Y == 0 }

// Norm returns the unit vector, or the zero vector for zero input.
func (v Vec) Norm() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Body is an axis-aligned box; Pos is the top-left corner.
type Body struct {
	Pos  Vec
	W, H float64
}

func (b Body) Center() Vec {
	return Vec{b.Pos.X + b.W/2, b.Pos.Y + b.H/2}
}

func (b Body) Overlaps(o Body) bool {
	return b.Pos.X < o.Pos.X+o.W && o.Pos.X < b.Pos.X+b.W &&
		b.Pos.Y < o.Pos.Y+o.H && o.Pos.Y < b.Pos.Y+b.H
}

// Health is attached to entities that can die from damage. Entities without
// a Health component have no defined health and never die from it.
type Health struct {
	HP, Max float64
}
