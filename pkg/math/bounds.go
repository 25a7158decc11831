package math

import "math"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec3
}

// EmptyBounds returns bounds that contain nothing; the first Extend sets them.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns bounds grown to include p.
func (b Bounds) Extend(p Vec3) Bounds {
	return Bounds{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Size returns the extent along each axis.
func (b Bounds) Size() Vec3 {
	if b.Empty() {
		return Origin
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
