package geom

import (
	"errors"

	"github.com/Faultbox/brushkit/pkg/math"
)

// ClipEpsilon is the on-plane tolerance used while splitting windings.
const ClipEpsilon = 0.01

// Windings with fewer than this many edges longer than tinyEdgeLength are tiny.
const (
	tinyEdgeLength = 0.2
	tinyEdgeCount  = 3
)

// ErrWindingClipped is returned when a clip leaves nothing of the winding.
var ErrWindingClipped = errors.New("winding clipped away")

const (
	sideFront = iota
	sideBack
	sideOn
)

// Winding is an ordered convex polygon of coplanar points.
type Winding []math.Vec3

// Len returns the number of points.
func (w Winding) Len() int { return len(w) }

// Empty reports whether the winding has no area-forming points.
func (w Winding) Empty() bool { return len(w) < 3 }

// Clone returns a copy that shares no storage with w.
func (w Winding) Clone() Winding {
	if w == nil {
		return nil
	}
	out := make(Winding, len(w))
	copy(out, w)
	return out
}

// Reverse returns the winding with its point order reversed.
func (w Winding) Reverse() Winding {
	out := make(Winding, len(w))
	for i, p := range w {
		out[len(w)-1-i] = p
	}
	return out
}

// Area returns the polygon area.
func (w Winding) Area() float64 {
	var total float64
	for i := 2; i < len(w); i++ {
		d1 := w[i-1].Sub(w[0])
		d2 := w[i].Sub(w[0])
		total += 0.5 * d1.Cross(d2).Length()
	}
	return total
}

// Center returns the average of the points.
func (w Winding) Center() math.Vec3 {
	c := math.Origin
	if len(w) == 0 {
		return c
	}
	for _, p := range w {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(w)))
}

// Bounds returns the axis-aligned bounds of the points.
func (w Winding) Bounds() math.Bounds {
	b := math.EmptyBounds()
	for _, p := range w {
		b = b.Extend(p)
	}
	return b
}

// Plane returns the plane through the first three points.
func (w Winding) Plane() (*Plane, error) {
	if len(w) < 3 {
		return nil, ErrDegeneratePlane
	}
	return NewPlane(w[0], w[1], w[2], nil)
}

// IsTiny reports whether the winding is too small to be a useful face.
func (w Winding) IsTiny() bool {
	edges := 0
	for i := range w {
		j := (i + 1) % len(w)
		if w[j].Sub(w[i]).Length() > tinyEdgeLength {
			edges++
			if edges == tinyEdgeCount {
				return false
			}
		}
	}
	return true
}

// Split cuts the winding by plane. Points within ClipEpsilon of the plane
// go to both halves. Either half is nil when nothing lies on that side.
func (w Winding) Split(plane *Plane) (front, back Winding) {
	n := len(w)
	dists := make([]float64, n+1)
	sides := make([]int, n+1)
	var counts [3]int

	for i, p := range w {
		d := p.Dot(plane.normal) - plane.dist
		dists[i] = d
		switch {
		case d > ClipEpsilon:
			sides[i] = sideFront
		case d < -ClipEpsilon:
			sides[i] = sideBack
		default:
			sides[i] = sideOn
		}
		counts[sides[i]]++
	}
	if n == 0 {
		return nil, nil
	}
	dists[n] = dists[0]
	sides[n] = sides[0]

	if counts[sideFront] == 0 {
		return nil, w.Clone()
	}
	if counts[sideBack] == 0 {
		return w.Clone(), nil
	}

	front = make(Winding, 0, n+4)
	back = make(Winding, 0, n+4)

	for i := 0; i < n; i++ {
		p1 := w[i]

		if sides[i] == sideOn {
			front = append(front, p1)
			back = append(back, p1)
			continue
		}
		if sides[i] == sideFront {
			front = append(front, p1)
		} else {
			back = append(back, p1)
		}

		if sides[i+1] == sideOn || sides[i+1] == sides[i] {
			continue
		}

		// generate a split point
		p2 := w[(i+1)%n]
		dot := dists[i] / (dists[i] - dists[i+1])
		var mid [3]float64
		for j := 0; j < 3; j++ {
			// avoid round off error when possible
			switch plane.normal.Component(j) {
			case 1:
				mid[j] = plane.dist
			case -1:
				mid[j] = -plane.dist
			default:
				a := p1.Component(j)
				mid[j] = a + dot*(p2.Component(j)-a)
			}
		}
		m := math.Vec3{X: mid[0], Y: mid[1], Z: mid[2]}
		front = append(front, m)
		back = append(back, m)
	}

	return front, back
}

// Clip keeps the part of the winding in front of (keepFront) or behind plane.
func (w Winding) Clip(plane *Plane, keepFront bool) (Winding, error) {
	front, back := w.Split(plane)
	out := back
	if keepFront {
		out = front
	}
	if out.Empty() {
		return nil, ErrWindingClipped
	}
	return out, nil
}

// approxContains reports whether p is within eps of any point of w.
func (w Winding) approxContains(p math.Vec3, eps float64) bool {
	for _, q := range w {
		if q.ApproxEqual(p, eps) {
			return true
		}
	}
	return false
}
