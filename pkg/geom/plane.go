// Package geom provides plane, winding and brush geometry for map editing.
//
// Planes are oriented by the order of their three defining points:
// normal = normalize((p0 - p1) x (p2 - p1)). Points listed clockwise when
// seen from the front give a normal pointing toward the viewer, which is the
// order brush faces use for outward-facing planes.
package geom

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/brushkit/pkg/math"
)

// Epsilon is the tolerance for on-plane tests and plane equality.
const Epsilon = 0.1

// WindingExtent is the half size of the quad produced by BaseWindingForPlane.
const WindingExtent = 131072

// Geometry errors.
var (
	ErrDegeneratePlane = errors.New("degenerate plane: defining points are collinear")
	ErrNoIntersection  = errors.New("planes have no unique intersection point")
	ErrNoMajorAxis     = errors.New("plane normal has no major axis")
)

// Plane is an oriented infinite plane with its three defining points and the
// texture projection used when it becomes a brush face.
type Plane struct {
	normal math.Vec3
	dist   float64
	points [3]math.Vec3
	face   FaceData
	shader string
	valid  bool
}

// NewPlane builds a plane through a, b and c. When tex is nil a default
// projection with the no-draw material is used.
//
// Collinear points return the plane with a zero normal together with
// ErrDegeneratePlane; the caller decides whether to keep it.
func NewPlane(a, b, c math.Vec3, tex *FaceData) (*Plane, error) {
	p := &Plane{
		points: [3]math.Vec3{a, b, c},
		valid:  true,
	}
	if tex != nil {
		p.face = *tex
	} else {
		p.face = DefaultFaceData(a, b, c, NoDrawShader)
	}
	p.shader = p.face.Shader

	return p, p.derive()
}

// NewPlaneWithShader builds a plane through a, b and c with a default
// projection using shader. detail sets the detail contents bit.
func NewPlaneWithShader(a, b, c math.Vec3, shader string, detail bool) (*Plane, error) {
	face := DefaultFaceData(a, b, c, shader)
	if detail {
		face.Contents |= ContentsDetail
	}
	return NewPlane(a, b, c, &face)
}

// derive recomputes normal and offset from the defining points.
func (p *Plane) derive() error {
	v1 := p.points[0].Sub(p.points[1])
	v2 := p.points[2].Sub(p.points[1])

	n, l := v1.Cross(v2).NormalizeLen()
	p.normal = n
	p.dist = n.Dot(p.points[0])
	if l == 0 {
		return fmt.Errorf("%w: %v %v %v", ErrDegeneratePlane, p.points[0], p.points[1], p.points[2])
	}
	return nil
}

// Normal returns the unit normal.
func (p *Plane) Normal() math.Vec3 { return p.normal }

// Dist returns the offset d such that Normal·X = d for points on the plane.
func (p *Plane) Dist() float64 { return p.dist }

// Points returns the three defining points.
func (p *Plane) Points() [3]math.Vec3 { return p.points }

// FaceData returns the texture descriptor.
func (p *Plane) FaceData() FaceData { return p.face }

// Shader returns the material emitted by AddToBrush.
func (p *Plane) Shader() string { return p.shader }

// Valid reports whether the plane passed the owner's checks.
func (p *Plane) Valid() bool { return p.valid }

// SetValid marks the plane as passing or failing the owner's checks.
// Invalid planes are written with the no-draw material.
func (p *Plane) SetValid(ok bool) { p.valid = ok }

// SetPoints replaces the defining points. Normal and offset are not updated
// until Rebuild is called.
func (p *Plane) SetPoints(a, b, c math.Vec3) {
	p.points = [3]math.Vec3{a, b, c}
}

// Rebuild recomputes normal, offset and the texture anchor points from the
// current defining points.
func (p *Plane) Rebuild() error {
	err := p.derive()
	p.face.P0 = p.points[0]
	p.face.P1 = p.points[1]
	p.face.P2 = p.points[2]
	return err
}

// DistanceToPoint returns the signed distance from the plane to pnt.
// Positive values lie on the side the normal points toward.
func (p *Plane) DistanceToPoint(pnt math.Vec3) float64 {
	return pnt.Sub(p.points[0]).Dot(p.normal)
}

// OnPlane reports whether pnt lies within Epsilon of the plane.
func (p *Plane) OnPlane(pnt math.Vec3) bool {
	return stdmath.Abs(p.DistanceToPoint(pnt)) < Epsilon
}

// PlaneIntersection returns the point shared by p, b and c, solved with
// Cramer's rule. Only an exactly singular system is rejected; use
// PlaneIntersectionTol for noisy input.
func (p *Plane) PlaneIntersection(b, c *Plane) (math.Vec3, error) {
	return p.PlaneIntersectionTol(b, c, 0)
}

// PlaneIntersectionTol is PlaneIntersection but treats a system whose
// determinant magnitude is at most eps as singular.
func (p *Plane) PlaneIntersectionTol(b, c *Plane, eps float64) (math.Vec3, error) {
	m := math.Rows(p.normal, b.normal, c.normal)

	det := m.Determinant()
	if det == 0 || stdmath.Abs(det) <= eps {
		return math.Vec3{}, ErrNoIntersection
	}

	d := math.Vec3{X: p.dist, Y: b.dist, Z: c.dist}
	return math.Vec3{
		X: m.WithColumn(0, d).Determinant() / det,
		Y: m.WithColumn(1, d).Determinant() / det,
		Z: m.WithColumn(2, d).Determinant() / det,
	}, nil
}

// IsRedundant reports whether fewer than three of points lie on the plane.
// Such a plane does not contribute a face to the solid the points describe.
func (p *Plane) IsRedundant(points []math.Vec3) bool {
	cnt := 0
	for _, pnt := range points {
		if p.OnPlane(pnt) {
			cnt++
		}
		if cnt == 3 {
			return false
		}
	}
	return true
}

// Equal reports whether normals and offsets agree within Epsilon.
func (p *Plane) Equal(other *Plane) bool {
	if other.normal.Sub(p.normal).Length() > Epsilon {
		return false
	}
	return stdmath.Abs(other.dist-p.dist) <= Epsilon
}

// NotEqual is the negation of Equal.
func (p *Plane) NotEqual(other *Plane) bool {
	return !p.Equal(other)
}

// BaseWindingForPlane returns a quad of half size WindingExtent lying in the
// plane, wound so its own normal matches the plane's. It is the seed polygon
// that other planes clip down to a brush face.
func (p *Plane) BaseWindingForPlane() (Winding, error) {
	x := -1
	var best float64
	for i := 0; i < 3; i++ {
		v := stdmath.Abs(p.normal.Component(i))
		if v > best {
			x = i
			best = v
		}
	}
	if x == -1 {
		return nil, ErrNoMajorAxis
	}

	var up math.Vec3
	switch x {
	case 0, 1:
		up.Z = 1
	case 2:
		up.X = 1
	}

	v := up.Dot(p.normal)
	up = up.MA(-v, p.normal).Normalize()
	org := p.normal.Scale(p.dist)
	right := up.Cross(p.normal)

	up = up.Scale(WindingExtent)
	right = right.Scale(WindingExtent)

	return Winding{
		org.Sub(right).Add(up),
		org.Add(right).Add(up),
		org.Add(right).Sub(up),
		org.Sub(right).Sub(up),
	}, nil
}

// Flipped returns a copy facing the opposite direction. The defining points
// are reordered so Rebuild keeps the new orientation.
func (p *Plane) Flipped() *Plane {
	q := *p
	q.points = [3]math.Vec3{p.points[2], p.points[1], p.points[0]}
	q.face.P0, q.face.P1, q.face.P2 = q.points[0], q.points[1], q.points[2]
	q.normal = p.normal.Negate()
	q.dist = -p.dist
	return &q
}

// AddToBrush writes the plane as a face to sink. Invalid planes are forced
// onto the no-draw material first; changed reports whether that happened.
func (p *Plane) AddToBrush(sink BrushSink) (changed bool, err error) {
	if !p.valid && p.shader != NoDrawShader {
		p.shader = NoDrawShader
		changed = true
	}

	face := p.face
	face.P0 = p.points[0]
	face.P1 = p.points[1]
	face.P2 = p.points[2]
	face.Shader = p.shader

	if err := sink.AddFace(face); err != nil {
		return changed, fmt.Errorf("adding face: %w", err)
	}
	return changed, nil
}

// String returns the plane as "normal dist".
func (p *Plane) String() string {
	return fmt.Sprintf("%v %g", p.normal, p.dist)
}
