package geom

import (
	"errors"
	"fmt"
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/brushkit/pkg/math"
)

var (
	// ErrTooFewPlanes is returned when a brush cannot enclose a volume.
	ErrTooFewPlanes = errors.New("brush needs at least four planes")
	// ErrNoVolume is returned for brushes whose planes leave no solid.
	ErrNoVolume = errors.New("brush encloses no volume")
)

const (
	// minBrushPlanes is the smallest plane count that can bound a convex solid.
	minBrushPlanes = 4
	// openFaceExtent is the face size past which no plane closes the brush.
	openFaceExtent = WindingExtent / 2
)

// Brush is a convex solid: the intersection of the half spaces behind each
// of its planes.
type Brush struct {
	planes []*Plane
	tol    float64
	log    *zap.Logger
}

// BrushOption configures a Brush.
type BrushOption func(*Brush)

// WithLogger reports degenerate faces to log.
func WithLogger(log *zap.Logger) BrushOption {
	return func(b *Brush) {
		if log != nil {
			b.log = log
		}
	}
}

// WithIntersectionTolerance makes vertex building skip plane triples whose
// determinant magnitude is at most eps.
func WithIntersectionTolerance(eps float64) BrushOption {
	return func(b *Brush) {
		b.tol = eps
	}
}

// NewBrush creates an empty brush.
func NewBrush(opts ...BrushOption) *Brush {
	b := &Brush{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBoxBrush returns an axis-aligned box brush spanning mins to maxs.
// maxs must exceed mins on every axis.
func NewBoxBrush(mins, maxs math.Vec3, shader string, opts ...BrushOption) (*Brush, error) {
	for i := 0; i < 3; i++ {
		if mins.Component(i) >= maxs.Component(i) {
			return nil, fmt.Errorf("box %v to %v: %w", mins, maxs, ErrNoVolume)
		}
	}
	b := NewBrush(opts...)
	faces := [6][3]math.Vec3{
		// +X
		{{X: maxs.X, Y: maxs.Y, Z: mins.Z}, {X: maxs.X, Y: mins.Y, Z: mins.Z}, {X: maxs.X, Y: mins.Y, Z: maxs.Z}},
		// -X
		{{X: mins.X, Y: mins.Y, Z: maxs.Z}, {X: mins.X, Y: mins.Y, Z: mins.Z}, {X: mins.X, Y: maxs.Y, Z: mins.Z}},
		// +Y
		{{X: mins.X, Y: maxs.Y, Z: maxs.Z}, {X: mins.X, Y: maxs.Y, Z: mins.Z}, {X: maxs.X, Y: maxs.Y, Z: mins.Z}},
		// -Y
		{{X: maxs.X, Y: mins.Y, Z: mins.Z}, {X: mins.X, Y: mins.Y, Z: mins.Z}, {X: mins.X, Y: mins.Y, Z: maxs.Z}},
		// +Z
		{{X: maxs.X, Y: mins.Y, Z: maxs.Z}, {X: mins.X, Y: mins.Y, Z: maxs.Z}, {X: mins.X, Y: maxs.Y, Z: maxs.Z}},
		// -Z
		{{X: mins.X, Y: maxs.Y, Z: mins.Z}, {X: mins.X, Y: mins.Y, Z: mins.Z}, {X: maxs.X, Y: mins.Y, Z: mins.Z}},
	}
	for _, f := range faces {
		p, err := NewPlaneWithShader(f[0], f[1], f[2], shader, false)
		if err != nil {
			return nil, fmt.Errorf("box face: %w", err)
		}
		b.AddPlane(p)
	}
	return b, nil
}

// AddPlane appends p unless an equal plane is already present.
// It reports whether the plane was added.
func (b *Brush) AddPlane(p *Plane) bool {
	for _, q := range b.planes {
		if q.Equal(p) {
			return false
		}
	}
	b.planes = append(b.planes, p)
	return true
}

// Planes returns the brush planes in insertion order.
func (b *Brush) Planes() []*Plane {
	return b.planes
}

// Contains reports whether pnt is inside or on every plane.
func (b *Brush) Contains(pnt math.Vec3) bool {
	for _, p := range b.planes {
		if p.DistanceToPoint(pnt) > Epsilon {
			return false
		}
	}
	return true
}

// BuildPoints returns the brush vertices: every point where three planes
// meet that lies inside all the others. Duplicates within Epsilon are merged.
func (b *Brush) BuildPoints() []math.Vec3 {
	var pts Winding
	n := len(b.planes)
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				pnt, err := b.planes[i].PlaneIntersectionTol(b.planes[j], b.planes[k], b.tol)
				if err != nil {
					continue
				}
				if !b.Contains(pnt) || pts.approxContains(pnt, Epsilon) {
					continue
				}
				pts = append(pts, pnt)
			}
		}
	}
	return pts
}

// RemoveRedundantPlanes drops planes that touch fewer than three brush
// vertices and returns how many were removed.
func (b *Brush) RemoveRedundantPlanes() int {
	pts := b.BuildPoints()

	kept := b.planes[:0]
	removed := 0
	for _, p := range b.planes {
		if p.IsRedundant(pts) {
			b.log.Debug("removing redundant plane", zap.Stringer("plane", p))
			removed++
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(b.planes); i++ {
		b.planes[i] = nil
	}
	b.planes = kept
	return removed
}

// Windings returns one face polygon per plane, in plane order: the plane's
// base winding clipped by every other plane. A plane whose face vanishes
// gets a nil entry. ErrNoVolume is returned when too few faces remain to
// bound a solid.
func (b *Brush) Windings() ([]Winding, error) {
	if len(b.planes) < minBrushPlanes {
		return nil, ErrTooFewPlanes
	}

	out := make([]Winding, len(b.planes))
	faces := 0
	for i, p := range b.planes {
		base, err := p.BaseWindingForPlane()
		if err != nil {
			b.log.Warn("no base winding", zap.Int("plane", i), zap.Error(err))
			continue
		}
		w := base
		for j, clip := range b.planes {
			if i == j {
				continue
			}
			w, err = w.Clip(clip, false)
			if err != nil {
				break
			}
		}
		if err != nil {
			b.log.Debug("face clipped away", zap.Int("plane", i))
			continue
		}
		if openFace(base, w) {
			b.log.Warn("brush is not closed", zap.Int("plane", i), zap.Stringer("normal", p.Normal()))
		}
		out[i] = w
		faces++
	}
	if faces < minBrushPlanes {
		return out, fmt.Errorf("%d of %d faces left: %w", faces, len(b.planes), ErrNoVolume)
	}
	return out, nil
}

// openFace reports whether the clipped face w still reaches the edge of its
// base winding.
func openFace(base, w Winding) bool {
	for _, p := range w {
		if base.approxContains(p, ClipEpsilon) {
			return true
		}
	}
	size := w.Bounds().Size()
	return stdmath.Max(size.X, stdmath.Max(size.Y, size.Z)) > openFaceExtent
}

// Bounds returns the bounds of the brush vertices.
func (b *Brush) Bounds() math.Bounds {
	bounds := math.EmptyBounds()
	for _, p := range b.BuildPoints() {
		bounds = bounds.Extend(p)
	}
	return bounds
}

// Export writes every plane to sink as a face and returns how many planes
// had their material forced to the no-draw shader.
func (b *Brush) Export(sink BrushSink) (int, error) {
	corrected := 0
	for i, p := range b.planes {
		changed, err := p.AddToBrush(sink)
		if err != nil {
			return corrected, fmt.Errorf("plane %d: %w", i, err)
		}
		if changed {
			corrected++
		}
	}
	return corrected, nil
}
