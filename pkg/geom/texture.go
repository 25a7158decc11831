package geom

import "github.com/Faultbox/brushkit/pkg/math"

// NoDrawShader is the fallback material for faces that must not render.
const NoDrawShader = "textures/common/caulk"

// ContentsDetail marks a face as belonging to a detail brush.
const ContentsDetail = 0x8000000

// Default texture scale applied when no descriptor is supplied.
const defaultTexScale = 0.5

// TexDef describes how a material is projected onto a face.
type TexDef struct {
	Shift  math.Vec2
	Scale  math.Vec2
	Rotate float64
}

// FaceData is everything a brush needs to create one face: three ordered
// points, the texture projection and the material with its flags.
type FaceData struct {
	P0, P1, P2 math.Vec3
	TexDef     TexDef
	Shader     string
	Contents   int
	Flags      int
	Value      int
}

// Points returns the three anchor points in order.
func (f FaceData) Points() [3]math.Vec3 {
	return [3]math.Vec3{f.P0, f.P1, f.P2}
}

// IsDetail reports whether the detail contents bit is set.
func (f FaceData) IsDetail() bool {
	return f.Contents&ContentsDetail != 0
}

// DefaultFaceData returns a zero-shift, half-scale projection anchored at the
// given points using shader.
func DefaultFaceData(p0, p1, p2 math.Vec3, shader string) FaceData {
	return FaceData{
		P0: p0,
		P1: p1,
		P2: p2,
		TexDef: TexDef{
			Scale: math.Vec2{X: defaultTexScale, Y: defaultTexScale},
		},
		Shader: shader,
	}
}
