package mapfile

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/brushkit/pkg/geom"
	"github.com/Faultbox/brushkit/pkg/math"
)

// Document errors.
var (
	ErrBadPoint   = errors.New("point must have exactly 3 coordinates")
	ErrEmptyBrush = errors.New("brush has neither box nor planes")
	ErrNoBrushes  = errors.New("document contains no brushes")
)

// Point is a 3D coordinate written as a YAML sequence: [x, y, z].
type Point math.Vec3

// UnmarshalYAML decodes a three element sequence.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xyz []float64
	if err := value.Decode(&xyz); err != nil {
		return err
	}
	if len(xyz) != 3 {
		return fmt.Errorf("line %d: %w", value.Line, ErrBadPoint)
	}
	*p = Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return nil
}

// MarshalYAML encodes the point as a flow sequence.
func (p Point) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{p.X, p.Y, p.Z} {
		var c yaml.Node
		if err := c.Encode(v); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &c)
	}
	return n, nil
}

// Vec3 returns the point as a vector.
func (p Point) Vec3() math.Vec3 { return math.Vec3(p) }

// Document is a list of brushes to build.
type Document struct {
	Brushes []BrushDoc `yaml:"brushes"`
}

// BrushDoc describes one brush: an optional box plus extra planes.
type BrushDoc struct {
	Name   string     `yaml:"name,omitempty"`
	Shader string     `yaml:"shader,omitempty"`
	Detail bool       `yaml:"detail,omitempty"`
	Box    *BoxDoc    `yaml:"box,omitempty"`
	Planes []PlaneDoc `yaml:"planes,omitempty"`
}

// BoxDoc is an axis-aligned box.
type BoxDoc struct {
	Min Point `yaml:"min"`
	Max Point `yaml:"max"`
}

// PlaneDoc is one plane given by three points, clockwise seen from outside.
type PlaneDoc struct {
	Points   []Point    `yaml:"points"`
	Shader   string     `yaml:"shader,omitempty"`
	Shift    [2]float64 `yaml:"shift,omitempty"`
	Scale    [2]float64 `yaml:"scale,omitempty"`
	Rotate   float64    `yaml:"rotate,omitempty"`
	Contents int        `yaml:"contents,omitempty"`
	Flags    int        `yaml:"flags,omitempty"`
	Value    int        `yaml:"value,omitempty"`
}

// LoadDocument reads a brush document from path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// ParseDocument parses a brush document from YAML.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing brush document: %w", err)
	}
	if len(doc.Brushes) == 0 {
		return nil, ErrNoBrushes
	}
	return &doc, nil
}

// label names the brush in error messages.
func (b *BrushDoc) label(index int) string {
	if b.Name != "" {
		return fmt.Sprintf("brush %d (%s)", index, b.Name)
	}
	return fmt.Sprintf("brush %d", index)
}

// Build turns the description into a brush. defaultShader is used when
// neither the brush nor a plane names one. All degenerate planes are
// reported together.
func (b *BrushDoc) Build(defaultShader string, opts ...geom.BrushOption) (*geom.Brush, error) {
	if b.Box == nil && len(b.Planes) == 0 {
		return nil, ErrEmptyBrush
	}

	shader := b.Shader
	if shader == "" {
		shader = defaultShader
	}

	brush := geom.NewBrush(opts...)
	if b.Box != nil {
		box, err := geom.NewBoxBrush(b.Box.Min.Vec3(), b.Box.Max.Vec3(), shader)
		if err != nil {
			return nil, err
		}
		for _, p := range box.Planes() {
			if b.Detail {
				p = detailCopy(p)
			}
			brush.AddPlane(p)
		}
	}

	var errs error
	for i, pd := range b.Planes {
		p, err := pd.plane(shader, b.Detail)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("plane %d: %w", i, err))
			continue
		}
		brush.AddPlane(p)
	}
	if errs != nil {
		return nil, errs
	}
	return brush, nil
}

func (pd *PlaneDoc) plane(shader string, detail bool) (*geom.Plane, error) {
	if len(pd.Points) != 3 {
		return nil, fmt.Errorf("got %d points: %w", len(pd.Points), ErrBadPoint)
	}
	if pd.Shader != "" {
		shader = pd.Shader
	}
	a, b, c := pd.Points[0].Vec3(), pd.Points[1].Vec3(), pd.Points[2].Vec3()

	face := geom.DefaultFaceData(a, b, c, shader)
	face.TexDef.Shift = math.Vec2{X: pd.Shift[0], Y: pd.Shift[1]}
	if pd.Scale != [2]float64{} {
		face.TexDef.Scale = math.Vec2{X: pd.Scale[0], Y: pd.Scale[1]}
	}
	face.TexDef.Rotate = pd.Rotate
	face.Contents = pd.Contents
	face.Flags = pd.Flags
	face.Value = pd.Value
	if detail {
		face.Contents |= geom.ContentsDetail
	}

	return geom.NewPlane(a, b, c, &face)
}

// detailCopy rebuilds p with the detail contents bit set.
func detailCopy(p *geom.Plane) *geom.Plane {
	face := p.FaceData()
	face.Contents |= geom.ContentsDetail
	pts := p.Points()
	q, _ := geom.NewPlane(pts[0], pts[1], pts[2], &face)
	return q
}

// Build builds every brush in the document.
func (d *Document) Build(defaultShader string, opts ...geom.BrushOption) ([]*geom.Brush, error) {
	brushes := make([]*geom.Brush, 0, len(d.Brushes))
	var errs error
	for i := range d.Brushes {
		b, err := d.Brushes[i].Build(defaultShader, opts...)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", d.Brushes[i].label(i), err))
			continue
		}
		brushes = append(brushes, b)
	}
	if errs != nil {
		return nil, errs
	}
	return brushes, nil
}
