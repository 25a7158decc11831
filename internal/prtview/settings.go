// Package prtview holds the portal viewer's display settings.
//
// Settings are owned by whoever renders portals and passed to it explicitly.
// A Session edits a private copy and writes it back only on Commit, so the
// owner never sees half-applied changes.
package prtview

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Slider ranges.
const (
	MinLineWidth    = 2
	MaxLineWidth    = 40
	MinTransparency = 0
	MaxTransparency = 100
	MinClipRange    = 1
	MaxClipRange    = 128

	// clipRangeUnit is the world size of one clip range step.
	clipRangeUnit = 64
)

// ZBufferMode selects depth testing for 3D portal polygons.
type ZBufferMode int

// Depth modes, in menu order.
const (
	ZBufferTestWrite ZBufferMode = iota
	ZBufferTestOnly
	ZBufferOff
)

var zbufferNames = []string{"test-write", "test-only", "off"}

// String returns the config name of the mode.
func (m ZBufferMode) String() string {
	if m < 0 || int(m) >= len(zbufferNames) {
		return fmt.Sprintf("ZBufferMode(%d)", int(m))
	}
	return zbufferNames[m]
}

// Description returns the menu text for the mode.
func (m ZBufferMode) Description() string {
	switch m {
	case ZBufferTestWrite:
		return "Z-Buffer Test and Write (recommended for solid or no polygons)"
	case ZBufferTestOnly:
		return "Z-Buffer Test Only (recommended for transparent polygons)"
	case ZBufferOff:
		return "Z-Buffer Off"
	default:
		return m.String()
	}
}

// ParseZBufferMode parses a mode name.
func ParseZBufferMode(s string) (ZBufferMode, error) {
	for i, name := range zbufferNames {
		if strings.EqualFold(s, name) {
			return ZBufferMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown z-buffer mode %q", s)
}

// MarshalYAML writes the mode by name.
func (m ZBufferMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// MarshalText writes the mode by name.
func (m ZBufferMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText reads the mode by name.
func (m *ZBufferMode) UnmarshalText(text []byte) error {
	mode, err := ParseZBufferMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// UnmarshalYAML reads the mode by name.
func (m *ZBufferMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseZBufferMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Settings controls how portals are drawn in the 2D and 3D views.
type Settings struct {
	Show2D  bool    `yaml:"show_2d" toml:"show_2d"`
	AA2D    bool    `yaml:"antialias_2d" toml:"antialias_2d"`
	Width2D float64 `yaml:"width_2d" toml:"width_2d"`
	Color2D Color   `yaml:"color_2d" toml:"color_2d"`

	Show3D    bool        `yaml:"show_3d" toml:"show_3d"`
	AA3D      bool        `yaml:"antialias_3d" toml:"antialias_3d"`
	Width3D   float64     `yaml:"width_3d" toml:"width_3d"`
	Color3D   Color       `yaml:"color_3d" toml:"color_3d"`
	Trans3D   float64     `yaml:"transparency_3d" toml:"transparency_3d"`
	Fog       bool        `yaml:"fog" toml:"fog"`
	ColorFog  Color       `yaml:"color_fog" toml:"color_fog"`
	Polygons  bool        `yaml:"polygons" toml:"polygons"`
	Lines     bool        `yaml:"lines" toml:"lines"`
	ZBuffer   ZBufferMode `yaml:"zbuffer" toml:"zbuffer"`
	Clip      bool        `yaml:"clip" toml:"clip"`
	ClipRange float64     `yaml:"clip_range" toml:"clip_range"`
}

// DefaultSettings returns the initial portal display settings.
func DefaultSettings() Settings {
	return Settings{
		Show2D:  true,
		Width2D: 10,
		Color2D: Color{0, 0, 255},

		Show3D:    true,
		Width3D:   4,
		Color3D:   Color{255, 255, 0},
		Trans3D:   50,
		ColorFog:  Color{127, 127, 127},
		Polygons:  true,
		Lines:     true,
		ZBuffer:   ZBufferTestOnly,
		ClipRange: 16,
	}
}

// LineWidth2DText is the label shown next to the 2D width slider.
func (s *Settings) LineWidth2DText() string {
	return fmt.Sprintf("Line Width = %6.3f", s.Width2D*0.5)
}

// LineWidth3DText is the label shown next to the 3D width slider.
func (s *Settings) LineWidth3DText() string {
	return fmt.Sprintf("Line Width = %6.3f", s.Width3D*0.5)
}

// TransparencyText is the label shown next to the transparency slider.
func (s *Settings) TransparencyText() string {
	return fmt.Sprintf("Polygon transparency = %d%%", int(s.Trans3D))
}

// ClipRangeText is the label shown next to the clip range slider.
func (s *Settings) ClipRangeText() string {
	return fmt.Sprintf("Cubic clip range = %d", int(s.ClipRange)*clipRangeUnit)
}

// ClipDistance is the clip cube half size in world units.
func (s *Settings) ClipDistance() float64 {
	return float64(int(s.ClipRange) * clipRangeUnit)
}

// Validate reports every setting that is out of range.
func (s *Settings) Validate() error {
	var errs error
	check := func(name string, v, lo, hi float64) {
		if v < lo || v > hi {
			errs = multierr.Append(errs, fmt.Errorf("%s %g out of range [%g, %g]", name, v, lo, hi))
		}
	}
	check("width_2d", s.Width2D, MinLineWidth, MaxLineWidth)
	check("width_3d", s.Width3D, MinLineWidth, MaxLineWidth)
	check("transparency_3d", s.Trans3D, MinTransparency, MaxTransparency)
	check("clip_range", s.ClipRange, MinClipRange, MaxClipRange)
	if s.ZBuffer < ZBufferTestWrite || s.ZBuffer > ZBufferOff {
		errs = multierr.Append(errs, fmt.Errorf("invalid zbuffer mode %d", int(s.ZBuffer)))
	}
	return errs
}

// Clamp forces every ranged setting into its slider range.
func (s *Settings) Clamp() {
	s.Width2D = clamp(s.Width2D, MinLineWidth, MaxLineWidth)
	s.Width3D = clamp(s.Width3D, MinLineWidth, MaxLineWidth)
	s.Trans3D = clamp(s.Trans3D, MinTransparency, MaxTransparency)
	s.ClipRange = clamp(s.ClipRange, MinClipRange, MaxClipRange)
	if s.ZBuffer < ZBufferTestWrite || s.ZBuffer > ZBufferOff {
		s.ZBuffer = ZBufferTestOnly
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
