package prtview

import (
	"fmt"
	stdmath "math"

	"gopkg.in/yaml.v3"
)

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Packed returns the color as 0x00BBGGRR.
func (c Color) Packed() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16
}

// ColorFromPacked unpacks a 0x00BBGGRR color.
func ColorFromPacked(v uint32) Color {
	return Color{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16)}
}

// Float returns the channels scaled to [0, 1].
func (c Color) Float() [3]float64 {
	return [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// ColorFromFloat converts [0, 1] channels, clamping out of range values.
func ColorFromFloat(rgb [3]float64) Color {
	ch := func(v float64) uint8 {
		return uint8(clamp(stdmath.Round(v*255), 0, 255))
	}
	return Color{R: ch(rgb[0]), G: ch(rgb[1]), B: ch(rgb[2])}
}

// String returns the color as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses #rrggbb.
func ParseColor(s string) (Color, error) {
	var c Color
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// MarshalYAML writes the color as #rrggbb.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// MarshalText writes the color as #rrggbb.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText reads a #rrggbb color.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML reads a #rrggbb color.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
