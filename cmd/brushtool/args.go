package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Faultbox/brushkit/pkg/geom"
	"github.com/Faultbox/brushkit/pkg/math"
)

// parseNumbers splits s on commas and whitespace and parses each field.
func parseNumbers(s string, want int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) != want {
		return nil, fmt.Errorf("%q: expected %d numbers, got %d", s, want, len(fields))
	}
	out := make([]float64, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// parsePoint parses "x,y,z".
func parsePoint(s string) (math.Vec3, error) {
	v, err := parseNumbers(s, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// parsePlane parses nine numbers, three points in face order, into a plane.
func parsePlane(s, shader string) (*geom.Plane, error) {
	v, err := parseNumbers(s, 9)
	if err != nil {
		return nil, err
	}
	a := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	b := math.Vec3{X: v[3], Y: v[4], Z: v[5]}
	c := math.Vec3{X: v[6], Y: v[7], Z: v[8]}
	return geom.NewPlaneWithShader(a, b, c, shader, false)
}
