package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/brushkit/internal/config"
	"github.com/Faultbox/brushkit/internal/prtview"
	"github.com/Faultbox/brushkit/pkg/geom"
)

// emptyConfig writes an empty config file so tests never see a user config.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brushtool.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}

func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", cfgPath, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestPlaneCommand(t *testing.T) {
	out, err := execute(t, emptyConfig(t), "plane", "0,0,0 1,0,0 0,1,0", "--point", "0,0,5", "-p", "3 4 0")
	require.NoError(t, err)

	assert.Contains(t, out, "normal: ( 0 0 -1 )")
	assert.Contains(t, out, "shader: textures/common/caulk")
	assert.Contains(t, out, "point ( 0 0 5 ): distance -5, on plane false")
	assert.Contains(t, out, "point ( 3 4 0 ): distance 0, on plane true")
	assert.NotContains(t, out, "winding:")

	out, err = execute(t, emptyConfig(t), "plane", "0,0,0 1,0,0 0,1,0", "--winding")
	require.NoError(t, err)
	assert.Contains(t, out, "winding: 4 points")
}

func TestPlaneCommandErrors(t *testing.T) {
	_, err := execute(t, emptyConfig(t), "plane", "0,0,0 1,0,0 2,0,0")
	assert.ErrorIs(t, err, geom.ErrDegeneratePlane)

	_, err = execute(t, emptyConfig(t), "plane", "1,2")
	assert.ErrorContains(t, err, "expected 9 numbers")

	_, err = execute(t, emptyConfig(t), "plane", "0,0,0 1,0,0 0,1,0", "--point", "a,b,c")
	assert.Error(t, err)
}

func TestIntersectCommand(t *testing.T) {
	x1 := "1,0,0 1,1,0 1,0,1"
	y2 := "0,2,0 0,2,1 1,2,0"
	z3 := "0,0,3 1,0,3 0,1,3"

	out, err := execute(t, emptyConfig(t), "intersect", x1, y2, z3)
	require.NoError(t, err)
	assert.Equal(t, "( 1 2 3 )\n", out)

	x2 := "2,0,0 2,1,0 2,0,1"
	_, err = execute(t, emptyConfig(t), "intersect", x1, x2, z3)
	assert.ErrorIs(t, err, geom.ErrNoIntersection)

	_, err = execute(t, emptyConfig(t), "intersect", x1, y2)
	assert.Error(t, err)
}

func TestWindingCommand(t *testing.T) {
	floor := "0,0,0 1,0,0 0,1,0"
	// normal -X through the origin, its back side is x >= 0
	wall := "0,0,0 0,1,0 0,0,1"

	out, err := execute(t, emptyConfig(t), "winding", floor, "--clip", wall)
	require.NoError(t, err)
	assert.Contains(t, out, "winding: 4 points")
	assert.Contains(t, out, "area: 3.4359738368e+10")

	_, err = execute(t, emptyConfig(t), "winding", floor, "--clip", "0,1,-1 1,0,-1 0,0,-1")
	assert.ErrorIs(t, err, geom.ErrWindingClipped)
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "room.yaml")
	doc := `
brushes:
  - name: floor
    shader: textures/base/floor
    box:
      min: [-64, -64, -16]
      max: [64, 64, 0]
  - name: pillar
    detail: true
    box:
      min: [-8, -8, 0]
      max: [8, 8, 128]
`
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0644))

	cfgPath := filepath.Join(dir, "brushtool.yaml")
	cfgText := "brush:\n  detail_shader: textures/common/detail\noutput:\n  precision: 2\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgText), 0644))

	mapPath := filepath.Join(dir, "room.map")
	out, err := execute(t, cfgPath, "build", docPath, "-o", mapPath, "--trim")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(mapPath)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "// entity 0\n{\n\"classname\" \"worldspawn\"\n")
	assert.Contains(t, text, "// brush 0\n")
	assert.Contains(t, text, "// brush 1\n")
	assert.Contains(t, text, " base/floor 0 0 0 0.5 0.5 0 0 0\n")
	assert.Contains(t, text, " common/detail 0 0 0 0.5 0.5 134217728 0 0\n")
	// two brushes of six faces, two separators per face
	assert.Equal(t, 24, bytes.Count(data, []byte(" ) ( ")))

	// stdout when -o is absent
	out, err = execute(t, cfgPath, "build", docPath)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestBuildCommandErrors(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "bad.yaml")
	doc := `
brushes:
  - name: broken
    planes:
      - points: [[0, 0, 0], [1, 0, 0], [2, 0, 0]]
`
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0644))

	_, err := execute(t, emptyConfig(t), "build", docPath)
	assert.ErrorIs(t, err, geom.ErrDegeneratePlane)

	_, err = execute(t, emptyConfig(t), "build", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildCommandRejectsEmptyBrush(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "inverted.yaml")
	doc := "brushes:\n  - box: {min: [16, 16, 16], max: [0, 0, 0]}\n"
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0644))

	mapPath := filepath.Join(dir, "inverted.map")
	_, err := execute(t, emptyConfig(t), "build", docPath, "-o", mapPath)
	assert.ErrorIs(t, err, geom.ErrNoVolume)
	assert.NoFileExists(t, mapPath)

	// the top plane keeps z > 16 and the bottom one z < 0
	doc = `
brushes:
  - planes:
      - points: [[0, 0, 16], [1, 0, 16], [0, 1, 16]]
      - points: [[0, 1, 0], [1, 0, 0], [0, 0, 0]]
      - points: [[16, 1, 0], [16, 0, 0], [16, 0, 1]]
      - points: [[0, 0, 1], [0, 0, 0], [0, 1, 0]]
      - points: [[0, 16, 1], [0, 16, 0], [1, 16, 0]]
      - points: [[1, 0, 0], [0, 0, 0], [0, 0, 1]]
`
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0644))
	_, err = execute(t, emptyConfig(t), "build", docPath)
	assert.ErrorIs(t, err, geom.ErrNoVolume)
}

func TestBuildCommandKeepsOldMapOnFailure(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "box.yaml")
	doc := "brushes:\n  - box:\n      min: [0, 0, 0]\n      max: [8, 8, 8]\n"
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0644))
	mapPath := filepath.Join(dir, "box.map")
	require.NoError(t, os.WriteFile(mapPath, []byte("previous\n"), 0644))

	_, err := execute(t, emptyConfig(t), "build", docPath, "-o", mapPath,
		"--charset", "euc-kr", "--message", "smile 🙂")
	require.Error(t, err)

	data, err := os.ReadFile(mapPath)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp file left behind")

	_, err = execute(t, emptyConfig(t), "build", docPath, "-o", mapPath)
	require.NoError(t, err)
	data, err = os.ReadFile(mapPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"classname\" \"worldspawn\"")
}

func TestPortalsShow(t *testing.T) {
	out, err := execute(t, emptyConfig(t), "portals", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "zbuffer: test-only")
	assert.Contains(t, out, "# 3D Line Width =  2.000")
	assert.Contains(t, out, "# Cubic clip range = 1024")
	assert.Contains(t, out, "# Polygon transparency = 50%")
	assert.Contains(t, out, "# fog  #7f7f7f")
	assert.Contains(t, out, "# 3d   #ffff00")
}

func TestPortalsSet(t *testing.T) {
	cfgPath := emptyConfig(t)

	out, err := execute(t, cfgPath, "portals", "set",
		"--width-3d", "100", "--zbuffer", "off", "--fog", "--lines=false", "--color-fog", "#102030")
	require.NoError(t, err)
	assert.Contains(t, out, "width_3d: 40")

	cfg, err := config.Load(&config.Flags{ConfigPath: cfgPath, Precision: -1})
	require.NoError(t, err)
	assert.Equal(t, float64(prtview.MaxLineWidth), cfg.Portals.Width3D)
	assert.Equal(t, prtview.ZBufferOff, cfg.Portals.ZBuffer)
	assert.True(t, cfg.Portals.Fog)
	assert.False(t, cfg.Portals.Lines)
	assert.Equal(t, prtview.Color{R: 0x10, G: 0x20, B: 0x30}, cfg.Portals.ColorFog)
	// untouched values survive
	assert.Equal(t, 10.0, cfg.Portals.Width2D)
}

func TestPortalsSetRejected(t *testing.T) {
	cfgPath := emptyConfig(t)

	_, err := execute(t, cfgPath, "portals", "set", "--width-2d", "20", "--zbuffer", "sometimes")
	require.Error(t, err)

	_, err = execute(t, cfgPath, "portals", "set", "--color-2d", "blue")
	require.Error(t, err)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Empty(t, data, "rejected changes must not be saved")

	out, err := execute(t, cfgPath, "portals", "set", "--width-2d", "20", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "width_2d: 20")
	data, err = os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestBuildCommandCharset(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "box.yaml")
	doc := "brushes:\n  - box:\n      min: [0, 0, 0]\n      max: [8, 8, 8]\n"
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0644))

	out, err := execute(t, emptyConfig(t), "build", docPath, "--charset", "latin1", "--message", "Zürich")
	require.NoError(t, err)
	assert.Contains(t, out, "\"message\" \"Z\xfcrich\"\n")

	_, err = execute(t, emptyConfig(t), "build", docPath, "--charset", "euc-kr", "--message", "smile 🙂")
	assert.Error(t, err, "emoji has no EUC-KR encoding")

	_, err = execute(t, emptyConfig(t), "build", docPath, "--watch")
	assert.ErrorContains(t, err, "--watch needs --output")
}
