// Package mapfile reads brush documents and writes Quake 3 style .map text.
package mapfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	stdmath "math"
	"strconv"
	"strings"
	"unicode"

	"github.com/Faultbox/brushkit/pkg/geom"
	"github.com/Faultbox/brushkit/pkg/math"
)

// Writer state errors.
var (
	ErrNoEntity    = errors.New("brush written outside an entity")
	ErrNoBrush     = errors.New("face written outside a brush")
	ErrNestedBlock = errors.New("block is already open")
	ErrBadKeyValue = errors.New("entity key or value holds a quote or control character")
)

// DefaultPrecision is the number of decimals written for coordinates.
const DefaultPrecision = 6

// shaderPrefix is implied by the format and stripped on output.
const shaderPrefix = "textures/"

// Writer emits entities and brushes in the classic brush format:
//
//	( x y z ) ( x y z ) ( x y z ) shader shiftS shiftT rotate scaleS scaleT contents flags value
//
// Writer implements geom.BrushSink; faces go to the brush opened by BeginBrush.
type Writer struct {
	w         *bufio.Writer
	precision int

	entities int
	brushes  int
	inEntity bool
	inBrush  bool
	err      error
}

// NewWriter returns a Writer writing coordinates with precision decimals.
// A negative precision uses DefaultPrecision.
func NewWriter(out io.Writer, precision int) *Writer {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Writer{w: bufio.NewWriter(out), precision: precision}
}

// BeginEntity opens an entity block with the given key/value pairs.
// Keys are written in the order given; classname should come first.
func (w *Writer) BeginEntity(pairs ...[2]string) error {
	if w.inEntity {
		return fmt.Errorf("entity %d: %w", w.entities, ErrNestedBlock)
	}
	for _, kv := range pairs {
		if !plainText(kv[0]) || !plainText(kv[1]) {
			return fmt.Errorf("entity %d: %q %q: %w", w.entities, kv[0], kv[1], ErrBadKeyValue)
		}
	}
	w.printf("// entity %d\n{\n", w.entities)
	for _, kv := range pairs {
		w.printf("\"%s\" \"%s\"\n", kv[0], kv[1])
	}
	w.inEntity = true
	w.brushes = 0
	return w.err
}

// plainText reports whether s can sit between quotes in a .map file,
// which has no escape syntax.
func plainText(s string) bool {
	for _, r := range s {
		if r == '"' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// EndEntity closes the current entity.
func (w *Writer) EndEntity() error {
	if !w.inEntity {
		return ErrNoEntity
	}
	if w.inBrush {
		if err := w.EndBrush(); err != nil {
			return err
		}
	}
	w.printf("}\n")
	w.inEntity = false
	w.entities++
	return w.err
}

// BeginBrush opens a brush inside the current entity.
func (w *Writer) BeginBrush() error {
	if !w.inEntity {
		return ErrNoEntity
	}
	if w.inBrush {
		return fmt.Errorf("brush %d: %w", w.brushes, ErrNestedBlock)
	}
	w.printf("// brush %d\n{\n", w.brushes)
	w.inBrush = true
	return w.err
}

// EndBrush closes the current brush.
func (w *Writer) EndBrush() error {
	if !w.inBrush {
		return ErrNoBrush
	}
	w.printf("}\n")
	w.inBrush = false
	w.brushes++
	return w.err
}

// AddFace writes one face line to the open brush.
func (w *Writer) AddFace(face geom.FaceData) error {
	if !w.inBrush {
		return ErrNoBrush
	}
	var sb strings.Builder
	for _, p := range face.Points() {
		sb.WriteString(w.point(p))
		sb.WriteByte(' ')
	}
	shader := strings.TrimPrefix(face.Shader, shaderPrefix)
	if shader == "" {
		shader = strings.TrimPrefix(geom.NoDrawShader, shaderPrefix)
	}
	td := face.TexDef
	fmt.Fprintf(&sb, "%s %s %s %s %s %s %d %d %d\n",
		shader,
		w.number(td.Shift.X), w.number(td.Shift.Y),
		w.number(td.Rotate),
		w.number(td.Scale.X), w.number(td.Scale.Y),
		face.Contents, face.Flags, face.Value)

	w.printf("%s", sb.String())
	return w.err
}

// WriteBrush writes b as a complete brush block and returns how many faces
// had their material forced to the no-draw shader.
func (w *Writer) WriteBrush(b *geom.Brush) (int, error) {
	if err := w.BeginBrush(); err != nil {
		return 0, err
	}
	corrected, err := b.Export(w)
	if err != nil {
		return corrected, err
	}
	return corrected, w.EndBrush()
}

// Flush writes buffered output. Open blocks are left open.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *Writer) point(p math.Vec3) string {
	return "( " + w.number(p.X) + " " + w.number(p.Y) + " " + w.number(p.Z) + " )"
}

// number rounds v to the writer precision and drops trailing zeros.
func (w *Writer) number(v float64) string {
	scale := stdmath.Pow(10, float64(w.precision))
	v = stdmath.Round(v*scale) / scale
	if v == 0 {
		// avoid "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
