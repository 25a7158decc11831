package geom

// BrushSink receives brush faces. It stands in for the editor's brush
// object: planes only ever write to it.
type BrushSink interface {
	AddFace(face FaceData) error
}

// FaceList is an in-memory BrushSink.
type FaceList []FaceData

// AddFace appends face.
func (l *FaceList) AddFace(face FaceData) error {
	*l = append(*l, face)
	return nil
}
