package render

import (
	"io"

	"github.com/soypat/drywell/internal/d3"
	"github.com/soypat/drywell/shape"
)

// Triangle3 is a 3D triangle with counter-clockwise ordered vertices.
type Triangle3 = d3.Triangle

// Renderer streams the triangles of a surface. ReadTriangles fills t and
// returns the number of triangles written and io.EOF once exhausted.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

type shapeRenderer struct {
	s        shape.Shape
	segments int
	buf      *triangle3Buffer
}

// NewShapeRenderer returns a Renderer over the tessellated surface of s.
// Curved faces are split into segments around their axis.
func NewShapeRenderer(s shape.Shape, segments int) Renderer {
	if segments <= 0 {
		segments = shape.DefaultSegments
	}
	return &shapeRenderer{s: s, segments: segments}
}

func (r *shapeRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if r.buf == nil {
		r.buf = &triangle3Buffer{}
		r.buf.Write(r.s.Mesh(r.segments))
	}
	if r.buf.Len() == 0 {
		return 0, io.EOF
	}
	n := r.buf.Read(t)
	if r.buf.Len() == 0 {
		return n, io.EOF
	}
	return n, nil
}

type sliceRenderer struct {
	buf triangle3Buffer
}

// NewSliceRenderer returns a Renderer that streams a copy of model.
func NewSliceRenderer(model []Triangle3) Renderer {
	r := &sliceRenderer{}
	r.buf.Write(model)
	return r
}

func (r *sliceRenderer) ReadTriangles(t []Triangle3) (int, error) {
	n := r.buf.Read(t)
	if r.buf.Len() == 0 {
		return n, io.EOF
	}
	return n, nil
}
