package shape

import (
	"math"
	"runtime/debug"
	"strconv"

	"github.com/soypat/drywell/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0, s1 SDF3
	bb     d3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
func Difference3D(s0, s1 SDF3) (_ SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return mustDifference3D(s0, s1), err
}

func mustDifference3D(s0, s1 SDF3) *diff3 {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	return &diff3{s0: s0, s1: s1, bb: s0.Bounds()}
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() d3.Box {
	return s.bb
}

// union3 is a union of shapes.
type union3 struct {
	shapes []Shape
	bb     d3.Box
}

func mustUnion3D(shapes ...Shape) *union3 {
	if len(shapes) == 0 {
		panic("union requires at least 1 shape")
	}
	for i, x := range shapes {
		if x == nil {
			panic("nil shape argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	bb := shapes[0].Bounds()
	for _, x := range shapes[1:] {
		bb = bb.Extend(x.Bounds())
	}
	return &union3{shapes: shapes, bb: bb}
}

// Evaluate returns the minimum distance to a union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.shapes[0].Evaluate(p)
	for _, x := range s.shapes[1:] {
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box of a union.
func (s *union3) Bounds() d3.Box {
	return s.bb
}

// Mesh concatenates the meshes of the union's parts. Intersecting
// parts are not trimmed against each other.
func (s *union3) Mesh(segments int) []d3.Triangle {
	var result []d3.Triangle
	for _, x := range s.shapes {
		result = append(result, x.Mesh(segments)...)
	}
	return result
}

// Edges concatenates the edges of the union's parts.
func (s *union3) Edges(segments int) []d3.Segment {
	var result []d3.Segment
	for _, x := range s.shapes {
		result = append(result, x.Edges(segments)...)
	}
	return result
}

// transform3 is a shape placed by an affine transform.
type transform3 struct {
	shape   Shape
	matrix  d3.Transform
	inverse d3.Transform
	// mirror is set when the transform flips handedness and
	// triangle winding must be reversed to keep normals outward.
	mirror bool
	bb     d3.Box
}

func mustTransform3D(s Shape, t d3.Transform) *transform3 {
	if s == nil {
		panic("nil Shape argument")
	}
	det := t.Det()
	if math.Abs(det) < 1e-16 {
		panic("singular transform")
	}
	return &transform3{
		shape:   s,
		matrix:  t,
		inverse: t.Inv(),
		mirror:  det < 0,
		bb:      s.Bounds().Transform(t),
	}
}

// Evaluate returns the minimum distance to a transformed shape.
// Distance is *not* preserved with scaling.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.shape.Evaluate(s.inverse.Transform(p))
}

// Bounds returns the bounding box of a transformed shape.
func (s *transform3) Bounds() d3.Box {
	return s.bb
}

func (s *transform3) Mesh(segments int) []d3.Triangle {
	mesh := s.shape.Mesh(segments)
	for i := range mesh {
		mesh[i] = mesh[i].Transform(s.matrix)
		if s.mirror {
			mesh[i][1], mesh[i][2] = mesh[i][2], mesh[i][1]
		}
	}
	return mesh
}

func (s *transform3) Edges(segments int) []d3.Segment {
	edges := s.shape.Edges(segments)
	for i := range edges {
		edges[i] = edges[i].Transform(s.matrix)
	}
	return edges
}

// scaleUniform3 is a shape scaled uniformly in XYZ directions.
// Unlike transform3 the distance is preserved.
type scaleUniform3 struct {
	shape   Shape
	k, invK float64
	bb      d3.Box
}

func mustScaleUniform3D(s Shape, k float64) *scaleUniform3 {
	if s == nil {
		panic("nil Shape argument")
	}
	if k <= 0 {
		panic("scale factor <= 0")
	}
	bb := s.Bounds()
	return &scaleUniform3{
		shape: s,
		k:     k,
		invK:  1 / k,
		bb:    d3.Box{Min: r3.Scale(k, bb.Min), Max: r3.Scale(k, bb.Max)},
	}
}

// Evaluate returns the minimum distance to a uniformly scaled shape.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	return s.shape.Evaluate(r3.Scale(s.invK, p)) * s.k
}

// Bounds returns the bounding box of a uniformly scaled shape.
func (s *scaleUniform3) Bounds() d3.Box {
	return s.bb
}

func (s *scaleUniform3) Mesh(segments int) []d3.Triangle {
	mesh := s.shape.Mesh(segments)
	for i := range mesh {
		for j := range mesh[i] {
			mesh[i][j] = r3.Scale(s.k, mesh[i][j])
		}
	}
	return mesh
}

func (s *scaleUniform3) Edges(segments int) []d3.Segment {
	edges := s.shape.Edges(segments)
	for i := range edges {
		edges[i][0] = r3.Scale(s.k, edges[i][0])
		edges[i][1] = r3.Scale(s.k, edges[i][1])
	}
	return edges
}
