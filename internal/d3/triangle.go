package d3

import "gonum.org/v1/gonum/spatial/r3"

// Triangle is a 3D triangle. Vertices are ordered counter-clockwise
// when looking at the triangle from the side its normal points to.
type Triangle [3]r3.Vec

// Normal returns the unit normal of the triangle.
func (t Triangle) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two of the triangle's vertices
// are within tol of each other.
func (t Triangle) Degenerate(tol float64) bool {
	return EqualWithin(t[0], t[1], tol) ||
		EqualWithin(t[1], t[2], tol) ||
		EqualWithin(t[2], t[0], tol)
}

// Transform returns the triangle with each vertex transformed by m.
func (t Triangle) Transform(m Transform) Triangle {
	return Triangle{m.Transform(t[0]), m.Transform(t[1]), m.Transform(t[2])}
}

// Segment is a 3D line segment.
type Segment [2]r3.Vec

// Transform returns the segment with both ends transformed by m.
func (s Segment) Transform(m Transform) Segment {
	return Segment{m.Transform(s[0]), m.Transform(s[1])}
}

// TrianglesBounds returns the bounding box of a set of triangles.
// It returns the zero Box if no triangles are given.
func TrianglesBounds(ts []Triangle) Box {
	if len(ts) == 0 {
		return Box{}
	}
	bb := Box{Min: ts[0][0], Max: ts[0][0]}
	for _, t := range ts {
		bb = bb.Include(t[0]).Include(t[1]).Include(t[2])
	}
	return bb
}
