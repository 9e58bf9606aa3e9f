package render

import (
	"math"

	"github.com/soypat/drywell/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface = kdTriangles{}
	_ kdtree.Bounder   = kdTriangles{}
)

// TriangleIndex answers nearest-triangle queries over a set of meshes.
// Distances are measured between triangle centroids.
type TriangleIndex struct {
	tree kdtree.Tree
	n    int
}

// NewTriangleIndex builds an index over meshes. Query results refer to
// meshes by their position in the argument slice.
func NewTriangleIndex(meshes [][]Triangle3) *TriangleIndex {
	var mykd kdTriangles
	for owner, mesh := range meshes {
		for _, t := range mesh {
			mykd = append(mykd, kdTriangle{V: t, owner: owner})
		}
	}
	if len(mykd) == 0 {
		return &TriangleIndex{}
	}
	tree := kdtree.New(mykd, true)
	return &TriangleIndex{tree: *tree, n: len(mykd)}
}

// Len returns the number of indexed triangles.
func (ix *TriangleIndex) Len() int { return ix.n }

// Nearest returns the mesh owning the triangle whose centroid is nearest to
// p and the distance to that centroid. ok is false if the index is empty.
func (ix *TriangleIndex) Nearest(p r3.Vec) (mesh int, dist float64, ok bool) {
	if ix.n == 0 {
		return -1, math.Inf(1), false
	}
	got, d2 := ix.tree.Nearest(kdTriangle{V: Triangle3{p, p, p}})
	return got.(kdTriangle).owner, math.Sqrt(d2), true
}

type kdTriangles []kdTriangle

type kdTriangle struct {
	V     Triangle3
	owner int
}

func (k kdTriangles) Index(i int) kdtree.Comparable {
	return k[i]
}

// Len returns the length of the list.
func (k kdTriangles) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdTriangles) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), triangles: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdTriangles) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

func (k kdTriangles) Bounds() *kdtree.Bounding {
	min := d3.Elem(math.MaxFloat64)
	max := d3.Elem(-math.MaxFloat64)
	for _, tri := range k {
		c := kdCentroid(tri)
		min = d3.MinElem(min, c)
		max = d3.MaxElem(max, c)
	}
	return &kdtree.Bounding{
		Min: kdTriangle{V: Triangle3{min, min, min}},
		Max: kdTriangle{V: Triangle3{max, max, max}},
	}
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdTriangle) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdTriangle), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdTriangle) Dims() int {
	return 3
}

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdTriangle) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(kdCentroid(a), kdCentroid(b.(kdTriangle))))
}

// c = a.dim - b.dim
func kdComp(a, b kdTriangle, dim int) (c float64) {
	ac, bc := kdCentroid(a), kdCentroid(b)
	switch dim {
	case 0:
		c = ac.X - bc.X
	case 1:
		c = ac.Y - bc.Y
	case 2:
		c = ac.Z - bc.Z
	}
	return c
}

func kdCentroid(a kdTriangle) r3.Vec {
	v := r3.Add(a.V[0], r3.Add(a.V[1], a.V[2]))
	return r3.Scale(1./3., v)
}

type kdPlane struct {
	dim       int
	triangles kdTriangles
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.triangles[i], p.triangles[j], p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.triangles[i], p.triangles[j] = p.triangles[j], p.triangles[i]
}
func (p kdPlane) Len() int {
	return len(p.triangles)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.triangles = p.triangles[start:end]
	return p
}
