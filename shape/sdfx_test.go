package shape_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	sdfxrender "github.com/deadsy/sdfx/render"
	sdfx "github.com/deadsy/sdfx/sdf"
	"github.com/soypat/drywell/shape"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vertices of a marching cubes mesh of the sdfx cylinder must lie on
// the surface of our cylinder to within a mesh cell.
func TestCylinderAgainstSDFX(t *testing.T) {
	const (
		height, radius = 2.0, 1.0
		meshCells      = 40
		cell           = height / meshCells
	)
	ref, err := sdfx.Cylinder3D(height, radius, 0)
	if err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "sdfx_cylinder.stl")
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)
	sdfxrender.ToSTL(ref, meshCells, output, &sdfxrender.MarchingCubesOctree{})
	os.Stdout = stdout

	vertices := readSTLVertices(t, output)
	if len(vertices) == 0 {
		t.Fatal("sdfx produced no triangles")
	}
	ours, _ := shape.Cylinder(height, radius)
	bb := ours.Bounds()
	for _, v := range vertices {
		if d := ours.Evaluate(v); math.Abs(d) > 2*cell {
			t.Fatalf("sdfx vertex %v is %g away from our cylinder surface", v, d)
		}
		if v.Z < bb.Min.Z-cell || v.Z > bb.Max.Z+cell {
			t.Fatalf("sdfx vertex %v outside our bounds %v", v, bb)
		}
	}
}

func readSTLVertices(t *testing.T, path string) []r3.Vec {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 84 {
		t.Fatalf("STL file too short: %d bytes", len(b))
	}
	count := int(binary.LittleEndian.Uint32(b[80:]))
	b = b[84:]
	if len(b) < 50*count {
		t.Fatalf("STL file truncated: want %d triangles", count)
	}
	f32 := func(b []byte) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	var vertices []r3.Vec
	for i := 0; i < count; i++ {
		tri := b[50*i+12:] // skip normal.
		for k := 0; k < 3; k++ {
			vertices = append(vertices, r3.Vec{X: f32(tri[12*k:]), Y: f32(tri[12*k+4:]), Z: f32(tri[12*k+8:])})
		}
	}
	return vertices
}
