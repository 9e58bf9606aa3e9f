package shape_test

import (
	"math"
	"testing"

	"github.com/soypat/drywell/internal/d3"
	"github.com/soypat/drywell/shape"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestCylinderEvaluate(t *testing.T) {
	cyl, err := shape.Cylinder(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		p    r3.Vec
		want float64
	}{
		{p: r3.Vec{}, want: -1},
		{p: r3.Vec{X: 2}, want: 1},
		{p: r3.Vec{Z: 3}, want: 1},
		{p: r3.Vec{Y: 0.5, Z: 1.9}, want: -0.1},
		{p: r3.Vec{X: 4, Z: 6}, want: 5},
	} {
		got := cyl.Evaluate(test.p)
		if math.Abs(got-test.want) > tol {
			t.Errorf("Evaluate(%v) = %g, want %g", test.p, got, test.want)
		}
	}
	want := d3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -2}, Max: r3.Vec{X: 1, Y: 1, Z: 2}}
	if !cyl.Bounds().Equals(want, tol) {
		t.Errorf("got bounds %v, want %v", cyl.Bounds(), want)
	}
}

func TestTubeEvaluate(t *testing.T) {
	tube, err := shape.Tube(2, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		p      r3.Vec
		inside bool
	}{
		{p: r3.Vec{}, inside: false}, // bore
		{p: r3.Vec{X: 0.75}, inside: true},
		{p: r3.Vec{Y: -0.75, Z: 0.9}, inside: true},
		{p: r3.Vec{X: 0.75, Z: 1.1}, inside: false},
		{p: r3.Vec{X: 1.2}, inside: false},
	} {
		got := tube.Evaluate(test.p) < 0
		if got != test.inside {
			t.Errorf("point %v inside=%v, want %v", test.p, got, test.inside)
		}
	}
	if d := tube.Evaluate(r3.Vec{}); math.Abs(d-0.5) > tol {
		t.Errorf("distance from axis to bore: got %g, want 0.5", d)
	}
}

func TestShapeErrors(t *testing.T) {
	for name, fn := range map[string]func() error{
		"negative height":  func() error { _, err := shape.Cylinder(-1, 1); return err },
		"zero radius":      func() error { _, err := shape.Cylinder(1, 0); return err },
		"inner >= outer":   func() error { _, err := shape.Tube(1, 2, 1); return err },
		"zero inner":       func() error { _, err := shape.Tube(1, 0, 1); return err },
		"zero tube height": func() error { _, err := shape.Tube(0, 0.5, 1); return err },
		"empty union":      func() error { _, err := shape.Union3D(); return err },
		"nil difference":   func() error { _, err := shape.Difference3D(nil, nil); return err },
		"zero scale": func() error {
			cyl, _ := shape.Cylinder(1, 1)
			_, err := shape.ScaleUniform3D(cyl, 0)
			return err
		},
		"singular transform": func() error {
			cyl, _ := shape.Cylinder(1, 1)
			_, err := shape.Transform3D(cyl, d3.Scaling(r3.Vec{X: 1, Y: 0, Z: 1}))
			return err
		},
	} {
		if fn() == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestMeshVolume(t *testing.T) {
	const segments = 48
	polyArea := float64(segments) / 2 * math.Sin(2*math.Pi/segments) // unit radius polygon area.
	cyl, _ := shape.Cylinder(3, 2)
	tube, _ := shape.Tube(2, 0.5, 1)
	moved, _ := shape.Transform3D(cyl, d3.Translation(r3.Vec{X: 5, Y: -3, Z: 7}))
	mirrored, _ := shape.Transform3D(tube, d3.Scaling(r3.Vec{X: -1, Y: 1, Z: 1}))
	scaled, _ := shape.ScaleUniform3D(tube, 2)
	union, _ := shape.Union3D(cyl, moved)
	for _, test := range []struct {
		name string
		s    shape.Shape
		want float64
	}{
		{name: "cylinder", s: cyl, want: 3 * 4 * polyArea},
		{name: "tube", s: tube, want: 2 * (1 - 0.25) * polyArea},
		{name: "translated", s: moved, want: 3 * 4 * polyArea},
		{name: "mirrored", s: mirrored, want: 2 * (1 - 0.25) * polyArea},
		{name: "scaled", s: scaled, want: 8 * 2 * (1 - 0.25) * polyArea},
		{name: "union", s: union, want: 2 * 3 * 4 * polyArea},
	} {
		got := meshVolume(test.s.Mesh(segments))
		if math.Abs(got-test.want) > 1e-9*test.want {
			t.Errorf("%s: mesh volume %g, want %g", test.name, got, test.want)
		}
	}
}

func TestMeshNormalsOutward(t *testing.T) {
	const eps = 0.02
	tube, _ := shape.Tube(2, 0.5, 1)
	rotated, _ := shape.Transform3D(tube, d3.ComposeTransform(r3.Vec{Z: 1}, d3.Elem(1), d3.EulerRotation(r3.Vec{X: 30, Y: 45})))
	for _, s := range []shape.Shape{tube, rotated} {
		for i, tri := range s.Mesh(shape.DefaultSegments) {
			c := r3.Scale(1./3, r3.Add(tri[0], r3.Add(tri[1], tri[2])))
			n := tri.Normal()
			if s.Evaluate(r3.Add(c, r3.Scale(eps, n))) <= 0 {
				t.Fatalf("triangle %d normal %v points inward at %v", i, n, c)
			}
			if s.Evaluate(r3.Sub(c, r3.Scale(eps, n))) >= 0 {
				t.Fatalf("triangle %d: point behind %v is not inside", i, c)
			}
		}
	}
}

func TestEdges(t *testing.T) {
	const segments = 16
	cyl, _ := shape.Cylinder(2, 1)
	tube, _ := shape.Tube(2, 0.5, 1)
	if got := len(cyl.Edges(segments)); got != 2*segments {
		t.Errorf("cylinder edges: got %d, want %d", got, 2*segments)
	}
	if got := len(tube.Edges(segments)); got != 4*segments {
		t.Errorf("tube edges: got %d, want %d", got, 4*segments)
	}
	for _, e := range tube.Edges(segments) {
		for _, v := range e {
			r := math.Hypot(v.X, v.Y)
			if math.Abs(r-0.5) > tol && math.Abs(r-1) > tol {
				t.Fatalf("edge vertex %v not on a face boundary circle", v)
			}
			if math.Abs(math.Abs(v.Z)-1) > tol {
				t.Fatalf("edge vertex %v not on a cap", v)
			}
		}
	}
}

func TestMinimumSegments(t *testing.T) {
	cyl, _ := shape.Cylinder(2, 1)
	// Caps give one triangle per segment, the side gives two.
	if got := len(cyl.Mesh(0)); got != 3*4 {
		t.Errorf("got %d triangles, want %d", got, 3*4)
	}
}

func TestUnion(t *testing.T) {
	a, _ := shape.Cylinder(2, 1)
	b, _ := shape.Transform3D(a, d3.Translation(r3.Vec{X: 3}))
	u, err := shape.Union3D(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := d3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 4, Y: 1, Z: 1}}
	if !u.Bounds().Equals(want, tol) {
		t.Errorf("got bounds %v, want %v", u.Bounds(), want)
	}
	if d := u.Evaluate(r3.Vec{X: 3}); math.Abs(d+1) > tol {
		t.Errorf("got %g inside translated part, want -1", d)
	}
	if len(u.Mesh(8)) != len(a.Mesh(8))+len(b.Mesh(8)) {
		t.Error("union mesh is not the concatenation of its parts")
	}
}

// meshVolume computes the enclosed volume of a closed mesh
// with the divergence theorem.
func meshVolume(mesh []d3.Triangle) (vol float64) {
	for _, t := range mesh {
		vol += r3.Dot(t[0], r3.Cross(t[1], t[2])) / 6
	}
	return vol
}
