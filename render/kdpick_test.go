package render_test

import (
	"testing"

	"github.com/soypat/drywell/internal/d3"
	"github.com/soypat/drywell/render"
	"github.com/soypat/drywell/shape"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTriangleIndexNearest(t *testing.T) {
	a, _ := shape.Cylinder(1, 1)
	b, _ := shape.Transform3D(a, d3.Translation(r3.Vec{X: 10}))
	ix := render.NewTriangleIndex([][]render.Triangle3{a.Mesh(16), b.Mesh(16)})
	if ix.Len() != 2*len(a.Mesh(16)) {
		t.Fatalf("got %d indexed triangles", ix.Len())
	}
	for _, test := range []struct {
		p    r3.Vec
		want int
	}{
		{p: r3.Vec{X: 1.5}, want: 0},
		{p: r3.Vec{X: 9, Z: 0.5}, want: 1},
		{p: r3.Vec{X: 12, Y: 3}, want: 1},
		{p: r3.Vec{X: -4}, want: 0},
	} {
		got, _, ok := ix.Nearest(test.p)
		if !ok || got != test.want {
			t.Errorf("Nearest(%v) = %d, want %d", test.p, got, test.want)
		}
	}
	if _, _, ok := render.NewTriangleIndex(nil).Nearest(r3.Vec{}); ok {
		t.Error("empty index reported a nearest triangle")
	}
}
