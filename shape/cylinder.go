package shape

import (
	"math"

	"github.com/soypat/drywell/internal/d2"
	"github.com/soypat/drywell/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// cylinder is the exact distance field of a capped cylinder.
type cylinder struct {
	height float64 // half height
	radius float64
	bb     d3.Box
}

func newCylinder(height, radius float64) *cylinder {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if height <= 0 {
		panic("height <= 0")
	}
	d := r3.Vec{X: radius, Y: radius, Z: height / 2}
	return &cylinder{
		height: height / 2,
		radius: radius,
		bb:     d3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to a cylinder.
func (s *cylinder) Evaluate(p r3.Vec) float64 {
	return sdfBox2d(r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}, r2.Vec{X: s.radius, Y: s.height})
}

// Bounds returns the bounding box for a cylinder.
func (s *cylinder) Bounds() d3.Box {
	return s.bb
}

func mustCylinder(height, radius float64) *revolution {
	h := height / 2
	return newRevolution(newCylinder(height, radius), []r2.Vec{
		{X: 0, Y: -h},
		{X: radius, Y: -h},
		{X: radius, Y: h},
		{X: 0, Y: h},
	})
}

func mustTube(height, inner, outer float64) *revolution {
	if inner <= 0 {
		panic("inner radius <= 0")
	}
	if inner >= outer {
		panic("inner radius >= outer radius")
	}
	h := height / 2
	return newRevolution(mustDifference3D(newCylinder(height, outer), newCylinder(height, inner)), []r2.Vec{
		{X: inner, Y: -h},
		{X: outer, Y: -h},
		{X: outer, Y: h},
		{X: inner, Y: h},
	})
}

func sdfBox2d(p, s r2.Vec) float64 {
	p = d2.AbsElem(p)
	d := r2.Sub(p, s)
	k := s.Y - s.X
	if d.X > 0 && d.Y > 0 {
		return r2.Norm(d)
	}
	if p.Y-p.X > k {
		return d.Y
	}
	return d.X
}
