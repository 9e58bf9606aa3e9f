package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// EqualWithin returns true if both components of a and b differ by at most tol.
func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

func AbsElem(a r2.Vec) r2.Vec {
	return r2.Vec{
		X: math.Abs(a.X),
		Y: math.Abs(a.Y),
	}
}

// Set is a set of points. As a polygon its vertices are taken in order
// and the last vertex connects back to the first.
type Set []r2.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

// Bounds returns the bounding box of a non-empty set.
func (a Set) Bounds() Box {
	return Box{Min: a.Min(), Max: a.Max()}
}

// SignedArea returns the area enclosed by the polygon a. It is positive
// when the vertices are ordered counter-clockwise.
func (a Set) SignedArea() float64 {
	var sum float64
	for i, v := range a {
		w := a[(i+1)%len(a)]
		sum += v.X*w.Y - v.Y*w.X
	}
	return sum / 2
}
