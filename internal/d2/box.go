package d2

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// Equals test the equality of 2d boxes.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Contains checks if the 2d box contains the given vector (considering bounds as inside).
func (a Box) Contains(v r2.Vec) bool {
	return a.Min.X <= v.X && a.Min.Y <= v.Y &&
		v.X <= a.Max.X && v.Y <= a.Max.Y
}
