package solid

import (
	"encoding/json"
	"fmt"

	"github.com/soypat/drywell/shape"
)

// TypeCylinder is the type tag of Cylinder documents.
const TypeCylinder = "Cylinder"

// Cylinder is a solid cylinder with its axis along local Z,
// spanning [-length/2, length/2].
type Cylinder struct {
	Object
	radius float64
	length float64
}

var _ Solid = (*Cylinder)(nil)

// NewCylinder returns a cylinder with default attributes.
func NewCylinder(radius, length float64) *Cylinder {
	return &Cylinder{Object: NewObject(), radius: radius, length: length}
}

func (c *Cylinder) Type() string    { return TypeCylinder }
func (c *Cylinder) Radius() float64 { return c.radius }
func (c *Cylinder) Length() float64 { return c.length }

func (c *Cylinder) SetRadius(r float64) {
	if r != c.radius {
		c.radius = r
		c.invalidateShape()
	}
}

func (c *Cylinder) SetLength(l float64) {
	if l != c.length {
		c.length = l
		c.invalidateShape()
	}
}

// Shape returns the kernel shape of the cylinder in world coordinates.
func (c *Cylinder) Shape() (shape.Shape, error) {
	return c.shapeOf(func() (shape.Shape, error) {
		return shape.Cylinder(c.length, c.radius)
	})
}

type cylinderDims struct {
	Radius float64 `json:"radius"`
	Length float64 `json:"length"`
}

type cylinderJSON struct {
	objectJSON
	Cylinder cylinderDims `json:"cylinder"`
}

func (c *Cylinder) MarshalJSON() ([]byte, error) {
	return json.Marshal(cylinderJSON{
		objectJSON: c.document(TypeCylinder),
		Cylinder:   cylinderDims{Radius: c.radius, Length: c.length},
	})
}

// UnmarshalJSON decodes a Cylinder document. Fields absent from the
// document keep their current values. The cylinder is left untouched
// if the document is not a Cylinder document.
func (c *Cylinder) UnmarshalJSON(b []byte) error {
	doc := cylinderJSON{
		objectJSON: c.document(""),
		Cylinder:   cylinderDims{Radius: c.radius, Length: c.length},
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc.Type != TypeCylinder {
		return fmt.Errorf("%w: got %q, want %q", ErrTypeMismatch, doc.Type, TypeCylinder)
	}
	if !(doc.Cylinder.Radius > 0) || !(doc.Cylinder.Length > 0) {
		return fmt.Errorf("%w: cylinder radius %g, length %g", ErrInvalidDimension, doc.Cylinder.Radius, doc.Cylinder.Length)
	}
	c.apply(doc.objectJSON)
	c.SetRadius(doc.Cylinder.Radius)
	c.SetLength(doc.Cylinder.Length)
	return nil
}
