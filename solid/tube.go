package solid

import (
	"encoding/json"
	"fmt"

	"github.com/soypat/drywell/shape"
)

// TypeTube is the type tag of Tube documents.
const TypeTube = "Tube"

// Tube is a hollow cylinder with its axis along local Z,
// spanning [-height/2, height/2].
type Tube struct {
	Object
	inner  float64
	outer  float64
	height float64
}

var _ Solid = (*Tube)(nil)

// NewTube returns a tube with default attributes.
func NewTube(inner, outer, height float64) *Tube {
	return &Tube{Object: NewObject(), inner: inner, outer: outer, height: height}
}

func (t *Tube) Type() string         { return TypeTube }
func (t *Tube) InnerRadius() float64 { return t.inner }
func (t *Tube) OuterRadius() float64 { return t.outer }
func (t *Tube) Height() float64      { return t.height }

// SetDimensions sets the radii and height of the tube.
func (t *Tube) SetDimensions(inner, outer, height float64) {
	if inner == t.inner && outer == t.outer && height == t.height {
		return
	}
	t.inner, t.outer, t.height = inner, outer, height
	t.invalidateShape()
}

func (t *Tube) SetInnerRadius(r float64) { t.SetDimensions(r, t.outer, t.height) }
func (t *Tube) SetOuterRadius(r float64) { t.SetDimensions(t.inner, r, t.height) }
func (t *Tube) SetHeight(h float64)      { t.SetDimensions(t.inner, t.outer, h) }

// Shape returns the kernel shape of the tube in world coordinates:
// the outer cylinder minus the coaxial inner cylinder.
func (t *Tube) Shape() (shape.Shape, error) {
	return t.shapeOf(func() (shape.Shape, error) {
		return shape.Tube(t.height, t.inner, t.outer)
	})
}

type tubeDims struct {
	InnerRadius float64 `json:"innerRadius"`
	OuterRadius float64 `json:"outerRadius"`
	Height      float64 `json:"height"`
}

type tubeJSON struct {
	objectJSON
	Tube tubeDims `json:"tube"`
}

func (t *Tube) MarshalJSON() ([]byte, error) {
	return json.Marshal(tubeJSON{
		objectJSON: t.document(TypeTube),
		Tube:       tubeDims{InnerRadius: t.inner, OuterRadius: t.outer, Height: t.height},
	})
}

// UnmarshalJSON decodes a Tube document. Fields absent from the document
// keep their current values. The tube is left untouched if the document
// is not a Tube document.
func (t *Tube) UnmarshalJSON(b []byte) error {
	doc := tubeJSON{
		objectJSON: t.document(""),
		Tube:       tubeDims{InnerRadius: t.inner, OuterRadius: t.outer, Height: t.height},
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc.Type != TypeTube {
		return fmt.Errorf("%w: got %q, want %q", ErrTypeMismatch, doc.Type, TypeTube)
	}
	d := doc.Tube
	if !(d.InnerRadius > 0) || !(d.InnerRadius < d.OuterRadius) || !(d.Height > 0) {
		return fmt.Errorf("%w: tube inner radius %g, outer radius %g, height %g", ErrInvalidDimension, d.InnerRadius, d.OuterRadius, d.Height)
	}
	t.apply(doc.objectJSON)
	t.SetDimensions(d.InnerRadius, d.OuterRadius, d.Height)
	return nil
}
