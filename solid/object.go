package solid

import (
	"image/color"
	"math"

	"github.com/soypat/drywell/internal/d3"
	"github.com/soypat/drywell/shape"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default material and edge attributes of a new Object.
var (
	DefaultDiffuse   = color.NRGBA{R: 102, G: 84, B: 35, A: 255}
	DefaultAmbient   = color.NRGBA{R: 68, G: 51, B: 17, A: 255}
	DefaultSpecular  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	DefaultEdgeColor = color.NRGBA{A: 255}
)

const (
	DefaultShininess = 50
	DefaultEdgeWidth = 1
)

// Object holds the placement, material and edge display attributes shared
// by every solid variant. Variants embed it.
//
// Changes to placement bump the shape version. Changes to material,
// visibility or edges bump the attribute version only, the kernel shape
// is left untouched.
type Object struct {
	position r3.Vec
	rotation r3.Vec // degrees about X, Y and Z
	scale    r3.Vec

	diffuse   color.NRGBA
	ambient   color.NRGBA
	specular  color.NRGBA
	shininess float64
	opacity   float64
	visible   bool

	showEdges bool
	edgeColor color.NRGBA
	edgeWidth float64

	shapeVersion uint64
	attrVersion  uint64
	disposed     bool

	// base is the variant's shape with any non-uniform scale applied.
	base shape.Shape
	// placed is base with uniform scale, rotation and translation applied.
	placed shape.Shape
}

// NewObject returns an Object with default attributes.
func NewObject() Object {
	return Object{
		scale:     d3.Elem(1),
		diffuse:   DefaultDiffuse,
		ambient:   DefaultAmbient,
		specular:  DefaultSpecular,
		shininess: DefaultShininess,
		opacity:   1,
		visible:   true,
		edgeColor: DefaultEdgeColor,
		edgeWidth: DefaultEdgeWidth,
	}
}

// Base returns the receiver. It lets code holding a Solid reach
// the shared attributes.
func (o *Object) Base() *Object { return o }

func (o *Object) Position() r3.Vec { return o.position }

// Rotation returns the rotation angles in degrees about X, Y and Z.
func (o *Object) Rotation() r3.Vec { return o.rotation }
func (o *Object) Scale() r3.Vec    { return o.scale }

func (o *Object) DiffuseColor() color.NRGBA  { return o.diffuse }
func (o *Object) AmbientColor() color.NRGBA  { return o.ambient }
func (o *Object) SpecularColor() color.NRGBA { return o.specular }
func (o *Object) Shininess() float64         { return o.shininess }
func (o *Object) Opacity() float64           { return o.opacity }
func (o *Object) Visible() bool              { return o.visible }
func (o *Object) ShowEdges() bool            { return o.showEdges }
func (o *Object) EdgeColor() color.NRGBA     { return o.edgeColor }
func (o *Object) EdgeWidth() float64         { return o.edgeWidth }

// ShapeVersion is incremented every time the geometry of the object changes.
func (o *Object) ShapeVersion() uint64 { return o.shapeVersion }

// AttrVersion is incremented every time a display attribute changes.
func (o *Object) AttrVersion() uint64 { return o.attrVersion }

func (o *Object) SetPosition(p r3.Vec) {
	if p == o.position {
		return
	}
	o.position = p
	o.invalidatePlacement()
}

// SetRotation sets the rotation in degrees about the X, Y and Z axes.
// X is applied first, then Y, then Z.
func (o *Object) SetRotation(degrees r3.Vec) {
	if degrees == o.rotation {
		return
	}
	o.rotation = degrees
	o.invalidatePlacement()
}

// SetScale sets the scale factor along each axis. Switching between
// uniform scales only re-places the shape, any other change rebuilds it.
func (o *Object) SetScale(s r3.Vec) {
	if s == o.scale {
		return
	}
	wasUniform := positiveUniform(o.scale)
	o.scale = s
	if wasUniform && positiveUniform(s) {
		o.invalidatePlacement()
		return
	}
	o.invalidateShape()
}

// SetUniformScale sets the scale factor of all axes to k.
func (o *Object) SetUniformScale(k float64) { o.SetScale(d3.Elem(k)) }

func (o *Object) SetDiffuseColor(c color.NRGBA) {
	o.diffuse = c
	o.attrVersion++
}

func (o *Object) SetAmbientColor(c color.NRGBA) {
	o.ambient = c
	o.attrVersion++
}

func (o *Object) SetSpecularColor(c color.NRGBA) {
	o.specular = c
	o.attrVersion++
}

func (o *Object) SetShininess(s float64) {
	o.shininess = s
	o.attrVersion++
}

// SetOpacity sets the opacity, clamped to [0, 1].
func (o *Object) SetOpacity(a float64) {
	o.opacity = clamp(a, 0, 1)
	o.attrVersion++
}

func (o *Object) SetVisible(v bool) {
	o.visible = v
	o.attrVersion++
}

func (o *Object) SetShowEdges(show bool) {
	o.showEdges = show
	o.attrVersion++
}

func (o *Object) SetEdgeColor(c color.NRGBA) {
	o.edgeColor = c
	o.attrVersion++
}

func (o *Object) SetEdgeWidth(w float64) {
	o.edgeWidth = w
	o.attrVersion++
}

// Dispose releases the cached kernel shape and marks the object
// as destroyed. A disposed object can no longer produce a shape.
func (o *Object) Dispose() {
	o.disposed = true
	o.base = nil
	o.placed = nil
}

// Disposed reports whether Dispose has been called.
func (o *Object) Disposed() bool { return o.disposed }

// Placement returns the transform taking the variant's local
// coordinates to world coordinates.
func (o *Object) Placement() d3.Transform {
	return d3.ComposeTransform(o.position, o.scale, d3.EulerRotation(o.rotation))
}

func (o *Object) invalidatePlacement() {
	o.placed = nil
	o.shapeVersion++
}

// invalidateShape is called by variants when their dimensions change.
func (o *Object) invalidateShape() {
	o.base = nil
	o.placed = nil
	o.shapeVersion++
}

// shapeOf returns the placed shape, building the parts that were
// invalidated since the last call. build constructs the variant's
// shape in local coordinates.
func (o *Object) shapeOf(build func() (shape.Shape, error)) (shape.Shape, error) {
	if o.disposed {
		return nil, ErrDisposed
	}
	if o.placed != nil {
		return o.placed, nil
	}
	if o.base == nil {
		s, err := build()
		if err != nil {
			return nil, err
		}
		if !positiveUniform(o.scale) {
			s, err = shape.Transform3D(s, d3.Scaling(o.scale))
			if err != nil {
				return nil, err
			}
		}
		o.base = s
	}
	s := o.base
	var err error
	if positiveUniform(o.scale) && o.scale.X != 1 {
		s, err = shape.ScaleUniform3D(s, o.scale.X)
		if err != nil {
			return nil, err
		}
	}
	rigid := d3.ComposeTransform(o.position, d3.Elem(1), d3.EulerRotation(o.rotation))
	if !rigid.IsIdentity() {
		s, err = shape.Transform3D(s, rigid)
		if err != nil {
			return nil, err
		}
	}
	o.placed = s
	return s, nil
}

// positiveUniform reports whether scale s can be applied by uniform scaling
// of the placed shape. Mirrors and zero scales go through the base transform.
func positiveUniform(s r3.Vec) bool {
	return d3.IsUniform(s) && s.X > 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
