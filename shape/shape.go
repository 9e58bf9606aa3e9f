package shape

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/drywell/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() d3.Box
}

// Shape is an SDF3 that can also produce a surface tessellation
// and the outline of its faces.
type Shape interface {
	SDF3
	// Mesh returns the boundary surface of the shape as outward facing
	// triangles. Curved faces are split into segments around their axis.
	Mesh(segments int) []d3.Triangle
	// Edges returns the line segments that bound the faces of the shape.
	Edges(segments int) []d3.Segment
}

// DefaultSegments is the number of angular divisions used to tessellate
// curved faces when a caller has no preference.
const DefaultSegments = 48

const minSegments = 3

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Cylinder returns a solid cylinder of the given height and radius
// centered at the origin with its axis along Z.
func Cylinder(height, radius float64) (s Shape, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return mustCylinder(height, radius), err
}

// Tube returns a hollow cylinder: a cylinder of radius outer minus a
// coaxial cylinder of radius inner, both of the given height and
// centered at the origin with their axis along Z.
func Tube(height, inner, outer float64) (s Shape, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return mustTube(height, inner, outer), err
}

// Transform3D applies an affine transform to a shape. Distance is not
// preserved when the transform scales non-uniformly.
func Transform3D(s Shape, t d3.Transform) (_ Shape, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return mustTransform3D(s, t), err
}

// ScaleUniform3D scales a shape by k in all directions.
func ScaleUniform3D(s Shape, k float64) (_ Shape, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return mustScaleUniform3D(s, k), err
}

// Union3D returns the union of one or more shapes. The surface of the union
// is the collection of the surfaces of its parts.
func Union3D(shapes ...Shape) (_ Shape, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return mustUnion3D(shapes...), err
}
