package shape

import (
	"math"

	"github.com/soypat/drywell/internal/d2"
	"github.com/soypat/drywell/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// revolution is a solid of revolution about the Z axis. Its distance field
// is given by sdf while its surface is the revolved profile polygon.
type revolution struct {
	sdf SDF3
	// profile is a counter-clockwise polygon in the (r, z) half plane, r >= 0.
	profile []r2.Vec
	bb      d3.Box
}

func newRevolution(sdf SDF3, profile []r2.Vec) *revolution {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if len(profile) < 3 {
		panic("profile needs at least 3 vertices")
	}
	poly := d2.Set(profile)
	if poly.SignedArea() <= 0 {
		panic("profile must be counter-clockwise with non-zero area")
	}
	bb := poly.Bounds()
	if bb.Min.X < 0 {
		panic("profile vertex at negative radius")
	}
	rmax := bb.Max.X
	return &revolution{
		sdf:     sdf,
		profile: profile,
		bb: d3.Box{
			Min: r3.Vec{X: -rmax, Y: -rmax, Z: bb.Min.Y},
			Max: r3.Vec{X: rmax, Y: rmax, Z: bb.Max.Y},
		},
	}
}

// Evaluate returns the minimum distance to the solid of revolution.
func (s *revolution) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(p)
}

// Bounds returns the bounding box of the solid of revolution.
func (s *revolution) Bounds() d3.Box {
	return s.bb
}

// Mesh revolves every edge of the profile polygon about Z. Each edge A->B
// sweeps a band of quads split into two triangles; triangles collapsing onto
// the axis are omitted.
func (s *revolution) Mesh(segments int) []d3.Triangle {
	segments = max(segments, minSegments)
	sin, cos := unitCircle(segments)
	n := len(s.profile)
	result := make([]d3.Triangle, 0, 2*n*segments)
	for k := 0; k < n; k++ {
		a := s.profile[k]
		b := s.profile[(k+1)%n]
		if a == b {
			continue
		}
		for i := 0; i < segments; i++ {
			a0 := revolve(a, sin[i], cos[i])
			a1 := revolve(a, sin[i+1], cos[i+1])
			b0 := revolve(b, sin[i], cos[i])
			b1 := revolve(b, sin[i+1], cos[i+1])
			if b.X > 0 {
				result = append(result, d3.Triangle{a0, b1, b0})
			}
			if a.X > 0 {
				result = append(result, d3.Triangle{a0, a1, b1})
			}
		}
	}
	return result
}

// Edges returns the circles swept by profile vertices off the axis.
func (s *revolution) Edges(segments int) []d3.Segment {
	segments = max(segments, minSegments)
	sin, cos := unitCircle(segments)
	var result []d3.Segment
	for _, v := range s.profile {
		if v.X == 0 {
			continue
		}
		for i := 0; i < segments; i++ {
			result = append(result, d3.Segment{
				revolve(v, sin[i], cos[i]),
				revolve(v, sin[i+1], cos[i+1]),
			})
		}
	}
	return result
}

// unitCircle returns sines and cosines of segments+1 equally spaced angles.
// The last angle coincides exactly with the first so the surface closes.
func unitCircle(segments int) (sin, cos []float64) {
	sin = make([]float64, segments+1)
	cos = make([]float64, segments+1)
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		sin[i], cos[i] = math.Sincos(float64(i) * step)
	}
	sin[segments], cos[segments] = sin[0], cos[0]
	return sin, cos
}

func revolve(v r2.Vec, sin, cos float64) r3.Vec {
	return r3.Vec{X: v.X * cos, Y: v.X * sin, Z: v.Y}
}
