package drywell

import (
	"math"

	"github.com/soypat/drywell/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// CellAt returns the zone and indices of the cell containing the point at
// radius r from the well axis and elevation z. Cells include their top
// and inner faces; points on the outer domain boundary or the groundwater
// table belong to the last cell. ok is false for points outside the grid.
func (p Params) CellAt(r, z float64) (zone Zone, i, j int, ok bool) {
	if !p.domain().Contains(r2.Vec{X: r, Y: z}) {
		return 0, 0, 0, false
	}
	i = index((r-p.WellRadius)/p.RadialCellSize(), p.RadialCells)
	zone = Aggregate
	if z < -(p.ChamberDepth + p.AggregateDepth) {
		zone = BelowWell
	}
	dz, top, rows := p.layout(zone)
	j = index((top-z)/dz, rows)
	return zone, i, j, true
}

// domain is the radius/elevation extent of the grid.
func (p Params) domain() d2.Box {
	return d2.Box{
		Min: r2.Vec{X: p.WellRadius, Y: -p.DepthToGroundwater},
		Max: r2.Vec{X: p.DomainRadius, Y: -p.ChamberDepth},
	}
}

// CellAt locates a point in the grid of the system's parameters.
func (s *System) CellAt(r, z float64) (zone Zone, i, j int, ok bool) {
	return s.params.CellAt(r, z)
}

func index(x float64, n int) int {
	k := int(math.Floor(x))
	if k < 0 {
		return 0
	}
	if k >= n {
		return n - 1
	}
	return k
}
