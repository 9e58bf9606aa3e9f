package drywell

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned when a set of parameters does not
	// describe a drywell grid.
	ErrInvalidParams = errors.New("invalid drywell parameters")
	// ErrMissingParameter is returned when a system document lacks one of
	// the required scalar parameters.
	ErrMissingParameter = errors.New("missing drywell parameter")
)

// Foot is the length of an international foot in metres.
const Foot = 0.3048

// Params are the physical dimensions and grid resolution of a drywell
// system. Lengths are in metres, depths are measured down from the surface.
type Params struct {
	WellRadius         float64
	ChamberDepth       float64
	AggregateDepth     float64
	DomainRadius       float64
	DepthToGroundwater float64
	// RadialCells is the number of cells between the well and the domain radius.
	RadialCells int
	// VerticalCellsAggregate is the number of cell rows in the aggregate zone.
	VerticalCellsAggregate int
	// VerticalCellsBelow is the number of cell rows between the aggregate
	// zone and the groundwater table.
	VerticalCellsBelow int
}

// DefaultParams returns the parameters of the reference drywell:
// a 2ft radius well with a 16ft chamber over 24ft of aggregate,
// groundwater at 142ft and a 20m domain.
func DefaultParams() Params {
	return Params{
		WellRadius:             2 * Foot,
		ChamberDepth:           16 * Foot,
		AggregateDepth:         24 * Foot,
		DomainRadius:           20,
		DepthToGroundwater:     142 * Foot,
		RadialCells:            12,
		VerticalCellsAggregate: 12,
		VerticalCellsBelow:     30,
	}
}

// Validate returns an error wrapping ErrInvalidParams if p does not
// describe a drywell grid.
func (p Params) Validate() error {
	lengths := [...]struct {
		name string
		v    float64
	}{
		{"well radius", p.WellRadius},
		{"chamber depth", p.ChamberDepth},
		{"aggregate depth", p.AggregateDepth},
		{"domain radius", p.DomainRadius},
		{"depth to groundwater", p.DepthToGroundwater},
	}
	for _, l := range lengths {
		if !(l.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParams, l.name, l.v)
		}
	}
	switch {
	case p.RadialCells <= 0:
		return fmt.Errorf("%w: radial cell count must be positive, got %d", ErrInvalidParams, p.RadialCells)
	case p.VerticalCellsAggregate <= 0:
		return fmt.Errorf("%w: aggregate cell count must be positive, got %d", ErrInvalidParams, p.VerticalCellsAggregate)
	case p.VerticalCellsBelow <= 0:
		return fmt.Errorf("%w: below-well cell count must be positive, got %d", ErrInvalidParams, p.VerticalCellsBelow)
	case p.DomainRadius <= p.WellRadius:
		return fmt.Errorf("%w: domain radius %g not larger than well radius %g", ErrInvalidParams, p.DomainRadius, p.WellRadius)
	case p.DepthToGroundwater <= p.ChamberDepth+p.AggregateDepth:
		return fmt.Errorf("%w: groundwater at %g is above the bottom of the aggregate at %g", ErrInvalidParams, p.DepthToGroundwater, p.ChamberDepth+p.AggregateDepth)
	}
	return nil
}

// RadialCellSize is the radial width of every cell.
func (p Params) RadialCellSize() float64 {
	return (p.DomainRadius - p.WellRadius) / float64(p.RadialCells)
}

// AggregateCellHeight is the height of a cell in the aggregate zone.
func (p Params) AggregateCellHeight() float64 {
	return p.AggregateDepth / float64(p.VerticalCellsAggregate)
}

// BelowWellThickness is the distance from the bottom of the aggregate
// to the groundwater table.
func (p Params) BelowWellThickness() float64 {
	return p.DepthToGroundwater - (p.ChamberDepth + p.AggregateDepth)
}

// BelowWellCellHeight is the height of a cell in the below-well zone.
func (p Params) BelowWellCellHeight() float64 {
	return p.BelowWellThickness() / float64(p.VerticalCellsBelow)
}

// Zone identifies one of the two cell grids of a drywell.
type Zone int

const (
	// Aggregate is the zone of gravel fill surrounding the well below the chamber.
	Aggregate Zone = iota
	// BelowWell is the native soil between the aggregate and groundwater.
	BelowWell
)

func (z Zone) String() string {
	switch z {
	case Aggregate:
		return "aggregate"
	case BelowWell:
		return "below-well"
	}
	return fmt.Sprintf("Zone(%d)", int(z))
}

// layout returns the cell height, top elevation and row count of zone z.
func (p Params) layout(z Zone) (dz, top float64, rows int) {
	if z == BelowWell {
		return p.BelowWellCellHeight(), -(p.ChamberDepth + p.AggregateDepth), p.VerticalCellsBelow
	}
	return p.AggregateCellHeight(), -p.ChamberDepth, p.VerticalCellsAggregate
}
