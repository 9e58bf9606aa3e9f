// Package drywell generates the cell grid of a drywell stormwater
// infiltration system: concentric rings of tube cells around a cylindrical
// well, split into an aggregate zone and a below-well zone, plus the three
// cylinders of the well shaft.
package drywell

import (
	"image/color"

	"github.com/soypat/drywell/scene"
	"github.com/soypat/drywell/solid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// System owns the cells and well cylinders generated from a set of Params
// until they are exported to a scene.Set. A System is not safe for
// concurrent use.
type System struct {
	params Params
	log    *zap.Logger

	// Cell (i,j) of a zone is stored at flat index i*rows+j.
	tubes      []*solid.Tube
	belowTubes []*solid.Tube

	chamber       *solid.Cylinder
	aggregateWell *solid.Cylinder
	belowWell     *solid.Cylinder
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger of the system.
func WithLogger(l *zap.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a system with nothing generated.
func New(p Params, opts ...Option) (*System, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &System{params: p, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Params returns the parameters the system generates from.
func (s *System) Params() Params { return s.params }

// GenerateAll generates both zones and the well cylinders.
func (s *System) GenerateAll() {
	s.GenerateAggregateZone()
	s.GenerateBelowWellZone()
	s.GenerateWellCylinders()
}

// GenerateAggregateZone replaces the aggregate zone cells.
// The below-well zone and the cylinders are left as they are.
func (s *System) GenerateAggregateZone() {
	s.ClearAggregateZone()
	s.tubes = s.generateZone(Aggregate)
	s.log.Debug("generated zone", zap.Stringer("zone", Aggregate), zap.Int("cells", len(s.tubes)))
}

// GenerateBelowWellZone replaces the below-well zone cells.
// The aggregate zone and the cylinders are left as they are.
func (s *System) GenerateBelowWellZone() {
	s.ClearBelowWellZone()
	s.belowTubes = s.generateZone(BelowWell)
	s.log.Debug("generated zone", zap.Stringer("zone", BelowWell), zap.Int("cells", len(s.belowTubes)))
}

func (s *System) generateZone(z Zone) []*solid.Tube {
	p := s.params
	_, _, rows := p.layout(z)
	cells := make([]*solid.Tube, 0, p.RadialCells*rows)
	for i := 0; i < p.RadialCells; i++ {
		for j := 0; j < rows; j++ {
			cells = append(cells, s.newCell(z, i, j))
		}
	}
	return cells
}

func (s *System) newCell(z Zone, i, j int) *solid.Tube {
	p := s.params
	dr := p.RadialCellSize()
	dz, top, rows := p.layout(z)
	inner := p.WellRadius + float64(i)*dr
	outer := p.WellRadius + float64(i+1)*dr
	t := solid.NewTube(inner, outer, dz)
	t.SetPosition(r3.Vec{Z: top - float64(j)*dz - dz/2})
	t.SetDiffuseColor(CellColor(z, i, p.RadialCells, j, rows))
	t.SetOpacity(cellOpacity)
	t.SetShowEdges(true)
	return t
}

// GenerateWellCylinders replaces the three cylinders of the well shaft:
// the empty chamber, the well through the aggregate and the well below it.
func (s *System) GenerateWellCylinders() {
	s.ClearWellCylinders()
	p := s.params
	bottom := -(p.ChamberDepth + p.AggregateDepth)
	s.chamber = s.newShaft(0, -p.ChamberDepth, ChamberColor, chamberOpacity)
	s.aggregateWell = s.newShaft(-p.ChamberDepth, bottom,
		hsv(aggregateShaftHue, aggregateShaftSat, aggregateShaftVal), wellShaftOpacity)
	s.belowWell = s.newShaft(bottom, -p.DepthToGroundwater,
		hsv(belowWellShaftHue, belowWellShaftSat, belowWellShaftVal), wellShaftOpacity)
	s.log.Debug("generated well cylinders")
}

// newShaft returns a well radius cylinder spanning [bottom, top].
func (s *System) newShaft(top, bottom float64, c color.NRGBA, opacity float64) *solid.Cylinder {
	cyl := solid.NewCylinder(s.params.WellRadius, top-bottom)
	cyl.SetPosition(r3.Vec{Z: (top + bottom) / 2})
	cyl.SetDiffuseColor(c)
	cyl.SetOpacity(opacity)
	cyl.SetShowEdges(true)
	return cyl
}

// ClearAggregateZone disposes the aggregate zone cells.
func (s *System) ClearAggregateZone() {
	disposeAll(s.tubes)
	s.tubes = nil
}

// ClearBelowWellZone disposes the below-well zone cells.
func (s *System) ClearBelowWellZone() {
	disposeAll(s.belowTubes)
	s.belowTubes = nil
}

// ClearWellCylinders disposes the well cylinders.
func (s *System) ClearWellCylinders() {
	for _, c := range s.WellCylinders() {
		c.Dispose()
	}
	s.chamber, s.aggregateWell, s.belowWell = nil, nil, nil
}

// Clear disposes everything the system owns.
func (s *System) Clear() {
	s.ClearAggregateZone()
	s.ClearBelowWellZone()
	s.ClearWellCylinders()
}

func disposeAll(ts []*solid.Tube) {
	for _, t := range ts {
		t.Dispose()
	}
}

// Tube returns aggregate cell (i, j) or nil if there is none.
func (s *System) Tube(i, j int) *solid.Tube {
	return cellAt(s.tubes, i, j, s.params.RadialCells, s.params.VerticalCellsAggregate)
}

// BelowWellTube returns below-well cell (i, j) or nil if there is none.
func (s *System) BelowWellTube(i, j int) *solid.Tube {
	return cellAt(s.belowTubes, i, j, s.params.RadialCells, s.params.VerticalCellsBelow)
}

func cellAt(cells []*solid.Tube, i, j, nr, nz int) *solid.Tube {
	if i < 0 || i >= nr || j < 0 || j >= nz {
		return nil
	}
	idx := i*nz + j
	if idx >= len(cells) {
		return nil
	}
	return cells[idx]
}

// Tubes returns the aggregate zone cells in flat index order.
func (s *System) Tubes() []*solid.Tube { return s.tubes }

// BelowWellTubes returns the below-well zone cells in flat index order.
func (s *System) BelowWellTubes() []*solid.Tube { return s.belowTubes }

// WellCylinders returns the generated well cylinders from the surface down.
func (s *System) WellCylinders() []*solid.Cylinder {
	var cyls []*solid.Cylinder
	for _, c := range [...]*solid.Cylinder{s.chamber, s.aggregateWell, s.belowWell} {
		if c != nil {
			cyls = append(cyls, c)
		}
	}
	return cyls
}

// TubeCount returns the number of cells in both zones.
func (s *System) TubeCount() int { return len(s.tubes) + len(s.belowTubes) }

// ExportTo moves every cylinder and cell into set under names that
// encode their zone and indices. The system no longer owns them
// afterwards. A nil set is a no-op.
func (s *System) ExportTo(set *scene.Set) {
	if set == nil {
		return
	}
	set.Add(NameChamber, solidOrNil(s.chamber))
	set.Add(NameAggregateWell, solidOrNil(s.aggregateWell))
	set.Add(NameBelowWell, solidOrNil(s.belowWell))
	exportZone(set, Aggregate, s.tubes, s.params.VerticalCellsAggregate)
	exportZone(set, BelowWell, s.belowTubes, s.params.VerticalCellsBelow)
	n := s.TubeCount() + len(s.WellCylinders())
	s.tubes, s.belowTubes = nil, nil
	s.chamber, s.aggregateWell, s.belowWell = nil, nil, nil
	s.log.Debug("exported system", zap.Int("objects", n), zap.Int("setSize", set.Len()))
}

func exportZone(set *scene.Set, z Zone, cells []*solid.Tube, rows int) {
	for idx, t := range cells {
		set.Add(TubeName(z, idx/rows, idx%rows), t)
	}
}

// solidOrNil avoids storing a typed nil pointer in a solid.Solid.
func solidOrNil(c *solid.Cylinder) solid.Solid {
	if c == nil {
		return nil
	}
	return c
}

// ObjectSet returns a new set holding everything the system generated.
// The system is left empty.
func (s *System) ObjectSet(opts ...scene.Option) *scene.Set {
	set := scene.New(opts...)
	s.ExportTo(set)
	return set
}

// DisplayInContext displays the well cylinders, then the aggregate cells,
// then the below-well cells. It returns the first display error.
func (s *System) DisplayInContext(ctx solid.Context) error {
	if ctx == nil {
		return nil
	}
	var first error
	s.each(func(obj solid.Solid) {
		if err := solid.DisplayIn(ctx, obj); err != nil && first == nil {
			first = err
		}
	})
	return first
}

// EraseFromContext erases everything the system owns from ctx.
func (s *System) EraseFromContext(ctx solid.Context) {
	if ctx == nil {
		return
	}
	s.each(func(obj solid.Solid) { solid.EraseFrom(ctx, obj) })
}

func (s *System) each(fn func(solid.Solid)) {
	for _, c := range s.WellCylinders() {
		fn(c)
	}
	for _, t := range s.tubes {
		fn(t)
	}
	for _, t := range s.belowTubes {
		fn(t)
	}
}
