package drywell

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/soypat/drywell/solid"
	"go.uber.org/zap"
)

// systemJSON is the system document. Cell sizes are derived from the
// parameters and only written for human readers.
type systemJSON struct {
	WellRadius                float64       `json:"wellRadius"`
	ChamberDepth              float64       `json:"chamberDepth"`
	AggregateDepth            float64       `json:"aggregateDepth"`
	DomainRadius              float64       `json:"domainRadius"`
	DepthToGroundwater        float64       `json:"depthToGroundwater"`
	NR                        int           `json:"nr"`
	NZW                       int           `json:"nz_w"`
	NZG                       int           `json:"nz_g"`
	RadialCellSize            float64       `json:"radialCellSize"`
	VerticalCellSize          float64       `json:"verticalCellSize"`
	BelowWellVerticalCellSize float64       `json:"belowWellVerticalCellSize"`
	TubeCount                 int           `json:"tubeCount"`
	Tubes                     []*solid.Tube `json:"tubes"`
	BelowWellTubes            []*solid.Tube `json:"belowWellTubes"`
}

// MarshalJSON returns the system document: the parameters and every cell
// of both zones in flat index order.
func (s *System) MarshalJSON() ([]byte, error) {
	p := s.params
	tubes := s.tubes
	if tubes == nil {
		tubes = []*solid.Tube{}
	}
	below := s.belowTubes
	if below == nil {
		below = []*solid.Tube{}
	}
	return json.Marshal(systemJSON{
		WellRadius:                p.WellRadius,
		ChamberDepth:              p.ChamberDepth,
		AggregateDepth:            p.AggregateDepth,
		DomainRadius:              p.DomainRadius,
		DepthToGroundwater:        p.DepthToGroundwater,
		NR:                        p.RadialCells,
		NZW:                       p.VerticalCellsAggregate,
		NZG:                       p.VerticalCellsBelow,
		RadialCellSize:            p.RadialCellSize(),
		VerticalCellSize:          p.AggregateCellHeight(),
		BelowWellVerticalCellSize: p.BelowWellCellHeight(),
		TubeCount:                 s.TubeCount(),
		Tubes:                     tubes,
		BelowWellTubes:            below,
	})
}

// UnmarshalJSON replaces the state of the system with a system document.
// All eight parameters are required. Cell entries that fail to decode are
// skipped. The well cylinders are regenerated from the loaded parameters.
// On error the system is left untouched.
func (s *System) UnmarshalJSON(b []byte) error {
	if s.log == nil {
		s.log = zap.NewNop()
	}
	var doc struct {
		WellRadius         *float64          `json:"wellRadius"`
		ChamberDepth       *float64          `json:"chamberDepth"`
		AggregateDepth     *float64          `json:"aggregateDepth"`
		DomainRadius       *float64          `json:"domainRadius"`
		DepthToGroundwater *float64          `json:"depthToGroundwater"`
		NR                 *int              `json:"nr"`
		NZW                *int              `json:"nz_w"`
		NZG                *int              `json:"nz_g"`
		Tubes              []json.RawMessage `json:"tubes"`
		BelowWellTubes     []json.RawMessage `json:"belowWellTubes"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("decode drywell system: %w", err)
	}
	floats := [...]struct {
		key string
		v   *float64
	}{
		{"wellRadius", doc.WellRadius},
		{"chamberDepth", doc.ChamberDepth},
		{"aggregateDepth", doc.AggregateDepth},
		{"domainRadius", doc.DomainRadius},
		{"depthToGroundwater", doc.DepthToGroundwater},
	}
	for _, f := range floats {
		if f.v == nil {
			return fmt.Errorf("%w: %q", ErrMissingParameter, f.key)
		}
	}
	ints := [...]struct {
		key string
		v   *int
	}{{"nr", doc.NR}, {"nz_w", doc.NZW}, {"nz_g", doc.NZG}}
	for _, f := range ints {
		if f.v == nil {
			return fmt.Errorf("%w: %q", ErrMissingParameter, f.key)
		}
	}
	p := Params{
		WellRadius:             *doc.WellRadius,
		ChamberDepth:           *doc.ChamberDepth,
		AggregateDepth:         *doc.AggregateDepth,
		DomainRadius:           *doc.DomainRadius,
		DepthToGroundwater:     *doc.DepthToGroundwater,
		RadialCells:            *doc.NR,
		VerticalCellsAggregate: *doc.NZW,
		VerticalCellsBelow:     *doc.NZG,
	}
	if err := p.Validate(); err != nil {
		return err
	}
	tubes := s.decodeCells(p, Aggregate, doc.Tubes)
	below := s.decodeCells(p, BelowWell, doc.BelowWellTubes)

	s.Clear()
	s.params = p
	s.tubes = tubes
	s.belowTubes = below
	s.GenerateWellCylinders()
	s.log.Debug("loaded drywell system", zap.Int("cells", s.TubeCount()),
		zap.Int("skipped", len(doc.Tubes)+len(doc.BelowWellTubes)-s.TubeCount()))
	return nil
}

// decodeCells decodes the cells of zone z. Entries past the number of
// cells the zone holds under p are dropped.
func (s *System) decodeCells(p Params, z Zone, raws []json.RawMessage) []*solid.Tube {
	_, _, rows := p.layout(z)
	if n := p.RadialCells * rows; len(raws) > n {
		s.log.Debug("skipping surplus cells", zap.Stringer("zone", z), zap.Int("count", len(raws)-n))
		raws = raws[:n]
	}
	cells := make([]*solid.Tube, 0, len(raws))
	for idx, raw := range raws {
		t := solid.NewTube(1, 2, 1)
		if err := t.UnmarshalJSON(raw); err != nil {
			s.log.Debug("skipping cell", zap.Stringer("zone", z), zap.Int("index", idx), zap.Error(err))
			continue
		}
		cells = append(cells, t)
	}
	return cells
}

// SaveFile writes the system document to path.
func (s *System) SaveFile(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("save drywell system: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("save drywell system: %w", err)
	}
	return nil
}

// LoadFile replaces the state of the system with the document at path.
func (s *System) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load drywell system: %w", err)
	}
	if err := s.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("load drywell system %s: %w", path, err)
	}
	return nil
}
