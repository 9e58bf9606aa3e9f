package drywell

import (
	"fmt"
	"image/color"

	"github.com/soypat/drywell/solid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotSection saves an r-z cross section of the system's cells and well
// cylinders to path. The image format is chosen by the file extension.
func (s *System) PlotSection(w, h vg.Length, path string) error {
	p, err := s.Section()
	if err != nil {
		return err
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save section: %w", err)
	}
	return nil
}

// Section returns the r-z cross section plot of the system. Each solid
// is drawn as a rectangle filled with its diffuse color.
func (s *System) Section() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Drywell section"
	p.X.Label.Text = "radius (m)"
	p.Y.Label.Text = "elevation (m)"
	for _, c := range s.WellCylinders() {
		z := c.Position().Z
		if err := addRect(p, 0, c.Radius(), z-c.Length()/2, z+c.Length()/2, c.Base()); err != nil {
			return nil, err
		}
	}
	for _, zone := range [...][]*solid.Tube{s.tubes, s.belowTubes} {
		for _, t := range zone {
			z := t.Position().Z
			if err := addRect(p, t.InnerRadius(), t.OuterRadius(), z-t.Height()/2, z+t.Height()/2, t.Base()); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func addRect(p *plot.Plot, r0, r1, z0, z1 float64, o *solid.Object) error {
	poly, err := plotter.NewPolygon(plotter.XYs{{X: r0, Y: z0}, {X: r1, Y: z0}, {X: r1, Y: z1}, {X: r0, Y: z1}})
	if err != nil {
		return fmt.Errorf("section polygon: %w", err)
	}
	fill := o.DiffuseColor()
	fill.A = uint8(o.Opacity() * 255)
	poly.Color = fill
	poly.LineStyle.Width = 0
	if o.ShowEdges() {
		edge := o.EdgeColor()
		poly.LineStyle.Color = color.NRGBA{R: edge.R, G: edge.G, B: edge.B, A: 255}
		poly.LineStyle.Width = vg.Length(o.EdgeWidth()) * vg.Points(0.5)
	}
	p.Add(poly)
	return nil
}
