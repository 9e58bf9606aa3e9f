package drywell

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Cell color bands. Hues are fractions of a full turn.
const (
	aggregateBaseHue  = 0.08
	aggregateHueRange = 0.08
	aggregateSat      = 0.7
	aggregateVal      = 0.75
	belowWellBaseHue  = 0.45
	belowWellHueRange = 0.15
	belowWellSat      = 0.5
	belowWellVal      = 0.65
	rowHueVariation   = 0.03
	cellOpacity       = 0.6
	chamberOpacity    = 0.7
	wellShaftOpacity  = 0.6
	aggregateShaftHue = 0.08
	belowWellShaftHue = 0.50
	aggregateShaftSat = 0.7
	aggregateShaftVal = 0.75
	belowWellShaftSat = 0.5
	belowWellShaftVal = 0.65
)

// ChamberColor is the diffuse color of the empty well chamber.
var ChamberColor = color.NRGBA{R: 180, G: 180, B: 180, A: 255}

// CellColor returns the diffuse color of cell (i, j) of zone z in a grid
// of nr radial cells and nz rows. Hue sweeps across the zone's band with
// the radial index and varies slightly with the row.
func CellColor(z Zone, i, nr, j, nz int) color.NRGBA {
	base, span, s, v := aggregateBaseHue, aggregateHueRange, aggregateSat, aggregateVal
	if z == BelowWell {
		base, span, s, v = belowWellBaseHue, belowWellHueRange, belowWellSat, belowWellVal
	}
	h := base + float64(i)/float64(nr)*span
	h += float64(j)/float64(nz)*rowHueVariation - rowHueVariation/2
	return hsv(h, s, v)
}

// hsv converts a hue in turns with saturation and value in [0,1] to an
// opaque color.
func hsv(h, s, v float64) color.NRGBA {
	for h < 0 {
		h++
	}
	for h >= 1 {
		h--
	}
	r, g, b := colorful.Hsv(h*360, s, v).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
