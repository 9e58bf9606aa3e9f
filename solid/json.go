package solid

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type vec3JSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type rgbaJSON struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

type rgbJSON struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

type transformJSON struct {
	Position vec3JSON `json:"position"`
	Rotation vec3JSON `json:"rotation"`
	Scale    vec3JSON `json:"scale"`
}

type materialJSON struct {
	Diffuse   rgbaJSON `json:"diffuse"`
	Ambient   rgbaJSON `json:"ambient"`
	Specular  rgbaJSON `json:"specular"`
	Shininess float64  `json:"shininess"`
}

// objectJSON is the part of a solid's document shared by all variants.
type objectJSON struct {
	Type      string        `json:"type"`
	Transform transformJSON `json:"transform"`
	Material  materialJSON  `json:"material"`
	Visible   bool          `json:"visible"`
	Opacity   float64       `json:"opacity"`
	ShowEdges bool          `json:"showEdges"`
	EdgeColor rgbJSON       `json:"edgeColor"`
	EdgeWidth float64       `json:"edgeWidth"`
}

// document returns the object's attributes in document form.
func (o *Object) document(typ string) objectJSON {
	return objectJSON{
		Type: typ,
		Transform: transformJSON{
			Position: toVec3JSON(o.position),
			Rotation: toVec3JSON(o.rotation),
			Scale:    toVec3JSON(o.scale),
		},
		Material: materialJSON{
			Diffuse:   toRGBAJSON(o.diffuse),
			Ambient:   toRGBAJSON(o.ambient),
			Specular:  toRGBAJSON(o.specular),
			Shininess: o.shininess,
		},
		Visible:   o.visible,
		Opacity:   o.opacity,
		ShowEdges: o.showEdges,
		EdgeColor: rgbJSON{R: int(o.edgeColor.R), G: int(o.edgeColor.G), B: int(o.edgeColor.B)},
		EdgeWidth: o.edgeWidth,
	}
}

// apply sets the object's attributes from doc through the setters
// so versions and caches are updated.
func (o *Object) apply(doc objectJSON) {
	o.SetPosition(doc.Transform.Position.vec())
	o.SetRotation(doc.Transform.Rotation.vec())
	o.SetScale(doc.Transform.Scale.vec())
	o.SetDiffuseColor(doc.Material.Diffuse.nrgba())
	o.SetAmbientColor(doc.Material.Ambient.nrgba())
	o.SetSpecularColor(doc.Material.Specular.nrgba())
	o.SetShininess(doc.Material.Shininess)
	o.SetVisible(doc.Visible)
	o.SetOpacity(doc.Opacity)
	o.SetShowEdges(doc.ShowEdges)
	o.SetEdgeColor(color.NRGBA{R: clampByte(doc.EdgeColor.R), G: clampByte(doc.EdgeColor.G), B: clampByte(doc.EdgeColor.B), A: 255})
	o.SetEdgeWidth(doc.EdgeWidth)
}

func (v vec3JSON) vec() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func toVec3JSON(v r3.Vec) vec3JSON { return vec3JSON{X: v.X, Y: v.Y, Z: v.Z} }

func (c rgbaJSON) nrgba() color.NRGBA {
	return color.NRGBA{R: clampByte(c.R), G: clampByte(c.G), B: clampByte(c.B), A: clampByte(c.A)}
}

func toRGBAJSON(c color.NRGBA) rgbaJSON {
	return rgbaJSON{R: int(c.R), G: int(c.G), B: int(c.B), A: int(c.A)}
}

func clampByte(v int) uint8 {
	return uint8(clamp(float64(v), 0, math.MaxUint8))
}
