package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/drywell/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Item is a single solid presentation drawn by a Snapshot.
type Item struct {
	Triangles []Triangle3
	Edges     []d3.Segment
	// Color is the diffuse color. Alpha below 255 makes the item translucent.
	Color     color.NRGBA
	EdgeColor color.NRGBA
	// EdgeWidth is the edge line width in output pixels.
	EdgeWidth float64
	ShowEdges bool
}

func (it Item) opaque() bool { return it.Color.A == 255 }

// Camera is a perspective camera.
type Camera struct {
	Eye    r3.Vec // camera position
	Center r3.Vec // view center position
	Up     r3.Vec // up vector
	Fovy   float64
	Near   float64
	Far    float64
}

// DefaultCamera is an isometric view of the bi-unit cube.
var DefaultCamera = Camera{
	Eye:  d3.Elem(3),
	Up:   r3.Vec{Z: 1},
	Fovy: 30,
	Near: 1,
	Far:  10,
}

// Snapshot renders items to an image with a headless rasterizer.
type Snapshot struct {
	Width, Height int
	// Supersample renders at a multiple of the output size and
	// downsamples for antialiasing. Values below 1 are treated as 1.
	Supersample int
	Background  color.NRGBA
	// Light is the light direction. The zero value selects a default.
	Light  r3.Vec
	Camera Camera
}

// DefaultBackground is the default snapshot background color.
var DefaultBackground = color.NRGBA{R: 0xFF, G: 0xF8, B: 0xE3, A: 0xFF}

// Render draws items and returns the resulting image. Opaque items are drawn
// first, translucent items after them from farthest to nearest without
// writing depth, edges last.
func (s Snapshot) Render(items []Item) image.Image {
	scale := max(s.Supersample, 1)
	width, height := max(s.Width, 1), max(s.Height, 1)
	light := s.Light
	if light == (r3.Vec{}) {
		light = r3.Vec{X: -0.75, Y: 1, Z: 0.25}
	}
	cam := s.Camera
	if cam.Up == (r3.Vec{}) {
		cam.Up = r3.Vec{Z: 1}
	}
	var (
		eye    = fvec(cam.Eye)
		center = fvec(cam.Center)
		up     = fvec(cam.Up)
		lightv = fvec(light).Normalize()
	)
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fcolor(s.Background))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(cam.Fovy, aspect, cam.Near, cam.Far)

	var opaque, translucent []Item
	for _, it := range items {
		if len(it.Triangles) == 0 && (!it.ShowEdges || len(it.Edges) == 0) {
			continue
		}
		if it.opaque() {
			opaque = append(opaque, it)
		} else {
			translucent = append(translucent, it)
		}
	}
	sort.SliceStable(translucent, func(i, j int) bool {
		return eyeDistance(cam.Eye, translucent[i]) > eyeDistance(cam.Eye, translucent[j])
	})

	context.Cull = fauxgl.CullNone
	context.AlphaBlend = true
	for _, it := range opaque {
		context.WriteDepth = true
		s.drawSurface(context, matrix, lightv, eye, it)
	}
	for _, it := range translucent {
		context.WriteDepth = false
		s.drawSurface(context, matrix, lightv, eye, it)
	}
	context.WriteDepth = true
	for _, it := range items {
		if !it.ShowEdges || len(it.Edges) == 0 {
			continue
		}
		context.LineWidth = max(it.EdgeWidth, 1) * float64(scale)
		context.Shader = fauxgl.NewSolidColorShader(matrix, fcolor(it.EdgeColor))
		lines := make([]*fauxgl.Line, len(it.Edges))
		for i, e := range it.Edges {
			lines[i] = fauxgl.NewLineForPoints(fvec(e[0]), fvec(e[1]))
		}
		context.DrawMesh(fauxgl.NewLineMesh(lines))
	}

	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return img
}

func (s Snapshot) drawSurface(context *fauxgl.Context, matrix fauxgl.Matrix, light, eye fauxgl.Vector, it Item) {
	if len(it.Triangles) == 0 {
		return
	}
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fcolor(it.Color)
	context.Shader = shader
	triangles := make([]*fauxgl.Triangle, len(it.Triangles))
	for i, t := range it.Triangles {
		triangles[i] = fauxgl.NewTriangleForPoints(fvec(t[0]), fvec(t[1]), fvec(t[2]))
	}
	context.DrawMesh(fauxgl.NewTriangleMesh(triangles))
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	return fauxgl.SavePNG(path, img)
}

// FitCamera returns a camera looking at the center of bb from direction dir
// at a distance where the whole box is in view.
func FitCamera(bb d3.Box, dir r3.Vec, fovy float64) Camera {
	if fovy <= 0 {
		fovy = DefaultCamera.Fovy
	}
	if dir == (r3.Vec{}) {
		dir = d3.Elem(1)
	}
	center := bb.Center()
	radius := r3.Norm(bb.Size()) / 2
	if radius == 0 {
		radius = 1
	}
	dist := radius / math.Sin(fovy*math.Pi/360)
	return Camera{
		Eye:    r3.Add(center, r3.Scale(dist, r3.Unit(dir))),
		Center: center,
		Up:     r3.Vec{Z: 1},
		Fovy:   fovy,
		Near:   max(dist-2*radius, dist/100),
		Far:    dist + 2*radius,
	}
}

func eyeDistance(eye r3.Vec, it Item) float64 {
	if len(it.Triangles) == 0 {
		return 0
	}
	return r3.Norm(r3.Sub(d3.TrianglesBounds(it.Triangles).Center(), eye))
}

func fvec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}

func fcolor(c color.NRGBA) fauxgl.Color {
	return fauxgl.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}
