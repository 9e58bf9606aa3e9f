// Package viewer is a headless display context for solids. It keeps a
// tessellated presentation of every displayed solid, frames them with a
// perspective camera and renders PNG snapshots.
package viewer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/soypat/drywell/internal/d3"
	"github.com/soypat/drywell/render"
	"github.com/soypat/drywell/scene"
	"github.com/soypat/drywell/shape"
	"github.com/soypat/drywell/solid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoObjectSet is returned by operations that need an object set
// when none was given to the viewer.
var ErrNoObjectSet = errors.New("viewer: no object set")

// Elevation limit of the orbiting camera in degrees.
const maxElevation = 89

// DefaultDirection is the direction from the scene center to the eye
// used when the camera is first fitted.
var DefaultDirection = r3.Vec{X: 1, Y: -1, Z: 0.6}

// Viewer presents solids. It implements solid.Context and does not own
// the solids it displays nor the object set it is given.
type Viewer struct {
	log         *zap.Logger
	segments    int
	supersample int
	background  color.NRGBA

	set       *scene.Set
	displayed map[solid.Solid]*presentation
	seq       uint64

	camera render.Camera
	radius float64
}

type presentation struct {
	seq          uint64
	item         render.Item
	shapeVersion uint64
	attrVersion  uint64
}

var _ solid.Context = (*Viewer)(nil)

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the logger of the viewer.
func WithLogger(l *zap.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.log = l
		}
	}
}

// WithSegments sets the number of segments curved faces are split into.
func WithSegments(n int) Option {
	return func(v *Viewer) {
		if n > 0 {
			v.segments = n
		}
	}
}

// WithSupersample sets the supersampling factor of rendered images.
func WithSupersample(k int) Option {
	return func(v *Viewer) {
		if k > 0 {
			v.supersample = k
		}
	}
}

// WithBackground sets the background color of rendered images.
func WithBackground(c color.NRGBA) Option {
	return func(v *Viewer) { v.background = c }
}

// New returns a viewer displaying nothing.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		log:         zap.NewNop(),
		segments:    shape.DefaultSegments,
		supersample: 1,
		background:  render.DefaultBackground,
		displayed:   make(map[solid.Solid]*presentation),
		camera:      render.DefaultCamera,
		radius:      1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetObjectSet sets the object set shown by ShowObjects.
// The viewer does not take ownership of set.
func (v *Viewer) SetObjectSet(set *scene.Set) { v.set = set }

// ObjectSet returns the object set given to SetObjectSet.
func (v *Viewer) ObjectSet() *scene.Set { return v.set }

// ShowObjects replaces everything displayed with the visible solids of the
// object set and fits the camera to them.
func (v *Viewer) ShowObjects() error {
	v.EraseAll()
	if v.set == nil {
		return nil
	}
	err := v.set.DisplayAll(v)
	v.FitAll()
	v.log.Debug("showing objects", zap.Int("objects", v.set.Len()), zap.Int("displayed", len(v.displayed)))
	return err
}

// Display builds the presentation of s. Displaying a solid that is
// already displayed refreshes it.
func (v *Viewer) Display(s solid.Solid) error {
	if s == nil {
		return nil
	}
	if _, ok := v.displayed[s]; ok {
		return v.Redisplay(s)
	}
	p := &presentation{seq: v.seq}
	if err := v.build(p, s); err != nil {
		return err
	}
	v.seq++
	v.displayed[s] = p
	return nil
}

// Redisplay refreshes the presentation of s. The surface is only
// tessellated again if the solid's geometry changed.
func (v *Viewer) Redisplay(s solid.Solid) error {
	if s == nil {
		return nil
	}
	p, ok := v.displayed[s]
	if !ok {
		return v.Display(s)
	}
	o := s.Base()
	if o.ShapeVersion() != p.shapeVersion {
		return v.build(p, s)
	}
	if o.AttrVersion() != p.attrVersion {
		p.item = attributes(p.item, o)
		p.attrVersion = o.AttrVersion()
	}
	return nil
}

// Erase removes the presentation of s.
func (v *Viewer) Erase(s solid.Solid) { delete(v.displayed, s) }

// EraseAll removes every presentation.
func (v *Viewer) EraseAll() {
	for s := range v.displayed {
		delete(v.displayed, s)
	}
}

// Displayed returns the number of displayed solids.
func (v *Viewer) Displayed() int { return len(v.displayed) }

func (v *Viewer) build(p *presentation, s solid.Solid) error {
	sh, err := s.Shape()
	if err != nil {
		return fmt.Errorf("display %s: %w", s.Type(), err)
	}
	o := s.Base()
	p.item = attributes(render.Item{
		Triangles: sh.Mesh(v.segments),
		Edges:     sh.Edges(v.segments),
	}, o)
	p.shapeVersion = o.ShapeVersion()
	p.attrVersion = o.AttrVersion()
	return nil
}

// attributes sets the display attributes of item from o.
func attributes(item render.Item, o *solid.Object) render.Item {
	c := o.DiffuseColor()
	c.A = uint8(math.Round(o.Opacity() * 255))
	item.Color = c
	item.EdgeColor = o.EdgeColor()
	item.EdgeWidth = o.EdgeWidth()
	item.ShowEdges = o.ShowEdges()
	return item
}

// presentations returns the displayed solids in display order.
func (v *Viewer) presentations() ([]solid.Solid, []*presentation) {
	solids := make([]solid.Solid, 0, len(v.displayed))
	for s := range v.displayed {
		solids = append(solids, s)
	}
	sort.Slice(solids, func(i, j int) bool {
		return v.displayed[solids[i]].seq < v.displayed[solids[j]].seq
	})
	ps := make([]*presentation, len(solids))
	for i, s := range solids {
		ps[i] = v.displayed[s]
	}
	return solids, ps
}

// Bounds returns the bounding box of everything displayed.
// ok is false when nothing is displayed.
func (v *Viewer) Bounds() (bb d3.Box, ok bool) {
	for _, p := range v.displayed {
		if len(p.item.Triangles) == 0 {
			continue
		}
		tb := d3.TrianglesBounds(p.item.Triangles)
		if !ok {
			bb, ok = tb, true
			continue
		}
		bb = bb.Extend(tb)
	}
	return bb, ok
}

// FitAll points the camera at the center of everything displayed from
// its current direction, far enough for all of it to be in view.
func (v *Viewer) FitAll() {
	bb, ok := v.Bounds()
	if !ok {
		return
	}
	dir := r3.Sub(v.camera.Eye, v.camera.Center)
	if v.camera == render.DefaultCamera || r3.Norm(dir) == 0 {
		dir = DefaultDirection
	}
	v.camera = render.FitCamera(bb, dir, v.camera.Fovy)
	v.radius = math.Max(r3.Norm(bb.Size())/2, 1e-9)
}

// Camera returns the current camera.
func (v *Viewer) Camera() render.Camera { return v.camera }

// SetCamera replaces the current camera.
func (v *Viewer) SetCamera(c render.Camera) { v.camera = c }

// Orbit rotates the eye about the view center by the given azimuth and
// elevation changes in degrees. Elevation is limited short of the poles.
func (v *Viewer) Orbit(dAzimuth, dElevation float64) {
	cam := &v.camera
	d := r3.Sub(cam.Eye, cam.Center)
	dist := r3.Norm(d)
	if dist == 0 {
		return
	}
	az := math.Atan2(d.Y, d.X) + dAzimuth*math.Pi/180
	el := math.Asin(d.Z/dist) + dElevation*math.Pi/180
	lim := maxElevation * math.Pi / 180
	el = math.Max(-lim, math.Min(lim, el))
	cam.Eye = r3.Add(cam.Center, r3.Vec{
		X: dist * math.Cos(el) * math.Cos(az),
		Y: dist * math.Cos(el) * math.Sin(az),
		Z: dist * math.Sin(el),
	})
	cam.Up = r3.Vec{Z: 1}
}

// Pan moves the eye and view center across the view plane. dx and dy are
// fractions of the distance between the eye and the view center.
func (v *Viewer) Pan(dx, dy float64) {
	cam := &v.camera
	forward := r3.Sub(cam.Center, cam.Eye)
	dist := r3.Norm(forward)
	if dist == 0 {
		return
	}
	right := r3.Unit(r3.Cross(forward, cam.Up))
	up := r3.Unit(r3.Cross(right, forward))
	offset := r3.Add(r3.Scale(dx*dist, right), r3.Scale(dy*dist, up))
	cam.Eye = r3.Add(cam.Eye, offset)
	cam.Center = r3.Add(cam.Center, offset)
}

// Zoom moves the eye towards the view center by factor. Factors above 1
// zoom in, factors in (0, 1) zoom out. Other factors are ignored.
func (v *Viewer) Zoom(factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	cam := &v.camera
	d := r3.Scale(1/factor, r3.Sub(cam.Eye, cam.Center))
	cam.Eye = r3.Add(cam.Center, d)
	dist := r3.Norm(d)
	cam.Near = math.Max(dist-2*v.radius, dist/100)
	cam.Far = dist + 2*v.radius
}

// Render draws the displayed solids to a w by h image.
func (v *Viewer) Render(w, h int) image.Image {
	_, ps := v.presentations()
	items := make([]render.Item, len(ps))
	for i, p := range ps {
		items[i] = p.item
	}
	snap := render.Snapshot{
		Width:       w,
		Height:      h,
		Supersample: v.supersample,
		Background:  v.background,
		Camera:      v.camera,
	}
	return snap.Render(items)
}

// SaveImage renders the displayed solids to a PNG file at path.
func (v *Viewer) SaveImage(path string, w, h int) error {
	if err := render.SavePNG(path, v.Render(w, h)); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	v.log.Debug("saved image", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
	return nil
}

// ExportSTL writes the compound of the object set to a binary STL file.
func (v *Viewer) ExportSTL(path string) error {
	if v.set == nil {
		return ErrNoObjectSet
	}
	return v.set.ExportSTL(path, v.segments)
}

// Pick returns the displayed solid with surface nearest to p and its name
// in the object set. name is empty if the solid is not in the set.
func (v *Viewer) Pick(p r3.Vec) (name string, s solid.Solid, ok bool) {
	solids, ps := v.presentations()
	meshes := make([][]render.Triangle3, len(ps))
	for i, pr := range ps {
		meshes[i] = pr.item.Triangles
	}
	idx, _, ok := render.NewTriangleIndex(meshes).Nearest(p)
	if !ok {
		return "", nil, false
	}
	s = solids[idx]
	if v.set != nil {
		v.set.Range(func(n string, obj solid.Solid) bool {
			if obj == s {
				name = n
				return false
			}
			return true
		})
	}
	return name, s, true
}
