package viewer

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/drywell/internal/d3"
	"github.com/soypat/drywell/scene"
	"github.com/soypat/drywell/solid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func testSet() *scene.Set {
	set := scene.New()
	well := solid.NewCylinder(1, 4)
	well.SetPosition(r3.Vec{Z: -2})
	set.Add("well", well)
	ring := solid.NewTube(1, 3, 2)
	ring.SetPosition(r3.Vec{Z: -5})
	ring.SetOpacity(0.6)
	ring.SetShowEdges(true)
	set.Add("ring", ring)
	return set
}

func countNot(img image.Image, c color.Color) (n int) {
	r0, g0, b0, _ := c.RGBA()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != r0 || g != g0 || bl != b0 {
				n++
			}
		}
	}
	return n
}

func TestEmptyViewer(t *testing.T) {
	v := New()
	assert.Equal(t, 0, v.Displayed())
	assert.NoError(t, v.ShowObjects())
	img := v.Render(32, 24)
	assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())
	assert.Equal(t, 0, countNot(img, img.At(0, 0)), "empty viewer renders only background")
	assert.ErrorIs(t, v.ExportSTL(filepath.Join(t.TempDir(), "x.stl")), ErrNoObjectSet)
	_, _, ok := v.Pick(r3.Vec{})
	assert.False(t, ok)
}

func TestShowObjects(t *testing.T) {
	set := testSet()
	v := New(WithSegments(16))
	v.SetObjectSet(set)
	assert.True(t, v.ObjectSet() == set)
	require.NoError(t, v.ShowObjects())
	assert.Equal(t, 2, v.Displayed())

	bb, ok := v.Bounds()
	require.True(t, ok)
	assert.True(t, bb.Equals(d3.Box{Min: r3.Vec{X: -3, Y: -3, Z: -6}, Max: r3.Vec{X: 3, Y: 3, Z: 0}}, 1e-9), "%v", bb)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(v.Camera().Center, bb.Center())), 1e-9)

	img := v.Render(64, 64)
	assert.Greater(t, countNot(img, img.At(0, 0)), 64, "solids are drawn")

	set.SetObjectVisible("ring", false)
	require.NoError(t, v.ShowObjects())
	assert.Equal(t, 1, v.Displayed())

	path := filepath.Join(t.TempDir(), "view.png")
	require.NoError(t, v.SaveImage(path, 40, 30))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	stl := filepath.Join(t.TempDir(), "set.stl")
	require.NoError(t, v.ExportSTL(stl))
	info, err = os.Stat(stl)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(84))
}

func TestRedisplay(t *testing.T) {
	tube := solid.NewTube(1, 2, 1)
	v := New(WithSegments(8))
	require.NoError(t, v.Display(tube))
	p := v.displayed[tube]
	mesh := p.item.Triangles
	assert.Equal(t, uint8(255), p.item.Color.A)

	tube.SetOpacity(0.5)
	tube.SetEdgeColor(color.NRGBA{R: 200, A: 255})
	require.NoError(t, solid.RedisplayIn(v, tube))
	assert.True(t, &mesh[0] == &p.item.Triangles[0], "attribute changes keep the tessellation")
	assert.Equal(t, uint8(128), p.item.Color.A)
	assert.Equal(t, uint8(200), p.item.EdgeColor.R)

	tube.SetPosition(r3.Vec{Z: 10})
	require.NoError(t, v.Display(tube))
	assert.False(t, &mesh[0] == &p.item.Triangles[0], "geometry changes rebuild the tessellation")
	bb, _ := v.Bounds()
	assert.InDelta(t, 10, bb.Center().Z, 1e-9)
	assert.Equal(t, 1, v.Displayed())

	tube.SetVisible(false)
	require.NoError(t, solid.RedisplayIn(v, tube))
	assert.Equal(t, 0, v.Displayed())

	tube.Dispose()
	assert.Error(t, v.Display(tube))
	assert.Equal(t, 0, v.Displayed())
}

func TestCameraControls(t *testing.T) {
	v := New()
	v.SetObjectSet(testSet())
	require.NoError(t, v.ShowObjects())
	cam := v.Camera()
	dist := r3.Norm(r3.Sub(cam.Eye, cam.Center))

	v.Orbit(90, 0)
	got := v.Camera()
	assert.InDelta(t, dist, r3.Norm(r3.Sub(got.Eye, got.Center)), 1e-9)
	assert.InDelta(t, cam.Eye.Z, got.Eye.Z, 1e-9, "azimuth keeps elevation")

	v.Orbit(0, 180)
	got = v.Camera()
	assert.Less(t, got.Eye.Z-got.Center.Z, dist, "elevation stops short of the pole")
	assert.Greater(t, got.Eye.Z-got.Center.Z, 0.99*dist)

	v.Zoom(2)
	got = v.Camera()
	assert.InDelta(t, dist/2, r3.Norm(r3.Sub(got.Eye, got.Center)), 1e-9)
	assert.Less(t, got.Near, dist/2)
	assert.Greater(t, got.Far, dist/2)
	before := got
	v.Zoom(0)
	v.Zoom(-1)
	assert.Equal(t, before, v.Camera())

	v.Pan(0.1, 0)
	got = v.Camera()
	moved := r3.Sub(got.Center, before.Center)
	assert.InDelta(t, 0.1*dist/2, r3.Norm(moved), 1e-9)
	assert.InDelta(t, 0, r3.Dot(moved, r3.Sub(before.Center, before.Eye)), 1e-9, "pan moves across the view")

	v.FitAll()
	bb, _ := v.Bounds()
	assert.InDelta(t, 0, r3.Norm(r3.Sub(v.Camera().Center, bb.Center())), 1e-9)
}

func TestPick(t *testing.T) {
	set := testSet()
	v := New(WithSegments(24))
	v.SetObjectSet(set)
	require.NoError(t, v.ShowObjects())

	name, s, ok := v.Pick(r3.Vec{X: 3, Z: -5})
	require.True(t, ok)
	assert.Equal(t, "ring", name)
	assert.True(t, s == set.Get("ring"))

	name, _, ok = v.Pick(r3.Vec{Z: 0.5})
	require.True(t, ok)
	assert.Equal(t, "well", name)

	other := solid.NewCylinder(1, 1)
	other.SetPosition(r3.Vec{X: 50})
	require.NoError(t, v.Display(other))
	name, s, ok = v.Pick(r3.Vec{X: 50})
	require.True(t, ok)
	assert.Empty(t, name, "solid outside the object set has no name")
	assert.True(t, s == solid.Solid(other))
}
