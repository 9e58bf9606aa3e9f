package solid_test

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/drywell/solid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestObjectDefaults(t *testing.T) {
	c := solid.NewCylinder(1, 2)
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, c.Scale())
	assert.Equal(t, color.NRGBA{R: 102, G: 84, B: 35, A: 255}, c.DiffuseColor())
	assert.Equal(t, color.NRGBA{R: 68, G: 51, B: 17, A: 255}, c.AmbientColor())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c.SpecularColor())
	assert.Equal(t, 50.0, c.Shininess())
	assert.Equal(t, 1.0, c.Opacity())
	assert.True(t, c.Visible())
	assert.False(t, c.ShowEdges())
	assert.Equal(t, color.NRGBA{A: 255}, c.EdgeColor())
	assert.Equal(t, 1.0, c.EdgeWidth())
	assert.Equal(t, solid.TypeCylinder, c.Type())
}

func TestVersions(t *testing.T) {
	tube := solid.NewTube(1, 2, 3)
	sv, av := tube.ShapeVersion(), tube.AttrVersion()

	tube.SetDiffuseColor(color.NRGBA{R: 1, A: 255})
	tube.SetOpacity(0.5)
	tube.SetShowEdges(true)
	assert.Equal(t, sv, tube.ShapeVersion(), "material change must not touch geometry")
	assert.Greater(t, tube.AttrVersion(), av)

	tube.SetPosition(r3.Vec{Z: -3})
	assert.Greater(t, tube.ShapeVersion(), sv)
	sv = tube.ShapeVersion()
	tube.SetPosition(r3.Vec{Z: -3})
	assert.Equal(t, sv, tube.ShapeVersion(), "same position is not a change")
	tube.SetHeight(4)
	assert.Greater(t, tube.ShapeVersion(), sv)
}

func TestOpacityClamp(t *testing.T) {
	c := solid.NewCylinder(1, 1)
	c.SetOpacity(1.5)
	assert.Equal(t, 1.0, c.Opacity())
	c.SetOpacity(-2)
	assert.Equal(t, 0.0, c.Opacity())
}

func TestShapePlacement(t *testing.T) {
	tube := solid.NewTube(2, 3, 2)
	tube.SetPosition(r3.Vec{Z: -17})
	s, err := tube.Shape()
	require.NoError(t, err)
	assert.Less(t, s.Evaluate(r3.Vec{X: 2.5, Z: -17}), 0.0)
	assert.Greater(t, s.Evaluate(r3.Vec{Z: -17}), 0.0, "bore is empty")
	assert.Greater(t, s.Evaluate(r3.Vec{X: 2.5}), 0.0)
	assert.InDelta(t, -18, s.Bounds().Min.Z, 1e-12)
	assert.InDelta(t, -16, s.Bounds().Max.Z, 1e-12)

	// Rotating the tube axis onto Y puts the wall on the Y axis at Z=-17.
	tube.SetRotation(r3.Vec{X: 90})
	s, err = tube.Shape()
	require.NoError(t, err)
	assert.Less(t, s.Evaluate(r3.Vec{Z: -17 + 2.5}), 0.0)
	assert.Greater(t, s.Evaluate(r3.Vec{Y: 0.5, Z: -17}), 0.0, "bore along Y")

	tube.SetRotation(r3.Vec{})
	tube.SetUniformScale(2)
	s, err = tube.Shape()
	require.NoError(t, err)
	assert.InDelta(t, -1, s.Evaluate(r3.Vec{X: 5, Z: -17}), 1e-12)

	tube.SetScale(r3.Vec{X: 1, Y: 1, Z: 3})
	s, err = tube.Shape()
	require.NoError(t, err)
	assert.InDelta(t, -20, s.Bounds().Min.Z, 1e-9)
}

func TestShapeErrors(t *testing.T) {
	tube := solid.NewTube(3, 2, 1)
	_, err := tube.Shape()
	assert.Error(t, err, "inner radius larger than outer")

	c := solid.NewCylinder(1, 1)
	c.Dispose()
	assert.True(t, c.Disposed())
	_, err = c.Shape()
	assert.ErrorIs(t, err, solid.ErrDisposed)
}

func TestJSONRoundTrip(t *testing.T) {
	reg := solid.NewStandardRegistry()
	tube := solid.NewTube(2, 3.5, 0.6)
	tube.SetPosition(r3.Vec{X: 1, Y: 2, Z: -17})
	tube.SetRotation(r3.Vec{Z: 45})
	tube.SetDiffuseColor(color.NRGBA{R: 191, G: 120, B: 57, A: 255})
	tube.SetOpacity(0.6)
	tube.SetShowEdges(true)
	tube.SetEdgeColor(color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	tube.SetEdgeWidth(2)
	b, err := json.Marshal(tube)
	require.NoError(t, err)

	got, err := reg.Decode(b)
	require.NoError(t, err)
	require.IsType(t, &solid.Tube{}, got)
	b2, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(b), string(b2))

	gt := got.(*solid.Tube)
	want := []float64{2, 3.5, 0.6}
	if diff := cmp.Diff(want, []float64{gt.InnerRadius(), gt.OuterRadius(), gt.Height()}); diff != "" {
		t.Errorf("dimensions mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentKeys(t *testing.T) {
	b, err := json.Marshal(solid.NewCylinder(1.5, 4))
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &doc))
	var keys []string
	for k := range doc {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"type", "transform", "material", "visible", "opacity", "showEdges", "edgeColor", "edgeWidth", "cylinder"}, keys)
	assert.JSONEq(t, `{"radius":1.5,"length":4}`, string(doc["cylinder"]))
	assert.JSONEq(t, `{"r":0,"g":0,"b":0}`, string(doc["edgeColor"]))
}

func TestTypeMismatch(t *testing.T) {
	tube := solid.NewTube(2, 3, 1)
	cylDoc, err := json.Marshal(solid.NewCylinder(9, 9))
	require.NoError(t, err)
	err = tube.UnmarshalJSON(cylDoc)
	assert.ErrorIs(t, err, solid.ErrTypeMismatch)
	assert.Equal(t, 2.0, tube.InnerRadius())
	assert.Equal(t, 3.0, tube.OuterRadius())
	assert.Equal(t, 1.0, tube.Height())

	err = tube.UnmarshalJSON([]byte(`{"tube":{"innerRadius":5,"outerRadius":6,"height":7}}`))
	assert.ErrorIs(t, err, solid.ErrTypeMismatch, "missing type tag")
	assert.Equal(t, 2.0, tube.InnerRadius())
}

func TestPartialDocument(t *testing.T) {
	tube := solid.NewTube(2, 3, 1)
	tube.SetPosition(r3.Vec{X: 7})
	err := tube.UnmarshalJSON([]byte(`{"type":"Tube","opacity":0.25,"visible":true,"transform":{"position":{"z":-4}},"material":{"diffuse":{"r":300,"g":-5,"b":10,"a":255}}}`))
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 7, Z: -4}, tube.Position())
	assert.Equal(t, 0.25, tube.Opacity())
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 10, A: 255}, tube.DiffuseColor())
	assert.Equal(t, 3.0, tube.OuterRadius())

	err = tube.UnmarshalJSON([]byte(`{"type":"Tube","tube":{"innerRadius":1,"outerRadius":-1,"height":1}}`))
	assert.ErrorIs(t, err, solid.ErrInvalidDimension)
}

func TestInvalidDimensions(t *testing.T) {
	for _, doc := range []string{
		`{"type":"Tube","tube":{"innerRadius":0,"outerRadius":2,"height":1}}`,
		`{"type":"Tube","tube":{"innerRadius":5,"outerRadius":2,"height":1}}`,
		`{"type":"Tube","tube":{"innerRadius":2,"outerRadius":2,"height":1}}`,
		`{"type":"Tube","tube":{"innerRadius":1,"outerRadius":2,"height":0}}`,
	} {
		tube := solid.NewTube(2, 3, 1)
		err := tube.UnmarshalJSON([]byte(doc))
		assert.ErrorIs(t, err, solid.ErrInvalidDimension, doc)
		assert.Equal(t, []float64{2, 3, 1}, []float64{tube.InnerRadius(), tube.OuterRadius(), tube.Height()}, doc)
	}
	for _, doc := range []string{
		`{"type":"Cylinder","cylinder":{"radius":0,"length":1}}`,
		`{"type":"Cylinder","cylinder":{"radius":1,"length":-1}}`,
	} {
		cyl := solid.NewCylinder(1, 2)
		err := cyl.UnmarshalJSON([]byte(doc))
		assert.ErrorIs(t, err, solid.ErrInvalidDimension, doc)
	}
}

func TestRegistry(t *testing.T) {
	var reg *solid.Registry
	require.NotPanics(t, func() { reg = solid.NewStandardRegistry() })
	assert.Equal(t, []string{"Cylinder", "Tube"}, reg.Types())

	_, err := reg.New("Sphere")
	assert.ErrorIs(t, err, solid.ErrUnknownType)
	_, err = reg.Decode([]byte(`{"type":"Sphere"}`))
	assert.ErrorIs(t, err, solid.ErrUnknownType)
	_, err = reg.Decode([]byte(`{"cylinder":{"radius":1}}`))
	assert.ErrorIs(t, err, solid.ErrMissingType)
	_, err = reg.Decode([]byte(`not json`))
	assert.Error(t, err)

	s, err := reg.New(solid.TypeTube)
	require.NoError(t, err)
	tube := s.(*solid.Tube)
	assert.Equal(t, []float64{0.5, 1, 2}, []float64{tube.InnerRadius(), tube.OuterRadius(), tube.Height()})

	empty := solid.NewRegistry()
	assert.Empty(t, empty.Types())
	assert.Error(t, empty.Register("", nil))
	require.NoError(t, empty.Register("Custom", func() solid.Solid { return solid.NewCylinder(3, 3) }))
	s, err = empty.Decode([]byte(`{"type":"Custom"}`))
	assert.ErrorIs(t, err, solid.ErrTypeMismatch, "factory variant rejects foreign tag")
	assert.Nil(t, s)
}

type recordingContext struct {
	displayed, erased, redisplayed int
}

func (c *recordingContext) Display(solid.Solid) error   { c.displayed++; return nil }
func (c *recordingContext) Erase(solid.Solid)           { c.erased++ }
func (c *recordingContext) Redisplay(solid.Solid) error { c.redisplayed++; return nil }

func TestContextHelpers(t *testing.T) {
	ctx := &recordingContext{}
	c := solid.NewCylinder(1, 1)
	require.NoError(t, solid.DisplayIn(ctx, c))
	require.NoError(t, solid.RedisplayIn(ctx, c))
	c.SetVisible(false)
	require.NoError(t, solid.DisplayIn(ctx, c))
	solid.EraseFrom(ctx, c)
	assert.Equal(t, recordingContext{displayed: 1, erased: 2, redisplayed: 1}, *ctx)

	require.NoError(t, solid.DisplayIn(nil, c))
	solid.EraseFrom(nil, c)
	require.NoError(t, solid.DisplayIn(ctx, nil))
}
