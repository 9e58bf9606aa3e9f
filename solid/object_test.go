package solid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestShapeCache(t *testing.T) {
	tube := NewTube(1, 2, 3)
	s1, err := tube.Shape()
	require.NoError(t, err)
	s2, err := tube.Shape()
	require.NoError(t, err)
	assert.True(t, s1 == s2, "unchanged solid must reuse its shape")
	base := tube.base

	tube.SetPosition(r3.Vec{X: 1})
	tube.SetRotation(r3.Vec{Y: 30})
	tube.SetUniformScale(3)
	_, err = tube.Shape()
	require.NoError(t, err)
	assert.True(t, base == tube.base, "placement and uniform scale keep the base shape")

	tube.SetScale(r3.Vec{X: 1, Y: 2, Z: 1})
	assert.Nil(t, tube.base, "non-uniform scale rebuilds the base shape")
	_, err = tube.Shape()
	require.NoError(t, err)
	base = tube.base

	tube.SetOuterRadius(5)
	assert.Nil(t, tube.base, "dimension change rebuilds the base shape")
	assert.NotNil(t, base)
}

func TestMirrorScale(t *testing.T) {
	for _, scale := range []r3.Vec{{X: -2, Y: -2, Z: -2}, {X: -2, Y: 2, Z: 2}} {
		tube := NewTube(1, 2, 3)
		tube.SetScale(scale)
		s, err := tube.Shape()
		require.NoError(t, err, scale)
		bb := s.Bounds()
		assert.InDelta(t, 4, bb.Max.X, 1e-9, scale)
		assert.InDelta(t, -4, bb.Min.X, 1e-9, scale)
		assert.Less(t, s.Evaluate(r3.Vec{X: 3}), 0.0, scale)
		assert.Greater(t, s.Evaluate(r3.Vec{}), 0.0, scale)
	}
}
