package sctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
)

func TestQuantizeMode(t *testing.T) {
	assert.Equal(t, model3d.XYZ(0.1234, 1.5, -0.0001), QuantizeMode(model3d.XYZ(0.123456, 1.5, -0.00005)))
	assert.Equal(t, model3d.XYZ(2, -3, 0), QuantizeMode(model3d.XYZ(2, -3, 0)))
}

func TestFirstModeTieBreak(t *testing.T) {
	assert.Equal(t, "b", firstMode([]string{"b", "a", "a", "b", "c"}))
	assert.Equal(t, "a", firstMode([]string{"c", "a", "a", "b"}))
	assert.Equal(t, "", firstMode([]string{}))
}

func TestLeafModeEmpty(t *testing.T) {
	clusterer := &recordingClusterer{}
	mode, err := LeafMode(clusterer, listSlice[model3d.Coord3D](nil), 500, 0.01)
	require.NoError(t, err)
	assert.Equal(t, model3d.Origin, mode)
	assert.Empty(t, clusterer.counts)
}

func TestLeafModeMostFrequent(t *testing.T) {
	points := []model3d.Coord3D{
		model3d.XYZ(1, 2, 3),
		model3d.XYZ(0.50001, 0.5, 0.5),
		model3d.XYZ(0.50004, 0.5, 0.5),
		model3d.XYZ(1, 2, 3.00001),
		model3d.XYZ(0.5, 0.5, 0.50009),
	}
	mode, err := LeafMode(identityClusterer{}, listSlice(points), 500, 0.01)
	require.NoError(t, err)
	assert.Equal(t, model3d.XYZ(0.5, 0.5, 0.5), mode)

	// Truncating to the first two points leaves a tie, which goes to the
	// first point.
	mode, err = LeafMode(identityClusterer{}, listSlice(points), 2, 0.01)
	require.NoError(t, err)
	assert.Equal(t, model3d.XYZ(1, 2, 3), mode)
}

func TestLeafModeError(t *testing.T) {
	points := []model3d.Coord3D{model3d.XYZ(1, 2, 3)}
	_, err := LeafMode(failingClusterer{}, listSlice(points), 500, 0.01)
	require.Error(t, err)
}
