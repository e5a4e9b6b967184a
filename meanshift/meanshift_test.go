package meanshift

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
)

func TestMeanShiftBlobs(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	centers := []model3d.Coord3D{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(1, 0.5, -0.25),
	}
	var points []model3d.Coord3D
	var owners []int
	for i := 0; i < 200; i++ {
		idx := i % len(centers)
		noise := model3d.XYZ(r.NormFloat64(), r.NormFloat64(), r.NormFloat64()).Scale(0.02)
		points = append(points, centers[idx].Add(noise))
		owners = append(owners, idx)
	}

	ms := &MeanShift{}
	modes, err := ms.Cluster(points, 0.1)
	require.NoError(t, err)
	require.Len(t, modes, len(points))
	for i, mode := range modes {
		assert.Less(t, mode.Dist(centers[owners[i]]), 0.02, "point %d", i)
	}

	// All points of a blob converge to the same mode.
	for i := 2; i < len(modes); i++ {
		assert.Less(t, modes[i].Dist(modes[i%2]), 1e-5)
	}
}

func TestMeanShiftIsolatedPoints(t *testing.T) {
	points := []model3d.Coord3D{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(5, 5, 5),
		model3d.XYZ(-3, 2, 1),
	}
	modes, err := (&MeanShift{Concurrency: 1}).Cluster(points, 0.01)
	require.NoError(t, err)
	assert.Equal(t, points, modes)
}

func TestMeanShiftDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	points := make([]model3d.Coord3D, 300)
	for i := range points {
		points[i] = model3d.XYZ(r.Float64(), r.Float64(), r.Float64()).Scale(0.05)
	}
	m1, err := (&MeanShift{Concurrency: 1}).Cluster(points, 0.01)
	require.NoError(t, err)
	m2, err := (&MeanShift{Concurrency: 8}).Cluster(points, 0.01)
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
}

func TestMeanShiftErrors(t *testing.T) {
	points := []model3d.Coord3D{model3d.XYZ(1, 2, 3)}
	ms := &MeanShift{}

	_, err := ms.Cluster(points, 0)
	assert.Error(t, err)
	_, err = ms.Cluster(points, math.NaN())
	assert.Error(t, err)
	_, err = ms.Cluster([]model3d.Coord3D{model3d.XYZ(math.Inf(1), 0, 0)}, 0.01)
	assert.Error(t, err)

	modes, err := ms.Cluster(nil, 0.01)
	require.NoError(t, err)
	assert.Empty(t, modes)
}
