package sctree

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

const (
	DefaultMaxLeafSamples = 500
	DefaultBandwidth      = 0.01

	modeQuantization = 10000
)

// A Clusterer finds density modes of a point set.
//
// Cluster returns one converged point per input point, in input order.
type Clusterer interface {
	Cluster(points []model3d.Coord3D, bandwidth float64) ([]model3d.Coord3D, error)
}

// LeafMode estimates the prediction of a leaf from the labels which reached
// it.
//
// At most maxSamples labels from the front of the list are clustered. The
// converged points are floored to 4 decimals and the most frequent point is
// returned, with ties going to the point seen first. An empty list yields the
// origin.
func LeafMode(c Clusterer, labels List[model3d.Coord3D], maxSamples int,
	bandwidth float64) (model3d.Coord3D, error) {
	points := labels.Truncate(maxSamples).Slice()
	if len(points) == 0 {
		return model3d.Origin, nil
	}
	converged, err := c.Cluster(points, bandwidth)
	if err != nil {
		return model3d.Origin, errors.Wrap(err, "leaf mode")
	}
	quantized := make([]model3d.Coord3D, len(converged))
	for i, p := range converged {
		quantized[i] = QuantizeMode(p)
	}
	return firstMode(quantized), nil
}

// QuantizeMode floors each component of c to 4 decimal places.
func QuantizeMode(c model3d.Coord3D) model3d.Coord3D {
	q := func(x float64) float64 {
		return math.Floor(x*modeQuantization) / modeQuantization
	}
	return model3d.XYZ(q(c.X), q(c.Y), q(c.Z))
}

// firstMode returns the most common value, breaking ties by first
// occurrence.
func firstMode[T comparable](items []T) T {
	// Ensure deterministic order by keeping an ordered list of values
	// instead of relying on map ordering.
	var values []T
	counts := map[T]int{}
	for _, x := range items {
		if _, ok := counts[x]; !ok {
			values = append(values, x)
		}
		counts[x]++
	}
	var best T
	bestCount := 0
	for _, x := range values {
		if counts[x] > bestCount {
			best = x
			bestCount = counts[x]
		}
	}
	return best
}
