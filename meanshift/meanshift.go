// Package meanshift implements Gaussian mean-shift mode seeking for 3D
// points.
package meanshift

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/kdtree"
)

const (
	DefaultMaxIterations = 300
	DefaultEpsilon       = 1e-8
	DefaultCutoff        = 5.0
)

// MeanShift moves every point uphill on a Gaussian kernel density estimate of
// the input points until it converges to a mode.
type MeanShift struct {
	// MaxIterations bounds the number of shifts per point.
	// If 0, DefaultMaxIterations is used.
	MaxIterations int

	// Epsilon is the shift distance below which a point has converged.
	// If 0, DefaultEpsilon is used.
	Epsilon float64

	// Cutoff is the kernel support in bandwidths. Points further than
	// Cutoff*bandwidth away from a shifting point are ignored.
	// If 0, DefaultCutoff is used.
	Cutoff float64

	// Concurrency is the number of Goroutines shifting points.
	// If 0, GOMAXPROCS is used.
	Concurrency int
}

// Cluster returns, for every input point, the mode it converged to.
func (m *MeanShift) Cluster(points []model3d.Coord3D, bandwidth float64) ([]model3d.Coord3D, error) {
	if bandwidth <= 0 || math.IsNaN(bandwidth) {
		return nil, errors.Errorf("mean shift: invalid bandwidth %f", bandwidth)
	}
	if len(points) == 0 {
		return nil, nil
	}
	for i, p := range points {
		if !finite(p) {
			return nil, errors.Errorf("mean shift: point %d is not finite: %v", i, p)
		}
	}

	// kdtree.New reorders its input, so give it a copy.
	kdPoints := make(kdtree.Points, len(points))
	for i, p := range points {
		arr := p.Array()
		kdPoints[i] = kdtree.Point(arr[:])
	}
	tree := kdtree.New(kdPoints, false)

	radius := m.cutoff() * bandwidth
	result := make([]model3d.Coord3D, len(points))
	essentials.ConcurrentMap(m.Concurrency, len(points), func(i int) {
		result[i] = m.shiftPoint(tree, points[i], bandwidth, radius)
	})
	return result, nil
}

func (m *MeanShift) shiftPoint(tree *kdtree.Tree, p model3d.Coord3D, bandwidth,
	radius float64) model3d.Coord3D {
	maxIters := m.MaxIterations
	if maxIters == 0 {
		maxIters = DefaultMaxIterations
	}
	eps := m.Epsilon
	if eps == 0 {
		eps = DefaultEpsilon
	}
	for i := 0; i < maxIters; i++ {
		next, ok := weightedMean(tree, p, bandwidth, radius)
		if !ok {
			break
		}
		shift := next.Dist(p)
		p = next
		if shift < eps {
			break
		}
	}
	return p
}

// weightedMean computes the Gaussian-weighted mean of the points near p.
func weightedMean(tree *kdtree.Tree, p model3d.Coord3D, bandwidth,
	radius float64) (model3d.Coord3D, bool) {
	arr := p.Array()
	// Distances in the kd-tree are squared.
	keeper := kdtree.NewDistKeeper(radius * radius)
	tree.NearestSet(keeper, kdtree.Point(arr[:]))

	var sum model3d.Coord3D
	var totalWeight float64
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		q := c.Comparable.(kdtree.Point)
		weight := math.Exp(-0.5 * c.Dist / (bandwidth * bandwidth))
		sum = sum.Add(model3d.XYZ(q[0], q[1], q[2]).Scale(weight))
		totalWeight += weight
	}
	if totalWeight == 0 {
		return p, false
	}
	return sum.Scale(1 / totalWeight), true
}

func (m *MeanShift) cutoff() float64 {
	if m.Cutoff == 0 {
		return DefaultCutoff
	}
	return m.Cutoff
}

func finite(c model3d.Coord3D) bool {
	for _, x := range c.Array() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
