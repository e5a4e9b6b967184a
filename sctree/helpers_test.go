package sctree

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/unixpickle/model3d/model3d"
)

func listSlice[T any](s []T) List[T] {
	return List[T]{
		Len: len(s),
		Get: func(i int) T {
			return s[i]
		},
	}
}

// colFeature responds with the sample's column, ignoring the data.
type colFeature struct {
	Thresh float64
}

func (c colFeature) Response(d Data, s LabeledSample) (float64, bool) {
	return float64(s.Col), true
}

func (c colFeature) Threshold() float64 {
	return c.Thresh
}

// colSampler samples colFeatures with thresholds inside the image.
type colSampler struct{}

func (colSampler) SampleFeature(r *rand.Rand, width, height int) Feature {
	return colFeature{Thresh: float64(r.Intn(width))}
}

// trashFeature never has a valid response.
type trashFeature struct{}

func (trashFeature) Response(d Data, s LabeledSample) (float64, bool) {
	return 0, false
}

func (trashFeature) Threshold() float64 {
	return 0
}

type trashSampler struct{}

func (trashSampler) SampleFeature(r *rand.Rand, width, height int) Feature {
	return trashFeature{}
}

// sequenceSampler cycles through a fixed list of features.
type sequenceSampler struct {
	lock     sync.Mutex
	features []Feature
	next     int
}

func (s *sequenceSampler) SampleFeature(r *rand.Rand, width, height int) Feature {
	s.lock.Lock()
	defer s.lock.Unlock()
	f := s.features[s.next%len(s.features)]
	s.next++
	return f
}

// identityClusterer treats every point as its own mode.
type identityClusterer struct{}

func (identityClusterer) Cluster(points []model3d.Coord3D, bandwidth float64) ([]model3d.Coord3D, error) {
	return append([]model3d.Coord3D{}, points...), nil
}

// recordingClusterer remembers how many points it was given.
type recordingClusterer struct {
	lock   sync.Mutex
	counts []int
}

func (r *recordingClusterer) Cluster(points []model3d.Coord3D, bandwidth float64) ([]model3d.Coord3D, error) {
	r.lock.Lock()
	r.counts = append(r.counts, len(points))
	r.lock.Unlock()
	return identityClusterer{}.Cluster(points, bandwidth)
}

type failingClusterer struct{}

func (failingClusterer) Cluster(points []model3d.Coord3D, bandwidth float64) ([]model3d.Coord3D, error) {
	return nil, errors.New("clustering failed")
}

// countingFailClusterer fails every call and counts them.
type countingFailClusterer struct {
	lock  sync.Mutex
	calls int
}

func (c *countingFailClusterer) Cluster(points []model3d.Coord3D, bandwidth float64) ([]model3d.Coord3D, error) {
	c.lock.Lock()
	c.calls++
	c.lock.Unlock()
	return nil, errors.New("clustering failed")
}

// emptyData answers no queries.
type emptyData struct{}

func (emptyData) Depth(frame, row, col int) (float64, bool) {
	return 0, false
}

func (emptyData) Color(frame, row, col, channel int) (float64, bool) {
	return 0, false
}

// randomSamples creates samples in a width x height image whose labels are a
// noisy function of the column.
func randomSamples(r *rand.Rand, n, width, height int) []LabeledSample {
	res := make([]LabeledSample, n)
	for i := range res {
		col := r.Intn(width)
		res[i] = LabeledSample{
			Row: r.Intn(height),
			Col: col,
			Label: model3d.XYZ(
				float64(col)/float64(width),
				r.NormFloat64()*0.01,
				float64(col%4),
			),
		}
	}
	return res
}

func testSettings(maxDepth int) *Settings {
	s := DefaultSettings()
	s.MaxTreeDepth = maxDepth
	s.ImageWidth = 64
	s.ImageHeight = 48
	return s
}
