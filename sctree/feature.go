package sctree

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	DefaultMaxOffset    = 130.0
	DefaultMaxThreshold = 128.0
)

// A Route is the outcome of testing a sample against a feature.
type Route int

const (
	RouteLeft Route = iota
	RouteRight
	RouteTrash
)

func (r Route) String() string {
	switch r {
	case RouteLeft:
		return "left"
	case RouteRight:
		return "right"
	case RouteTrash:
		return "trash"
	}
	panic(fmt.Sprintf("unknown route: %d", int(r)))
}

// A Feature is a parameterized binary test on a sample.
type Feature interface {
	// Response computes the scalar response of the feature for a sample.
	// The second return value is false if the response is undefined, for
	// example because depth is missing or a probe leaves the image.
	Response(d Data, s LabeledSample) (float64, bool)

	// Threshold is the decision threshold compared against Response.
	Threshold() float64
}

// A FeatureSampler creates randomly parameterized features.
type FeatureSampler interface {
	SampleFeature(r *rand.Rand, width, height int) Feature
}

// Evaluate routes a sample with a feature. Samples with an invalid response
// are sent to RouteTrash.
func Evaluate(d Data, s LabeledSample, f Feature) Route {
	response, ok := f.Response(d, s)
	if !ok {
		return RouteTrash
	}
	if response >= f.Threshold() {
		return RouteRight
	}
	return RouteLeft
}

// DepthAdaptiveRGB compares colour channels at two probe pixels whose offsets
// from the sample are scaled by the inverse depth at the sample, making the
// feature approximately invariant to the distance of the camera.
type DepthAdaptiveRGB struct {
	// Offsets are (row, column) in pixel-metres.
	Offset1 [2]float64
	Offset2 [2]float64

	Channel1 int
	Channel2 int

	Thresh float64
}

func (f *DepthAdaptiveRGB) Response(d Data, s LabeledSample) (float64, bool) {
	depth, ok := d.Depth(s.Frame, s.Row, s.Col)
	if !ok || depth <= 0 {
		return 0, false
	}
	c1, ok := f.probe(d, s, f.Offset1, f.Channel1, depth)
	if !ok {
		return 0, false
	}
	c2, ok := f.probe(d, s, f.Offset2, f.Channel2, depth)
	if !ok {
		return 0, false
	}
	return c1 - c2, true
}

func (f *DepthAdaptiveRGB) Threshold() float64 {
	return f.Thresh
}

func (f *DepthAdaptiveRGB) probe(d Data, s LabeledSample, offset [2]float64, channel int,
	depth float64) (float64, bool) {
	row := s.Row + int(math.Round(offset[0]/depth))
	col := s.Col + int(math.Round(offset[1]/depth))
	return d.Color(s.Frame, row, col, channel)
}

// DepthAdaptiveRGBSampler samples DepthAdaptiveRGB features uniformly.
type DepthAdaptiveRGBSampler struct {
	// MaxOffset bounds the magnitude of each offset component.
	// It is further limited by the image size. If zero, DefaultMaxOffset is
	// used.
	MaxOffset float64

	// MaxThreshold bounds the magnitude of thresholds. If zero,
	// DefaultMaxThreshold is used.
	MaxThreshold float64
}

func (d DepthAdaptiveRGBSampler) SampleFeature(r *rand.Rand, width, height int) Feature {
	maxOffset := d.MaxOffset
	if maxOffset == 0 {
		maxOffset = DefaultMaxOffset
	}
	maxThresh := d.MaxThreshold
	if maxThresh == 0 {
		maxThresh = DefaultMaxThreshold
	}
	maxRow := min(maxOffset, float64(height))
	maxCol := min(maxOffset, float64(width))
	uniform := func(m float64) float64 {
		return (r.Float64()*2 - 1) * m
	}
	return &DepthAdaptiveRGB{
		Offset1:  [2]float64{uniform(maxRow), uniform(maxCol)},
		Offset2:  [2]float64{uniform(maxRow), uniform(maxCol)},
		Channel1: r.Intn(3),
		Channel2: r.Intn(3),
		Thresh:   uniform(maxThresh),
	}
}
