package sctree

import "github.com/unixpickle/model3d/model3d"

// A LabeledSample is a pixel of a training frame together with the scene
// coordinate observed at that pixel.
type LabeledSample struct {
	Frame int
	Row   int
	Col   int
	Label model3d.Coord3D
}

// A List is a general array type which can have an arbitrary getter.
// This can be useful for avoiding contiguous slice allocations.
type List[T any] struct {
	Len int
	Get func(int) T
}

// SampleLabels views the labels of samples as a List.
func SampleLabels(samples []LabeledSample) List[model3d.Coord3D] {
	return List[model3d.Coord3D]{
		Len: len(samples),
		Get: func(i int) model3d.Coord3D {
			return samples[i].Label
		},
	}
}

// Truncate returns a List of at most n elements from the front of l.
func (l List[T]) Truncate(n int) List[T] {
	if n < 0 || l.Len <= n {
		return l
	}
	return List[T]{Len: n, Get: l.Get}
}

// Slice copies the list into a new slice.
func (l List[T]) Slice() []T {
	res := make([]T, l.Len)
	for i := range res {
		res[i] = l.Get(i)
	}
	return res
}
