package sctree

import "github.com/unixpickle/model3d/model3d"

// Variance computes the mean squared Euclidean distance of the labels to
// their centroid, i.e. the trace of the label covariance.
//
// The variance of an empty list is 0.
func Variance(labels List[model3d.Coord3D]) float64 {
	if labels.Len == 0 {
		return 0
	}
	var sum model3d.Coord3D
	for i := 0; i < labels.Len; i++ {
		sum = sum.Add(labels.Get(i))
	}
	mean := sum.Scale(1 / float64(labels.Len))

	var total float64
	for i := 0; i < labels.Len; i++ {
		d := labels.Get(i).Sub(mean)
		total += d.Dot(d)
	}
	return total / float64(labels.Len)
}

// Objective is the variance reduction obtained by splitting all into left and
// right:
//
//	V(all) - (|left|/|all| V(left) + |right|/|all| V(right))
//
// Samples of all which were trashed appear in neither side, so the two
// weights may sum to less than one.
func Objective(all, left, right List[model3d.Coord3D]) float64 {
	if all.Len == 0 {
		return 0
	}
	n := float64(all.Len)
	leftVal := float64(left.Len) / n * Variance(left)
	rightVal := float64(right.Len) / n * Variance(right)
	return Variance(all) - (leftVal + rightVal)
}

// SampleObjective is Objective on the labels of samples.
func SampleObjective(all, left, right []LabeledSample) float64 {
	return Objective(SampleLabels(all), SampleLabels(left), SampleLabels(right))
}

// A Selection decides which candidate objective wins a split.
type Selection string

const (
	// SelectMinimum keeps the candidate with the smallest objective, with
	// ties going to the earliest candidate.
	SelectMinimum Selection = "minimum"

	// SelectMaximum keeps the candidate with the largest variance
	// reduction, with ties going to the earliest candidate.
	SelectMaximum Selection = "maximum"
)

// Better reports whether objective a beats the current best b.
func (s Selection) Better(a, b float64) bool {
	switch s {
	case SelectMinimum, "":
		return a < b
	case SelectMaximum:
		return a > b
	}
	panic("unknown selection: " + string(s))
}

func (s Selection) valid() bool {
	return s == "" || s == SelectMinimum || s == SelectMaximum
}
