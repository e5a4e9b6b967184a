package sctree

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/unixpickle/essentials"
)

// DefaultParallelThreshold is the number of samples at which split
// candidates start being scored concurrently.
const DefaultParallelThreshold = 2048

// ErrAlreadyTrained is returned when training a tree for a second time.
var ErrAlreadyTrained = errors.New("tree already trained")

// A Trainer grows regression trees which map pixels to scene coordinates.
//
// All fields are only read during training, so one Trainer may train many
// trees at once.
type Trainer struct {
	Settings  *Settings
	Features  FeatureSampler
	Clusterer Clusterer

	// Concurrency is the maximum number of Goroutines used to grow branches
	// and score candidates. If 0, GOMAXPROCS is used.
	//
	// The resulting tree does not depend on the concurrency.
	Concurrency int

	// ParallelThreshold is the minimum number of samples at a node before
	// candidates are scored concurrently. If 0, DefaultParallelThreshold is
	// used.
	ParallelThreshold int

	// Logger, if non-nil, receives debug events for each node and a summary
	// when training finishes.
	Logger *zerolog.Logger

	Metrics *Metrics
}

// A DataValidator is a Data which can check a training set before use.
type DataValidator interface {
	Validate(samples []LabeledSample) error
}

// Train grows tree from its root using the labeled samples.
//
// The random source is consumed by the root and then used to seed an
// independent source for every branch, so the same seed always yields the
// same tree.
//
// Training may happen once per tree. A tree with a nil Root is given a new
// root node. If training fails, the first error stops the remaining branches
// and the tree is reset to an untrained tree with a single unprocessed root.
func (t *Trainer) Train(tree *Tree, data Data, samples []LabeledSample, r *rand.Rand) error {
	if tree.trained {
		return errors.Wrap(ErrAlreadyTrained, "train")
	}
	if t.Settings == nil || t.Features == nil || t.Clusterer == nil {
		return errors.New("train: settings, features and clusterer are required")
	}
	if data == nil || r == nil {
		return errors.New("train: data and random source are required")
	}
	if err := t.Settings.Validate(); err != nil {
		return errors.Wrap(err, "train")
	}
	if v, ok := data.(DataValidator); ok {
		if err := v.Validate(samples); err != nil {
			return errors.Wrap(err, "train")
		}
	}
	if tree.Root == nil {
		tree.Root = &Node{}
	}
	tree.trained = true

	logger := t.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	g := &growState{
		Trainer: t,
		data:    data,
		logger:  logger,
		queue:   newBranchQueue[growResult](t.Concurrency),
	}

	start := time.Now()
	res := g.queue.Run(func() growResult {
		return g.grow(tree.Root, samples, r)
	})
	if res.err != nil {
		tree.Root = &Node{}
		tree.trained = false
		return errors.Wrap(res.err, "train")
	}

	stats := tree.Stats()
	logger.Info().
		Int("samples", len(samples)).
		Int("leaves", stats.Leaves).
		Int("splits", stats.Splits).
		Int("absent", stats.AbsentSlots).
		Int("max_height", stats.MaxHeight).
		Dur("elapsed", time.Since(start)).
		Msg("trained tree")
	return nil
}

// Partition routes the samples with f, dropping the ones routed to
// RouteTrash.
func Partition(d Data, samples []LabeledSample, f Feature) (left, right []LabeledSample) {
	for _, s := range samples {
		switch Evaluate(d, s, f) {
		case RouteLeft:
			left = append(left, s)
		case RouteRight:
			right = append(right, s)
		}
	}
	return
}

type growResult struct {
	// node is nil when the node was discarded.
	node *Node
	err  error
}

type growState struct {
	*Trainer

	data   Data
	logger *zerolog.Logger
	queue  *branchQueue[growResult]
}

func (g *growState) grow(node *Node, samples []LabeledSample, r *rand.Rand) growResult {
	height := node.Height()
	if len(samples) == 1 || height >= g.Settings.MaxTreeDepth {
		return g.growLeaf(node, samples, height)
	} else if len(samples) == 0 {
		node.State = Discarded
		g.Metrics.node(Discarded)
		g.logger.Debug().Int("height", height).Msg("discarded empty node")
		return growResult{}
	}

	node.State = Split
	best := g.bestCandidate(samples, r)
	node.Feature = best.Feature
	node.Left = newChild(node)
	node.Right = newChild(node)
	g.Metrics.node(Split)
	g.logger.Debug().
		Int("height", height).
		Int("samples", len(samples)).
		Int("left", len(best.Left)).
		Int("right", len(best.Right)).
		Float64("objective", best.Objective).
		Msg("split node")

	leftRand := rand.New(rand.NewSource(r.Int63()))
	rightRand := rand.New(rand.NewSource(r.Int63()))
	left, right := g.queue.Fork(
		func() growResult {
			return g.grow(node.Left, best.Left, leftRand)
		},
		func() growResult {
			return g.grow(node.Right, best.Right, rightRand)
		},
	)
	node.Left = left.node
	node.Right = right.node
	if left.err != nil {
		return growResult{err: left.err}
	} else if right.err != nil {
		return growResult{err: right.err}
	}
	return growResult{node: node}
}

func (g *growState) growLeaf(node *Node, samples []LabeledSample, height int) growResult {
	mode, err := LeafMode(
		g.Clusterer,
		SampleLabels(samples),
		g.Settings.MaxLeafSamples,
		g.Settings.Bandwidth,
	)
	if err != nil {
		g.queue.Stop()
		return growResult{err: errors.Wrapf(err, "leaf at height %d", height)}
	}
	node.State = Leaf
	node.Mode = mode
	g.Metrics.node(Leaf)
	g.Metrics.leaf(len(samples))
	arr := mode.Array()
	g.logger.Debug().
		Int("height", height).
		Int("samples", len(samples)).
		Floats64("mode", arr[:]).
		Msg("leaf node")
	return growResult{node: node}
}

type candidate struct {
	Feature   Feature
	Left      []LabeledSample
	Right     []LabeledSample
	Objective float64
}

func (g *growState) bestCandidate(samples []LabeledSample, r *rand.Rand) *candidate {
	candidates := make([]candidate, g.Settings.NumCandidates)
	for i := range candidates {
		candidates[i].Feature = g.Features.SampleFeature(
			r,
			g.Settings.ImageWidth,
			g.Settings.ImageHeight,
		)
	}

	score := func(i int) {
		c := &candidates[i]
		c.Left, c.Right = Partition(g.data, samples, c.Feature)
		c.Objective = SampleObjective(samples, c.Left, c.Right)
	}
	threshold := g.ParallelThreshold
	if threshold == 0 {
		threshold = DefaultParallelThreshold
	}
	if len(samples) >= threshold {
		essentials.ConcurrentMap(g.Concurrency, len(candidates), score)
	} else {
		for i := range candidates {
			score(i)
		}
	}
	g.Metrics.candidates(len(candidates))

	best := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		if g.Settings.Selection.Better(candidates[i].Objective, best.Objective) {
			best = &candidates[i]
		}
	}
	return best
}
