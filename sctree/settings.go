package sctree

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxTreeDepth  = 16
	DefaultNumCandidates = 5
	DefaultImageWidth    = 640
	DefaultImageHeight   = 480
)

// Settings configures the training of a tree.
type Settings struct {
	// MaxTreeDepth is the height at which nodes are forced to become leaves.
	// A value of 0 makes the root a leaf.
	MaxTreeDepth int `yaml:"max_tree_depth"`

	// ImageWidth and ImageHeight bound the sampling of features.
	ImageWidth  int `yaml:"image_width"`
	ImageHeight int `yaml:"image_height"`

	// NumCandidates is the number of random features tried per split.
	NumCandidates int `yaml:"num_candidates"`

	// MaxLeafSamples caps the labels clustered for a leaf mode.
	MaxLeafSamples int `yaml:"max_leaf_samples"`

	// Bandwidth is the Gaussian kernel bandwidth for leaf clustering.
	Bandwidth float64 `yaml:"bandwidth"`

	// Selection picks the winning candidate objective.
	Selection Selection `yaml:"selection"`

	// DepthFactor is the number of raw depth units per metre, used when
	// loading a FrameSet. The Trainer itself never reads it. Zero means
	// DefaultDepthFactor and FrameSet.Validate rejects negative values.
	DepthFactor float64 `yaml:"depth_factor"`
}

// DefaultSettings returns 5 candidates per split, 500 clustered labels per
// leaf, a bandwidth of 0.01 and minimum-objective selection.
func DefaultSettings() *Settings {
	return &Settings{
		MaxTreeDepth:   DefaultMaxTreeDepth,
		ImageWidth:     DefaultImageWidth,
		ImageHeight:    DefaultImageHeight,
		NumCandidates:  DefaultNumCandidates,
		MaxLeafSamples: DefaultMaxLeafSamples,
		Bandwidth:      DefaultBandwidth,
		Selection:      SelectMinimum,
		DepthFactor:    DefaultDepthFactor,
	}
}

// LoadSettings reads a YAML settings file. Keys missing from the file keep
// their default values.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}
	res := DefaultSettings()
	if err := yaml.Unmarshal(data, res); err != nil {
		return nil, errors.Wrap(err, "load settings")
	}
	if err := res.Validate(); err != nil {
		return nil, errors.Wrap(err, "load settings")
	}
	return res, nil
}

// Validate checks that the settings can be used for training.
func (s *Settings) Validate() error {
	if s.MaxTreeDepth < 0 {
		return errors.Errorf("invalid max_tree_depth: %d", s.MaxTreeDepth)
	}
	if s.ImageWidth <= 0 || s.ImageHeight <= 0 {
		return errors.Errorf("invalid image size: %dx%d", s.ImageWidth, s.ImageHeight)
	}
	if s.NumCandidates <= 0 {
		return errors.Errorf("invalid num_candidates: %d", s.NumCandidates)
	}
	if s.MaxLeafSamples <= 0 {
		return errors.Errorf("invalid max_leaf_samples: %d", s.MaxLeafSamples)
	}
	if s.Bandwidth <= 0 {
		return errors.Errorf("invalid bandwidth: %f", s.Bandwidth)
	}
	if !s.Selection.valid() {
		return errors.Errorf("invalid selection: %q", s.Selection)
	}
	return nil
}
