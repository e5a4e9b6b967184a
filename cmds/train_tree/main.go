package main

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/reloc-tree/meanshift"
	"github.com/unixpickle/reloc-tree/sctree"
)

func main() {
	var configPath string
	var metricsPath string
	var seed int64
	var concurrency int
	var maxDepth int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "train_tree [flags] <dataset.json> <output.bin>",
		Short: "train one scene coordinate regression tree",
		Args:  cobra.ExactArgs(2),

		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
			logger := zerolog.New(zerolog.SyncWriter(console)).
				Level(level).With().Timestamp().Logger()

			settings := sctree.DefaultSettings()
			if configPath != "" {
				var err error
				settings, err = sctree.LoadSettings(configPath)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("max-depth") {
				settings.MaxTreeDepth = maxDepth
			}

			logger.Info().Str("path", args[0]).Msg("loading dataset")
			data, samples, err := LoadDataset(args[0], settings.DepthFactor)
			if err != nil {
				return err
			}
			logger.Info().
				Int("frames", len(data.Frames)).
				Int("samples", len(samples)).
				Msg("loaded dataset")

			reg := prometheus.NewRegistry()
			trainer := &sctree.Trainer{
				Settings:    settings,
				Features:    sctree.DepthAdaptiveRGBSampler{},
				Clusterer:   &meanshift.MeanShift{Concurrency: 1},
				Concurrency: concurrency,
				Logger:      &logger,
				Metrics:     sctree.NewMetrics(reg),
			}
			tree := sctree.NewTree()
			if err := trainer.Train(tree, data, samples, rand.New(rand.NewSource(seed))); err != nil {
				return err
			}

			logger.Info().Str("path", args[1]).Msg("writing tree")
			if err := sctree.Save(args[1], tree); err != nil {
				return err
			}
			if metricsPath != "" {
				if err := prometheus.WriteToTextfile(metricsPath, reg); err != nil {
					return errors.Wrap(err, "write metrics")
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML settings file")
	flags.StringVar(&metricsPath, "metrics", "", "write training metrics to this file")
	flags.Int64Var(&seed, "seed", 0, "random seed")
	flags.IntVar(&concurrency, "concurrency", 0, "maximum goroutines (0 uses GOMAXPROCS)")
	flags.IntVar(&maxDepth, "max-depth", sctree.DefaultMaxTreeDepth, "override max_tree_depth")
	flags.BoolVar(&verbose, "verbose", false, "log every node")

	essentials.Must(cmd.Execute())
}

// A Dataset file lists frames, relative to the file, and labeled pixels.
type Dataset struct {
	Frames []struct {
		RGB   string `json:"rgb"`
		Depth string `json:"depth"`
	} `json:"frames"`
	Samples []struct {
		Frame int        `json:"frame"`
		Row   int        `json:"row"`
		Col   int        `json:"col"`
		Label [3]float64 `json:"label"`
	} `json:"samples"`
}

func LoadDataset(path string, depthFactor float64) (*sctree.FrameSet, []sctree.LabeledSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load dataset")
	}
	defer f.Close()
	var ds Dataset
	if err := json.NewDecoder(f).Decode(&ds); err != nil {
		return nil, nil, errors.Wrap(err, "load dataset")
	}

	dir := filepath.Dir(path)
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	data := &sctree.FrameSet{DepthFactor: depthFactor}
	for _, fr := range ds.Frames {
		frame, err := sctree.LoadFrame(resolve(fr.RGB), resolve(fr.Depth))
		if err != nil {
			return nil, nil, errors.Wrap(err, "load dataset")
		}
		data.Frames = append(data.Frames, frame)
	}

	samples := make([]sctree.LabeledSample, len(ds.Samples))
	for i, s := range ds.Samples {
		samples[i] = sctree.LabeledSample{
			Frame: s.Frame,
			Row:   s.Row,
			Col:   s.Col,
			Label: model3d.NewCoord3DArray(s.Label),
		}
	}
	return data, samples, nil
}
