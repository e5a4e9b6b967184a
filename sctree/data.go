package sctree

import (
	"image"
	"image/png"
	"math"
	"os"

	"github.com/pkg/errors"
)

// DefaultDepthFactor is the number of raw depth units per metre in 16-bit
// depth maps, i.e. millimetre depth.
const DefaultDepthFactor = 1000.0

// Data is the read-only context that features are evaluated against.
//
// Every query reports ok=false when the pixel lies outside the frame or when
// the requested signal is missing there.
type Data interface {
	// Depth returns the depth in metres at a pixel.
	Depth(frame, row, col int) (depth float64, ok bool)

	// Color returns a colour channel (0=R, 1=G, 2=B) in the range [0, 255].
	Color(frame, row, col, channel int) (value float64, ok bool)
}

// A Frame is one registered RGB-D image pair.
type Frame struct {
	RGB   image.Image
	Depth *image.Gray16
}

// A FrameSet is a Data backed by in-memory frames.
type FrameSet struct {
	Frames []Frame

	// DepthFactor converts raw depth values to metres.
	// If zero, DefaultDepthFactor is used. Negative values are invalid.
	DepthFactor float64
}

func (f *FrameSet) Depth(frame, row, col int) (float64, bool) {
	if frame < 0 || frame >= len(f.Frames) {
		return 0, false
	}
	depth := f.Frames[frame].Depth
	b := depth.Bounds()
	p := image.Pt(b.Min.X+col, b.Min.Y+row)
	if !p.In(b) {
		return 0, false
	}
	raw := depth.Gray16At(p.X, p.Y).Y
	if raw == 0 {
		return 0, false
	}
	factor := f.DepthFactor
	if factor == 0 {
		factor = DefaultDepthFactor
	}
	return float64(raw) / factor, true
}

func (f *FrameSet) Color(frame, row, col, channel int) (float64, bool) {
	if frame < 0 || frame >= len(f.Frames) {
		return 0, false
	}
	rgb := f.Frames[frame].RGB
	b := rgb.Bounds()
	p := image.Pt(b.Min.X+col, b.Min.Y+row)
	if !p.In(b) {
		return 0, false
	}
	r, g, bl, _ := rgb.At(p.X, p.Y).RGBA()
	switch channel {
	case 0:
		return float64(r >> 8), true
	case 1:
		return float64(g >> 8), true
	case 2:
		return float64(bl >> 8), true
	}
	return 0, false
}

// Validate checks that the frames are consistent and that every sample
// refers to an existing frame and an in-bounds pixel.
func (f *FrameSet) Validate(samples []LabeledSample) error {
	if f.DepthFactor < 0 || math.IsNaN(f.DepthFactor) {
		return errors.Errorf("validate frames: invalid depth factor %f", f.DepthFactor)
	}
	for i, frame := range f.Frames {
		if frame.RGB == nil || frame.Depth == nil {
			return errors.Errorf("validate frames: frame %d is missing an image", i)
		}
		if frame.RGB.Bounds().Size() != frame.Depth.Bounds().Size() {
			return errors.Errorf("validate frames: frame %d has mismatched RGB and depth sizes", i)
		}
	}
	for i, s := range samples {
		if s.Frame < 0 || s.Frame >= len(f.Frames) {
			return errors.Errorf("validate samples: sample %d refers to missing frame %d", i, s.Frame)
		}
		size := f.Frames[s.Frame].Depth.Bounds().Size()
		if s.Row < 0 || s.Col < 0 || s.Row >= size.Y || s.Col >= size.X {
			return errors.Errorf("validate samples: sample %d pixel (%d, %d) out of bounds",
				i, s.Row, s.Col)
		}
	}
	return nil
}

// LoadFrame reads an RGB image and a 16-bit depth PNG from disk.
func LoadFrame(rgbPath, depthPath string) (Frame, error) {
	rgb, err := readPNG(rgbPath)
	if err != nil {
		return Frame{}, errors.Wrap(err, "load frame")
	}
	depthImg, err := readPNG(depthPath)
	if err != nil {
		return Frame{}, errors.Wrap(err, "load frame")
	}
	depth, ok := depthImg.(*image.Gray16)
	if !ok {
		return Frame{}, errors.Errorf("load frame: depth map %s is not 16-bit grayscale", depthPath)
	}
	return Frame{RGB: rgb, Depth: depth}, nil
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return img, nil
}
