package segment

import "math"

// VizParams controls how detections are drawn onto visualization images.
type VizParams struct {
	// CircleRadius is the radius of the marker drawn at each ball center.
	CircleRadius int `yaml:"circleRadius"`

	// TextScale scales annotation text relative to the base font size.
	TextScale float64 `yaml:"textScale"`

	// TextThickness is the stroke repetition used to embolden text.
	TextThickness int `yaml:"textThickness"`
}

// Params is the tunable parameter set of the watershed segmenter. Base
// values are tuned at the reference resolution (RefWidth × RefHeight);
// ScaleFor derives the working set for an actual grid size. A Params value
// is constructed once per detection call and never mutated.
type Params struct {
	// BinaryThreshold is the intensity above which a grid cell counts as
	// foreground when binarizing (0-255).
	BinaryThreshold uint8 `yaml:"binaryThreshold"`

	// DistanceWeight selects the distance transform mask size. It is pinned
	// to 0 (precise L2) by ScaleFor; the field exists so a tuning file can
	// state it explicitly.
	DistanceWeight int `yaml:"distanceWeight"`

	// ForegroundFraction is the fraction of the maximum distance-transform
	// value above which a pixel becomes a sure-foreground seed (0-1).
	// Higher values separate touching balls more aggressively but can
	// fragment a single ball.
	ForegroundFraction float64 `yaml:"foregroundFraction"`

	// MinArea is the minimum pixel area for a segmented region to be
	// accepted as a ball.
	MinArea int `yaml:"minArea"`

	// RefWidth and RefHeight are the reference resolution the base values
	// were tuned at.
	RefWidth  int `yaml:"refWidth"`
	RefHeight int `yaml:"refHeight"`

	Viz VizParams `yaml:"viz"`
}

// DefaultParams returns the parameter set tuned against the reference
// color maps (5510×408).
func DefaultParams() Params {
	return Params{
		BinaryThreshold:    1,
		DistanceWeight:     0,
		ForegroundFraction: 0.55,
		MinArea:            500,
		RefWidth:           5510,
		RefHeight:          408,
		Viz: VizParams{
			CircleRadius:  10,
			TextScale:     0.5,
			TextThickness: 2,
		},
	}
}

// ScaleFactor returns the resolution factor of a grid relative to the
// reference resolution: min(width/RefWidth, height/RefHeight).
func (p Params) ScaleFactor(width, height int) float64 {
	return math.Min(float64(width)/float64(p.RefWidth), float64(height)/float64(p.RefHeight))
}

// ScaleFor derives the working parameter set for a grid of the given size.
//
// Area thresholds scale quadratically with the linear resolution factor:
// the same physical ball covers scale² as many pixels. The foreground
// fraction is nudged up at very small scale (less separation capability in
// few pixels) and down at very large scale; the binary threshold moves the
// same way to compensate for resampling and compression artifacts. The
// visualization sizes scale linearly with floors that keep markers legible.
func (p Params) ScaleFor(width, height int) Params {
	scale := p.ScaleFactor(width, height)

	scaled := p
	scaled.MinArea = int(float64(p.MinArea) * scale * scale)
	if scaled.MinArea < 10 {
		scaled.MinArea = 10
	}

	// Mask size 0 requests the precise L2 transform.
	scaled.DistanceWeight = 0

	switch {
	case scale < 0.5:
		scaled.ForegroundFraction = math.Min(0.9, p.ForegroundFraction+0.1)
		if t := int(p.BinaryThreshold) + 2; t <= 10 {
			scaled.BinaryThreshold = uint8(t)
		} else {
			scaled.BinaryThreshold = 10
		}
	case scale > 2.0:
		scaled.ForegroundFraction = math.Max(0.1, p.ForegroundFraction-0.1)
		if p.BinaryThreshold > 0 {
			scaled.BinaryThreshold = p.BinaryThreshold - 1
		}
	}

	scaled.Viz.CircleRadius = int(float64(p.Viz.CircleRadius) * scale)
	if scaled.Viz.CircleRadius < 3 {
		scaled.Viz.CircleRadius = 3
	}
	scaled.Viz.TextScale = math.Max(0.3, p.Viz.TextScale*scale)
	scaled.Viz.TextThickness = int(float64(p.Viz.TextThickness) * scale)
	if scaled.Viz.TextThickness < 1 {
		scaled.Viz.TextThickness = 1
	}

	return scaled
}
