package detect

import (
	"fmt"
	"image"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gamevision/ballscore/internal/config"
	"github.com/gamevision/ballscore/internal/imaging"
	"github.com/gamevision/ballscore/internal/occlusion"
	"github.com/gamevision/ballscore/internal/profile"
	"github.com/gamevision/ballscore/internal/segment"
)

// ClassResult is the per-color-class output of one pipeline run.
type ClassResult struct {
	// Profile is the raw column profile for this class.
	Profile profile.ColorProfile

	// Reconstructed is the profile with the tape spans bridged.
	Reconstructed profile.ColorProfile

	// Estimates are the median edge heights used per tape region; a zero
	// estimate records a skipped reconstruction.
	Estimates [2]occlusion.EdgeEstimates

	// Grid is the occupancy rasterization of Reconstructed.
	Grid *occlusion.Grid

	// Balls are the accepted segmented regions.
	Balls []segment.Ball
}

// Result aggregates everything one image produced.
type Result struct {
	// Width and Height are the dimensions actually processed, after
	// resolution normalization.
	Width  int
	Height int

	// MaxHeight is the tallest profile column, the row dimension of the
	// occupancy grids. Zero means the image held no configured color at
	// all and every class result is empty.
	MaxHeight int

	// Reference is the white tape profile; Regions are the two tape spans
	// located on it, ordered left to right.
	Reference profile.ColorProfile
	Regions   [2]occlusion.Region

	// Red and Blue are the ball class results.
	Red  *ClassResult
	Blue *ClassResult

	// Params is the resolution-scaled segmentation parameter set used for
	// both classes.
	Params segment.Params
}

// Counts returns the accepted ball counts per class.
func (r *Result) Counts() (red, blue int) {
	if r.Red != nil {
		red = len(r.Red.Balls)
	}
	if r.Blue != nil {
		blue = len(r.Blue.Balls)
	}
	return red, blue
}

// Detector runs the detection pipeline with a fixed configuration.
// It is safe for concurrent use: all state is immutable after New.
type Detector struct {
	cfg *config.Config
	log *logrus.Logger
}

// New creates a Detector. The logger is the detector's only output channel
// besides return values; passing a logger with DebugLevel enabled surfaces
// per-stage diagnostics.
func New(cfg *config.Config, logger *logrus.Logger) *Detector {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Detector{cfg: cfg, log: logger}
}

// ProcessImage runs the full pipeline on one decoded image.
//
// The stages run strictly forward: normalize, profile, locate, then per ball
// color reconstruct, rasterize, and segment. The two ball colors are
// processed concurrently; their profiles and grids are disjoint. An image
// with no matching pixels at all yields a Result with MaxHeight 0 and empty
// class results, not an error.
func (d *Detector) ProcessImage(img image.Image) (*Result, error) {
	if d.cfg.Scaling.Enabled {
		before := img.Bounds()
		img = imaging.Normalize(img, d.cfg.Scaling.MinWidth)
		if after := img.Bounds(); after != before {
			d.log.WithFields(logrus.Fields{
				"from": fmt.Sprintf("%dx%d", before.Dx(), before.Dy()),
				"to":   fmt.Sprintf("%dx%d", after.Dx(), after.Dy()),
			}).Debug("normalized input resolution")
		}
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	profiles := profile.Image(img, d.cfg.Classifiers, d.cfg.Workers)
	ref := profiles[config.Reference]

	maxHeight := profile.MaxHeight(profiles)
	res := &Result{
		Width:     width,
		Height:    height,
		MaxHeight: maxHeight,
		Reference: ref,
		Red:       &ClassResult{Profile: profiles[config.Red]},
		Blue:      &ClassResult{Profile: profiles[config.Blue]},
	}
	if maxHeight == 0 {
		d.log.Debug("no color pixels found in the image")
		return res, nil
	}

	regions, err := occlusion.Locate(ref, width, maxHeight, d.cfg.Zones)
	if err != nil {
		return nil, fmt.Errorf("locating tape regions: %w", err)
	}
	res.Regions = regions
	for i, r := range regions {
		if r.Degenerate() {
			d.log.WithField("zone", i).Debug("tape marker not found; region left unreconstructed")
		}
	}

	// Segmentation thresholds scale with the grid resolution, not the
	// photo resolution: the grid is maxHeight rows tall.
	res.Params = d.cfg.Segmentation.ScaleFor(width, maxHeight)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, cr := range []*ClassResult{res.Red, res.Blue} {
		wg.Add(1)
		go func(i int, cr *ClassResult) {
			defer wg.Done()
			errs[i] = d.processClass(cr, width, maxHeight, regions, res.Params)
		}(i, cr)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	red, blue := res.Counts()
	d.log.WithFields(logrus.Fields{"red": red, "blue": blue}).Debug("detection complete")
	return res, nil
}

// processClass reconstructs, rasterizes, and segments one ball color.
func (d *Detector) processClass(cr *ClassResult, width, maxHeight int, regions [2]occlusion.Region, params segment.Params) error {
	reconstructed, estimates, err := occlusion.Reconstruct(cr.Profile, width, maxHeight, regions)
	if err != nil {
		return fmt.Errorf("reconstructing profile: %w", err)
	}
	cr.Reconstructed = reconstructed
	cr.Estimates = estimates

	for i, est := range estimates {
		if !regions[i].Degenerate() && est.Skipped() {
			d.log.WithField("region", i).Debug("tape region not reconstructed: no color beside an edge")
		}
	}

	grid, err := occlusion.BuildGrid(reconstructed, width, maxHeight)
	if err != nil {
		return fmt.Errorf("building occupancy grid: %w", err)
	}
	cr.Grid = grid

	cr.Balls = segment.Detect(grid.Gray(), params).Balls
	return nil
}
