package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ScaleDivisor computes the largest positive integer divisor d such that
// scaling the given width by 1/d keeps it at or above minWidth.
//
// Starting from d=1 (no scaling), the divisor is incremented as long as the
// next step would still respect the floor. An image already narrower than
// minWidth yields d=1.
func ScaleDivisor(width, minWidth int) int {
	d := 1
	for minWidth > 0 && width/(d+1) >= minWidth {
		d++
	}
	return d
}

// Normalize rescales an image so downstream detection thresholds, tuned at a
// reference resolution, remain valid.
//
// The image is shrunk to width/d × height/d where d = ScaleDivisor(width,
// minWidth), using nearest-neighbor resampling. Nearest-neighbor is required:
// the column profiler classifies pixels with hard channel thresholds, and an
// interpolating filter would blend ball colors at block boundaries.
//
// The returned image always has width >= minWidth unless the input was
// already narrower, in which case it is returned unscaled.
func Normalize(img image.Image, minWidth int) image.Image {
	bounds := img.Bounds()
	d := ScaleDivisor(bounds.Dx(), minWidth)
	if d <= 1 {
		return img
	}
	return imaging.Resize(img, bounds.Dx()/d, bounds.Dy()/d, imaging.NearestNeighbor)
}
