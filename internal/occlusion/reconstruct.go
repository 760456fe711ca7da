package occlusion

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gamevision/ballscore/internal/profile"
)

// SampleFrac is the width of the median-sampling neighborhood outside each
// region edge, as a fraction of the image width. The reference tuning used 20
// columns at a 5510-pixel map width.
const SampleFrac = 0.0036

// EdgeEstimates holds the robust height estimates computed just outside a
// region's edges. A zero estimate means the neighborhood held no positive
// columns and the reconstruction for that region was skipped.
type EdgeEstimates struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Skipped reports whether the region was left unreconstructed because one of
// its edge neighborhoods held no color at all.
func (e EdgeEstimates) Skipped() bool {
	return e.Left == 0 || e.Right == 0
}

// Reconstruct bridges a ball-color profile through the located tape regions.
//
// The result equals p outside the regions. Inside each non-degenerate region,
// heights are linearly interpolated between median height estimates sampled
// from max(1, round(SampleFrac*width)) columns immediately outside each edge.
// The median ignores zero columns: under the tape the true ball height is
// unknown, and a zero neighbor says "no ball here", which must not drag the
// estimate down. If either neighborhood has no positive column the estimate
// is 0 and the region is left as-is: the original near-zero heights stand,
// and the per-region estimates returned to the caller record the skip.
//
// Interpolated heights are truncated to integer pixel counts.
func Reconstruct(p profile.ColorProfile, width, maxHeight int, regions [2]Region) (profile.ColorProfile, [2]EdgeEstimates, error) {
	if len(p) != width {
		return nil, [2]EdgeEstimates{}, fmt.Errorf("profile length %d does not match width %d", len(p), width)
	}

	out := make(profile.ColorProfile, width)
	copy(out, p)

	sampleRange := int(SampleFrac * float64(width))
	if sampleRange < 1 {
		sampleRange = 1
	}

	var estimates [2]EdgeEstimates
	for i, r := range regions {
		if r.Degenerate() {
			continue
		}

		leftStart := r.Left - sampleRange
		if leftStart < 0 {
			leftStart = 0
		}
		rightEnd := r.Right + sampleRange
		if rightEnd > width {
			rightEnd = width
		}

		est := EdgeEstimates{
			Left:  medianPositive(p[leftStart:r.Left]),
			Right: medianPositive(p[r.Right:rightEnd]),
		}
		estimates[i] = est
		if est.Skipped() {
			continue
		}

		span := float64(r.Right - r.Left)
		for x := r.Left; x < r.Right; x++ {
			progress := float64(x-r.Left) / span
			out[x] = int(float64(est.Left) + progress*float64(est.Right-est.Left))
			if out[x] > maxHeight {
				out[x] = maxHeight
			}
		}
	}

	return out, estimates, nil
}

// medianPositive returns the median of the strictly positive values in vals,
// or 0 when there are none.
func medianPositive(vals []int) int {
	positive := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v > 0 {
			positive = append(positive, float64(v))
		}
	}
	if len(positive) == 0 {
		return 0
	}
	sort.Float64s(positive)
	return int(math.Round(stat.Quantile(0.5, stat.Empirical, positive, nil)))
}

// Grid is a 2-D occupancy rasterization of a (possibly reconstructed) height
// profile: column x has its bottom height(x) cells set. Row 0 is the top of
// the grid. A Grid is derived entirely from its profile and never mutated
// after construction.
type Grid struct {
	Width  int
	Height int
	cells  []uint8 // row-major, 1 = occupied
}

// BuildGrid rasterizes a height profile into an occupancy grid of shape
// maxHeight × width. Summing the set cells of any column reproduces the
// profile entry exactly (heights above maxHeight cannot occur for profiles
// produced by this package; they are clamped defensively).
func BuildGrid(p profile.ColorProfile, width, maxHeight int) (*Grid, error) {
	if len(p) != width {
		return nil, fmt.Errorf("profile length %d does not match width %d", len(p), width)
	}
	if maxHeight < 0 {
		return nil, fmt.Errorf("invalid grid height %d", maxHeight)
	}

	g := &Grid{
		Width:  width,
		Height: maxHeight,
		cells:  make([]uint8, width*maxHeight),
	}
	for x, h := range p {
		if h > maxHeight {
			h = maxHeight
		}
		for y := maxHeight - h; y < maxHeight; y++ {
			g.cells[y*width+x] = 1
		}
	}
	return g, nil
}

// At reports whether cell (x, y) is occupied. Out-of-range cells are empty.
func (g *Grid) At(x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	return g.cells[y*g.Width+x] != 0
}

// ColumnSum returns the number of occupied cells in column x.
func (g *Grid) ColumnSum(x int) int {
	sum := 0
	for y := 0; y < g.Height; y++ {
		if g.cells[y*g.Width+x] != 0 {
			sum++
		}
	}
	return sum
}

// Gray exports the grid as an 8-bit grayscale image with occupied cells at
// full intensity. This is both the segmenter's input format and the
// persistence format: a saved grid can be re-segmented later without
// recomputing the profiling and interpolation stages.
func (g *Grid) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y*g.Width+x] != 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
