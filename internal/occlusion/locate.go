package occlusion

import (
	"fmt"

	"github.com/gamevision/ballscore/internal/profile"
)

// Region is a contiguous span of columns [Left, Right) where the reference
// profile is occluded by a tape marker. Regions always satisfy
// 0 <= Left <= Right <= width; a zero-width region (Left == Right) means the
// marker was not found in its search zone.
type Region struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Width returns the number of occluded columns.
func (r Region) Width() int {
	return r.Right - r.Left
}

// Degenerate reports whether the search failed to find a marker in this
// region's zone. Callers must treat a degenerate region as a reconstruction
// failure: there is no span to interpolate through.
func (r Region) Degenerate() bool {
	return r.Right <= r.Left
}

// Zones configures where the two tape markers are searched for, as fractions
// of the image width, plus the height threshold (fraction of the maximum
// profile height) a column must exceed to count as tape.
type Zones struct {
	LeftStart  float64 `yaml:"leftStart"`
	LeftEnd    float64 `yaml:"leftEnd"`
	RightStart float64 `yaml:"rightStart"`
	RightEnd   float64 `yaml:"rightEnd"`
	HeightFrac float64 `yaml:"heightFrac"`
}

// Locate finds the two tape regions in the white reference profile.
//
// Within each search zone, the seed is the column with the maximum profile
// value among columns exceeding the height threshold. From the seed the
// region expands left and right, one column at a time, while the profile
// value stays above the threshold; expansion stops on the first
// below-threshold column on either side. If no column in a zone exceeds the
// threshold, the zone yields a degenerate region anchored at the zone start.
//
// The two zones are disjoint by configuration, so the returned regions never
// overlap. Regions are ordered left-to-right.
func Locate(ref profile.ColorProfile, width, maxHeight int, zones Zones) ([2]Region, error) {
	if len(ref) != width {
		return [2]Region{}, fmt.Errorf("reference profile length %d does not match width %d", len(ref), width)
	}

	threshold := int(float64(maxHeight) * zones.HeightFrac)

	left := expand(ref, seekPeak(ref, int(float64(width)*zones.LeftStart), int(float64(width)*zones.LeftEnd), threshold), width, threshold)
	right := expand(ref, seekPeak(ref, int(float64(width)*zones.RightStart), int(float64(width)*zones.RightEnd), threshold), width, threshold)

	return [2]Region{left, right}, nil
}

// seekPeak returns the column with the largest profile value above threshold
// in [start, end). When nothing exceeds the threshold the peak degenerates to
// the zone's first column.
func seekPeak(ref profile.ColorProfile, start, end, threshold int) int {
	if start < 0 {
		start = 0
	}
	if end > len(ref) {
		end = len(ref)
	}
	peak := start
	best := 0
	for x := start; x < end; x++ {
		if ref[x] > threshold && ref[x] > best {
			best = ref[x]
			peak = x
		}
	}
	return peak
}

// expand grows a region outward from the seed while the profile stays above
// the threshold. A seed that is itself at or below the threshold produces a
// zero-width (degenerate) region.
func expand(ref profile.ColorProfile, peak, width, threshold int) Region {
	if peak >= len(ref) || ref[peak] <= threshold {
		return Region{Left: peak, Right: peak}
	}

	left := peak
	for left > 0 && ref[left] > threshold {
		left--
	}
	right := peak
	for right < width-1 && ref[right] > threshold {
		right++
	}
	return Region{Left: left, Right: right}
}
