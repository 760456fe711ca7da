package profile

import (
	"image"
	"runtime"
	"sync"
)

// ColorProfile is the per-column pixel count for one color class: entry x is
// the number of pixels in column x classified as that color. Its length
// equals the image width. Profiles are built once and never mutated.
type ColorProfile []int

// Max returns the largest column count in the profile, or 0 for an empty one.
func (p ColorProfile) Max() int {
	max := 0
	for _, v := range p {
		if v > max {
			max = v
		}
	}
	return max
}

// IsZero reports whether no column matched at all. An all-zero profile is a
// valid output (no pixels of this color in the image); downstream stages
// treat it as "no detections", not as an error.
func (p ColorProfile) IsZero() bool {
	for _, v := range p {
		if v != 0 {
			return false
		}
	}
	return true
}

// Image profiles every configured color class over img in one pass per
// column, returning one ColorProfile per classifier keyed by class name.
//
// Columns are counted concurrently by up to workers goroutines, each owning
// an interleaved set of columns. workers <= 0 selects GOMAXPROCS. The
// function is pure with respect to the image: it only reads pixels.
func Image(img image.Image, classifiers []Classifier, workers int) map[string]ColorProfile {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	profiles := make([]ColorProfile, len(classifiers))
	for i := range profiles {
		profiles[i] = make(ColorProfile, width)
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > width {
		workers = width
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for x := start; x < width; x += workers {
				countColumn(img, bounds, x, height, classifiers, profiles)
			}
		}(w)
	}
	wg.Wait()

	out := make(map[string]ColorProfile, len(classifiers))
	for i, c := range classifiers {
		out[c.Name] = profiles[i]
	}
	return out
}

// countColumn fills column x of every profile. Each worker owns disjoint
// columns, so writes never race.
func countColumn(img image.Image, bounds image.Rectangle, x, height int, classifiers []Classifier, profiles []ColorProfile) {
	for y := 0; y < height; y++ {
		r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
		r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
		for i, c := range classifiers {
			if c.Match(r8, g8, b8) {
				profiles[i][x]++
			}
		}
	}
}

// MaxHeight returns the tallest column count across a set of profiles. It is
// the row dimension used when rasterizing the profiles into occupancy grids,
// so all grids for one image share a common height.
func MaxHeight(profiles map[string]ColorProfile) int {
	max := 0
	for _, p := range profiles {
		if m := p.Max(); m > max {
			max = m
		}
	}
	return max
}
