package segment

import (
	"container/heap"
	"image"
	"math"

	bildseg "github.com/anthonynsimon/bild/segment"
)

// Ball is one accepted segmented region: the centroid of the region mask and
// its pixel area. Balls are created here and only read by callers.
type Ball struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Area int `json:"area"`
}

// Result contains the balls detected in one occupancy grid.
type Result struct {
	// Balls in ascending marker-label order (roughly left to right for
	// grids built from column profiles).
	Balls []Ball `json:"balls"`

	// Count is the number of accepted balls.
	Count int `json:"count"`
}

// Boundary is the sentinel marker assigned to ridge pixels between two
// competing watershed regions.
const Boundary = -1

// Detect runs marker-controlled watershed segmentation over a single-channel
// intensity grid and returns one Ball per accepted region.
//
// # Algorithm
//
//  1. Binarize the grid at the working BinaryThreshold.
//  2. Compute the exact L2 distance-to-background transform over the mask.
//  3. Threshold the transform at ForegroundFraction × max(distance); the
//     surviving pixels are sure-foreground seeds. Label seed connected
//     components (8-connected) and offset labels by +1, so the background
//     is marker 1 and outside-mask pixels are marker 0.
//  4. Flood the mask outward from the seed markers in order of decreasing
//     distance. Pixels reached by two different markers become Boundary.
//  5. For every marker >= 2, accumulate area and first-moment centroid;
//     regions below MinArea are discarded.
//
// A grid with no foreground, or one whose markers never exceed 1 (no seed
// survived the distance threshold), yields an empty Result. That is a valid
// "no detections" outcome, not an error.
//
// params must already be scaled for the grid's resolution via ScaleFor.
func Detect(gray *image.Gray, params Params) *Result {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return &Result{}
	}

	mask := binarize(gray, params.BinaryThreshold)

	dist, maxDist := distanceTransform(mask, width, height)
	if maxDist <= 0 {
		return &Result{}
	}

	markers, maxLabel := seedMarkers(mask, dist, width, height, params.ForegroundFraction*maxDist)
	if maxLabel <= 1 {
		return &Result{}
	}

	flood(markers, mask, dist, width, height)

	return collectBalls(markers, width, height, maxLabel, params.MinArea)
}

// binarize thresholds the grid into a foreground mask. The comparison is
// strict (value > threshold counts as foreground), matching the reference
// tuning where a threshold of 1 admits any set occupancy cell.
func binarize(gray *image.Gray, threshold uint8) []bool {
	level := threshold
	if level < 255 {
		level++ // bild thresholds with >=, the tuning expects >
	}
	bin := bildseg.Threshold(gray, level)

	bounds := bin.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	mask := make([]bool, width*height)
	for y := 0; y < height; y++ {
		row := bin.Pix[y*bin.Stride : y*bin.Stride+width]
		for x, v := range row {
			mask[y*width+x] = v != 0
		}
	}
	return mask
}

// distanceTransform computes the exact Euclidean distance from every mask
// pixel to the nearest background pixel (Felzenszwalb-Huttenlocher, squared
// distances with a parabola lower envelope per row). Background pixels have
// distance 0. Returns the transform and its maximum value.
func distanceTransform(mask []bool, width, height int) ([]float64, float64) {
	// big bounds any achievable distance while keeping the squared values
	// far from overflow in the envelope arithmetic below.
	big := float64(width + height)

	// Vertical pass: per-column distance (in rows) to the nearest
	// background cell.
	g := make([]float64, width*height)
	for x := 0; x < width; x++ {
		if mask[x] {
			g[x] = big
		}
		for y := 1; y < height; y++ {
			i := y*width + x
			if !mask[i] {
				g[i] = 0
			} else {
				g[i] = g[i-width] + 1
			}
		}
		for y := height - 2; y >= 0; y-- {
			i := y*width + x
			if g[i+width]+1 < g[i] {
				g[i] = g[i+width] + 1
			}
		}
	}

	// Horizontal pass: lower envelope of parabolas rooted at (x', g[x']²).
	const sentinel = 1e20
	dist := make([]float64, width*height)
	v := make([]int, width)
	z := make([]float64, width+1)
	f := make([]float64, width)
	maxDist := 0.0

	for y := 0; y < height; y++ {
		row := g[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			f[x] = row[x] * row[x]
		}

		k := 0
		v[0] = 0
		z[0] = -sentinel
		z[1] = sentinel
		for x := 1; x < width; x++ {
			var s float64
			for {
				q := v[k]
				s = ((f[x] + float64(x*x)) - (f[q] + float64(q*q))) / float64(2*x-2*q)
				if s > z[k] {
					break
				}
				k--
			}
			k++
			v[k] = x
			z[k] = s
			z[k+1] = sentinel
		}

		k = 0
		for x := 0; x < width; x++ {
			for z[k+1] < float64(x) {
				k++
			}
			dx := float64(x - v[k])
			d := math.Sqrt(dx*dx + f[v[k]])
			dist[y*width+x] = d
			if d > maxDist {
				maxDist = d
			}
		}
	}

	return dist, maxDist
}

// seedMarkers thresholds the distance transform into sure-foreground seeds
// and labels their 8-connected components. Marker numbering follows the
// watershed convention: 0 = outside the mask, 1 = background (in-mask,
// unclaimed), components start at 2. Returns the marker grid and the highest
// label assigned.
func seedMarkers(mask []bool, dist []float64, width, height int, threshold float64) ([]int, int) {
	markers := make([]int, width*height)
	for i, m := range mask {
		if m {
			markers[i] = 1
		}
	}

	next := 2
	queue := make([]int, 0, 64)
	for i := range markers {
		if markers[i] != 1 || dist[i] <= threshold {
			continue
		}

		// Grow one seed component.
		markers[i] = next
		queue = append(queue[:0], i)
		for len(queue) > 0 {
			p := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			px, py := p%width, p/width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := px+dx, py+dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					n := ny*width + nx
					if markers[n] == 1 && dist[n] > threshold {
						markers[n] = next
						queue = append(queue, n)
					}
				}
			}
		}
		next++
	}

	return markers, next - 1
}

// floodItem is one pixel awaiting watershed expansion.
type floodItem struct {
	dist  float64
	seq   int // FIFO tie-break for equal distances
	index int
	label int
}

// floodQueue is a max-heap on distance: watershed water recedes from the
// distance peaks outward, so higher cells flood first.
type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }
func (q floodQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist > q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *floodQueue) Push(x interface{}) { *q = append(*q, x.(floodItem)) }
func (q *floodQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// flood expands seed markers through the mask in order of decreasing
// distance-transform value. A background pixel (marker 1) adjacent to
// exactly one region adopts that region's label; a pixel reachable from two
// different regions becomes the Boundary sentinel and stops the expansion,
// forming the ridge between touching balls. Outside-mask pixels (marker 0)
// are never claimed.
func flood(markers []int, mask []bool, dist []float64, width, height int) {
	q := make(floodQueue, 0, 256)
	seq := 0
	for i, m := range markers {
		if m >= 2 {
			q = append(q, floodItem{dist: dist[i], seq: seq, index: i, label: m})
			seq++
		}
	}
	heap.Init(&q)

	for q.Len() > 0 {
		it := heap.Pop(&q).(floodItem)
		px, py := it.index%width, it.index/width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := px+dx, py+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				n := ny*width + nx
				if markers[n] != 1 {
					continue
				}

				if l := rivalLabel(markers, width, height, nx, ny, it.label); l != 0 {
					markers[n] = Boundary
					continue
				}

				markers[n] = it.label
				seq++
				heap.Push(&q, floodItem{dist: dist[n], seq: seq, index: n, label: it.label})
			}
		}
	}
}

// rivalLabel returns a neighboring region label different from the claiming
// one, or 0 when the pixel borders only the claiming region.
func rivalLabel(markers []int, width, height, x, y, label int) int {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			if l := markers[ny*width+nx]; l >= 2 && l != label {
				return l
			}
		}
	}
	return 0
}

// collectBalls computes area and first-moment centroid per marker label and
// filters regions below minArea.
func collectBalls(markers []int, width, height, maxLabel, minArea int) *Result {
	type moments struct {
		area int
		sumX int64
		sumY int64
	}
	regions := make([]moments, maxLabel+1)

	for i, l := range markers {
		if l < 2 {
			continue
		}
		regions[l].area++
		regions[l].sumX += int64(i % width)
		regions[l].sumY += int64(i / width)
	}

	balls := make([]Ball, 0, maxLabel-1)
	for l := 2; l <= maxLabel; l++ {
		r := regions[l]
		if r.area < minArea || r.area == 0 {
			continue
		}
		balls = append(balls, Ball{
			X:    int(r.sumX / int64(r.area)),
			Y:    int(r.sumY / int64(r.area)),
			Area: r.area,
		})
	}

	return &Result{Balls: balls, Count: len(balls)}
}
