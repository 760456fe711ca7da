package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gamevision/ballscore/internal/occlusion"
	"github.com/gamevision/ballscore/internal/profile"
	"github.com/gamevision/ballscore/internal/segment"
)

// Palette used across all visualization images.
var (
	Red       = color.RGBA{R: 255, A: 255}
	Blue      = color.RGBA{B: 255, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green     = color.RGBA{G: 255, A: 255}
	Orange    = color.RGBA{R: 255, G: 165, A: 255}
	Yellow    = color.RGBA{R: 255, G: 255, A: 255}
	DarkBlue  = color.RGBA{B: 139, A: 255}
	Black     = color.RGBA{A: 255}
)

// ReferenceMap renders the white reference profile with the located tape
// spans tinted orange, so a reviewer can check the occlusion search at a
// glance.
func ReferenceMap(ref profile.ColorProfile, width, maxHeight int, regions [2]occlusion.Region) *image.RGBA {
	img := newCanvas(width, maxHeight)
	drawProfile(img, ref, maxHeight, White)
	for _, r := range regions {
		for x := r.Left; x < r.Right && x < width; x++ {
			if x < 0 || ref[x] <= 0 {
				continue
			}
			drawColumn(img, x, ref[x], maxHeight, Orange)
		}
	}
	return img
}

// ColorMap renders a ball-color profile together with its reconstruction:
// the original columns in the ball color, the median edge estimates as green
// ticks beside each tape span, and the interpolated spans in white.
func ColorMap(original, reconstructed profile.ColorProfile, width, maxHeight int, regions [2]occlusion.Region, estimates [2]occlusion.EdgeEstimates, base color.RGBA) *image.RGBA {
	img := newCanvas(width, maxHeight)
	drawProfile(img, original, maxHeight, base)

	sampleRange := int(occlusion.SampleFrac * float64(width))
	if sampleRange < 1 {
		sampleRange = 1
	}

	for i, r := range regions {
		if r.Degenerate() {
			continue
		}
		est := estimates[i]

		if est.Left > 0 {
			y := maxHeight - est.Left
			for x := max(0, r.Left-sampleRange); x < r.Left; x++ {
				setPixel(img, x, y, Green)
			}
		}
		if est.Right > 0 {
			y := maxHeight - est.Right
			for x := r.Right; x < min(width, r.Right+sampleRange); x++ {
				setPixel(img, x, y, Green)
			}
		}
		if est.Skipped() {
			continue
		}
		for x := r.Left; x < r.Right; x++ {
			drawColumn(img, x, reconstructed[x], maxHeight, White)
		}
	}
	return img
}

// Detections promotes an occupancy grid to RGB and marks every accepted ball
// with a filled circle plus a count and resolution banner.
func Detections(gray *image.Gray, balls []segment.Ball, viz segment.VizParams) *image.RGBA {
	bounds := gray.Bounds()
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, gray, bounds.Min, draw.Src)

	for _, b := range balls {
		fillCircle(img, b.X, b.Y, viz.CircleRadius, DarkBlue)
	}

	drawText(img, 10, 20, fmt.Sprintf("Balls: %d", len(balls)), Yellow, viz.TextThickness)
	drawText(img, 10, 40, fmt.Sprintf("Res: %dx%d", bounds.Dx(), bounds.Dy()), Yellow, viz.TextThickness)
	return img
}

// Combined overlays both color classes on one image: red and blue occupancy
// in their own colors, yellow markers for red balls, green markers for blue
// balls, and a count banner. When expected counts are known (parsed from the
// input filename) an accuracy line is added.
func Combined(redGrid, blueGrid *occlusion.Grid, redBalls, blueBalls []segment.Ball, viz segment.VizParams, expectedRed, expectedBlue int, hasExpected bool) *image.RGBA {
	width, height := redGrid.Width, redGrid.Height
	img := newCanvas(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if redGrid.At(x, y) {
				img.SetRGBA(x, y, Red)
			}
			if blueGrid.At(x, y) {
				img.SetRGBA(x, y, Blue)
			}
		}
	}

	for _, b := range redBalls {
		fillCircle(img, b.X, b.Y, viz.CircleRadius, Yellow)
	}
	for _, b := range blueBalls {
		fillCircle(img, b.X, b.Y, viz.CircleRadius, Green)
	}

	total := len(redBalls) + len(blueBalls)
	drawText(img, 10, 20, fmt.Sprintf("Total Balls: %d", total), White, viz.TextThickness)
	drawText(img, 10, 40, fmt.Sprintf("Red: %d", len(redBalls)), Red, viz.TextThickness)
	drawText(img, 10, 60, fmt.Sprintf("Blue: %d", len(blueBalls)), Blue, viz.TextThickness)

	if hasExpected {
		diff := total - (expectedRed + expectedBlue)
		col := Green
		if diff != 0 {
			col = Red
		}
		drawText(img, 10, 80, fmt.Sprintf("Accuracy: %+d", diff), col, viz.TextThickness)
	}
	return img
}

func newCanvas(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: Black}, image.Point{}, draw.Src)
	return img
}

// drawProfile fills each column's bottom count cells with col.
func drawProfile(img *image.RGBA, p profile.ColorProfile, maxHeight int, col color.RGBA) {
	for x, h := range p {
		drawColumn(img, x, h, maxHeight, col)
	}
}

func drawColumn(img *image.RGBA, x, h, maxHeight int, col color.RGBA) {
	if h > maxHeight {
		h = maxHeight
	}
	for y := maxHeight - h; y < maxHeight; y++ {
		img.SetRGBA(x, y, col)
	}
}

func setPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, col)
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				setPixel(img, cx+dx, cy+dy, col)
			}
		}
	}
}

// drawText renders a caption with the basic 7x13 face. Thickness is emulated
// by re-striking the string at one-pixel offsets.
func drawText(img *image.RGBA, x, y int, s string, col color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	for i := 0; i < thickness; i++ {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(col),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+i, y),
		}
		d.DrawString(s)
	}
}
