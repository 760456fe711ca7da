package occlusion

import (
	"testing"

	"github.com/gamevision/ballscore/internal/profile"
)

func TestReconstruct_LinearBridge(t *testing.T) {
	width := 1000
	p := make(profile.ColorProfile, width)
	for x := 296; x < 299; x++ {
		p[x] = 50
	}
	for x := 341; x < 344; x++ {
		p[x] = 80
	}
	regions := [2]Region{{Left: 299, Right: 341}, {Left: 550, Right: 550}}

	out, estimates, err := Reconstruct(p, width, 100, regions)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	if estimates[0] != (EdgeEstimates{Left: 50, Right: 80}) {
		t.Fatalf("estimates[0] = %+v, want {50 80}", estimates[0])
	}
	if estimates[0].Skipped() {
		t.Error("estimates[0] should not report skipped")
	}

	// Endpoints of the bridge.
	if out[299] != 50 {
		t.Errorf("out[299] = %d, want 50", out[299])
	}
	if out[340] != 79 {
		t.Errorf("out[340] = %d, want 79", out[340])
	}

	// The bridge is monotone between a lower left and higher right estimate
	// and stays inside [50, 80].
	for x := 300; x < 341; x++ {
		if out[x] < out[x-1] {
			t.Errorf("bridge not monotone at column %d: %d < %d", x, out[x], out[x-1])
		}
		if out[x] < 50 || out[x] > 80 {
			t.Errorf("out[%d] = %d outside [50, 80]", x, out[x])
		}
	}

	// Columns outside the regions are untouched.
	for x := 0; x < width; x++ {
		if x >= 299 && x < 341 {
			continue
		}
		if out[x] != p[x] {
			t.Errorf("out[%d] = %d, want %d (untouched)", x, out[x], p[x])
		}
	}
}

func TestReconstruct_MedianIgnoresZeroColumns(t *testing.T) {
	width := 1000
	p := make(profile.ColorProfile, width)
	// Left neighborhood [296, 299): one empty column among the samples.
	p[296] = 0
	p[297] = 50
	p[298] = 50
	for x := 341; x < 344; x++ {
		p[x] = 50
	}
	regions := [2]Region{{Left: 299, Right: 341}, {Left: 550, Right: 550}}

	out, estimates, err := Reconstruct(p, width, 100, regions)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if estimates[0] != (EdgeEstimates{Left: 50, Right: 50}) {
		t.Errorf("estimates[0] = %+v, want {50 50}", estimates[0])
	}
	for x := 299; x < 341; x++ {
		if out[x] != 50 {
			t.Errorf("out[%d] = %d, want 50", x, out[x])
		}
	}
}

func TestReconstruct_SkipsWhenEdgeIsEmpty(t *testing.T) {
	width := 1000
	p := make(profile.ColorProfile, width)
	for x := 296; x < 299; x++ {
		p[x] = 50
	}
	// Right neighborhood stays all-zero: no estimate, region left alone.
	regions := [2]Region{{Left: 299, Right: 341}, {Left: 550, Right: 550}}

	out, estimates, err := Reconstruct(p, width, 100, regions)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if !estimates[0].Skipped() {
		t.Errorf("estimates[0] = %+v, want skipped", estimates[0])
	}
	for x := 299; x < 341; x++ {
		if out[x] != 0 {
			t.Errorf("out[%d] = %d, want 0 (untouched)", x, out[x])
		}
	}
}

func TestReconstruct_DegenerateRegionsAreNoOps(t *testing.T) {
	width := 100
	p := make(profile.ColorProfile, width)
	for x := range p {
		p[x] = x % 7
	}
	regions := [2]Region{{Left: 25, Right: 25}, {Left: 55, Right: 55}}

	out, estimates, err := Reconstruct(p, width, 10, regions)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	for x := range p {
		if out[x] != p[x] {
			t.Errorf("out[%d] = %d, want %d", x, out[x], p[x])
		}
	}
	if estimates[0] != (EdgeEstimates{}) || estimates[1] != (EdgeEstimates{}) {
		t.Errorf("estimates = %+v, want zero values", estimates)
	}
}

func TestReconstruct_LengthMismatch(t *testing.T) {
	p := make(profile.ColorProfile, 10)
	if _, _, err := Reconstruct(p, 20, 5, [2]Region{}); err == nil {
		t.Error("expected error for profile/width mismatch")
	}
}

func TestBuildGrid_ColumnSumRoundTrip(t *testing.T) {
	p := profile.ColorProfile{0, 1, 3, 5, 5, 2, 0, 4}
	g, err := BuildGrid(p, len(p), 5)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}

	for x, want := range p {
		if got := g.ColumnSum(x); got != want {
			t.Errorf("ColumnSum(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestBuildGrid_BottomAlignment(t *testing.T) {
	p := profile.ColorProfile{2, 0, 5}
	g, err := BuildGrid(p, 3, 5)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}

	// Column 0 has height 2: only the bottom two rows are occupied.
	for y := 0; y < 5; y++ {
		want := y >= 3
		if got := g.At(0, y); got != want {
			t.Errorf("At(0,%d) = %v, want %v", y, got, want)
		}
	}
	// Column 1 is empty, column 2 is full.
	for y := 0; y < 5; y++ {
		if g.At(1, y) {
			t.Errorf("At(1,%d) should be empty", y)
		}
		if !g.At(2, y) {
			t.Errorf("At(2,%d) should be occupied", y)
		}
	}
	// Out-of-range probes are empty, not panics.
	if g.At(-1, 0) || g.At(3, 0) || g.At(0, -1) || g.At(0, 5) {
		t.Error("out-of-range At should report empty")
	}
}

func TestBuildGrid_ClampsOverTallColumns(t *testing.T) {
	g, err := BuildGrid(profile.ColorProfile{9}, 1, 4)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if got := g.ColumnSum(0); got != 4 {
		t.Errorf("ColumnSum(0) = %d, want 4 (clamped)", got)
	}
}

func TestBuildGrid_Errors(t *testing.T) {
	if _, err := BuildGrid(make(profile.ColorProfile, 3), 4, 5); err == nil {
		t.Error("expected error for profile/width mismatch")
	}
	if _, err := BuildGrid(make(profile.ColorProfile, 3), 3, -1); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestGrid_Gray(t *testing.T) {
	g, err := BuildGrid(profile.ColorProfile{1, 0, 2}, 3, 2)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	img := g.Gray()

	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := uint8(0)
			if g.At(x, y) {
				want = 255
			}
			if got := img.GrayAt(x, y).Y; got != want {
				t.Errorf("GrayAt(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}
