package halftone

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// uniformRGBA builds a w x h media surface filled with a single color.
func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestGridDims(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		spacing float64
		cols    int
		rows    int
	}{
		{"exact multiple", 100, 100, 20, 5, 5},
		{"partial column", 101, 100, 20, 6, 5},
		{"partial row", 100, 101, 20, 5, 6},
		{"single cell", 10, 10, 16, 1, 1},
		{"zero width", 0, 100, 20, 0, 0},
		{"zero height", 100, 0, 20, 0, 0},
		{"zero spacing", 100, 100, 0, 0, 0},
		{"spacing larger than viewport", 10, 10, 100, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := GridDims(tt.w, tt.h, tt.spacing)
			if cols != tt.cols || rows != tt.rows {
				t.Errorf("GridDims(%v, %v, %v) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, tt.spacing, cols, rows, tt.cols, tt.rows)
			}
		})
	}
}

func TestSampleGridDimensions(t *testing.T) {
	media := uniformRGBA(10, 10, color.RGBA{255, 255, 255, 255})
	var grid BrightnessGrid
	SampleGrid(media, 100, 100, 20, 1, 0, MediaTransform{Scale: 1}, 1, &grid)

	if grid.Cols != 5 || grid.Rows != 5 {
		t.Fatalf("grid = %dx%d, want 5x5", grid.Cols, grid.Rows)
	}
	if grid.Len() != 25 {
		t.Fatalf("grid.Len() = %d, want 25", grid.Len())
	}
}

func TestSampleGridValuesInRange(t *testing.T) {
	media := uniformRGBA(8, 8, color.RGBA{200, 100, 30, 255})
	var grid BrightnessGrid

	// Extreme adjustments must still land inside [0, 1].
	tests := []struct {
		name       string
		contrast   float64
		brightness float64
	}{
		{"neutral", 1, 0},
		{"max contrast", 3, 0},
		{"max brightness", 1, 100},
		{"min brightness", 1, -100},
		{"both extremes", 3, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SampleGrid(media, 64, 64, 8, tt.contrast, tt.brightness,
				MediaTransform{Scale: 1}, 1, &grid)
			for i, v := range grid.Values {
				if v < 0 || v > 1 {
					t.Fatalf("Values[%d] = %v, out of [0, 1]", i, v)
				}
			}
		})
	}
}

func TestSampleGridUniformWhite(t *testing.T) {
	media := uniformRGBA(10, 10, color.RGBA{255, 255, 255, 255})
	var grid BrightnessGrid
	SampleGrid(media, 100, 100, 20, 1, 0, MediaTransform{Scale: 1}, 1, &grid)

	for i, v := range grid.Values {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("Values[%d] = %v, want 1 for uniform white", i, v)
		}
	}
}

func TestSampleGridIdentityTransform(t *testing.T) {
	// A gradient so any sampling shift would show up.
	media := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			g := uint8(x * 16)
			media.SetRGBA(x, y, color.RGBA{g, g, g, 255})
		}
	}

	var a, b BrightnessGrid
	SampleGrid(media, 64, 64, 8, 1, 0, MediaTransform{Scale: 1}, 1, &a)
	SampleGrid(media, 64, 64, 8, 1, 0, MediaTransform{Scale: 1, OffsetX: 0, OffsetY: 0}, 1, &b)

	if a.Cols != b.Cols || a.Rows != b.Rows {
		t.Fatalf("grids differ in shape: %dx%d vs %dx%d", a.Cols, a.Rows, b.Cols, b.Rows)
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("Values[%d]: %v != %v under identity transform", i, a.Values[i], b.Values[i])
		}
	}
}

func TestSampleGridMediaOffsetShiftsSampling(t *testing.T) {
	// Left half black, right half white.
	media := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 5 {
				c = color.RGBA{255, 255, 255, 255}
			}
			media.SetRGBA(x, y, c)
		}
	}

	var grid BrightnessGrid
	SampleGrid(media, 100, 100, 20, 1, 0, MediaTransform{Scale: 1}, 0, &grid)
	if grid.At(0, 2) != 0 {
		t.Fatalf("left column = %v, want 0 before shift", grid.At(0, 2))
	}

	// Shifting the media far to the left puts the white half under the
	// first column.
	SampleGrid(media, 100, 100, 20, 1, 0, MediaTransform{Scale: 1, OffsetX: -60}, 0, &grid)
	if grid.At(0, 2) != 1 {
		t.Fatalf("left column = %v, want 1 after shifting media left", grid.At(0, 2))
	}
}

func TestSampleGridOutOfBoundsIsBackground(t *testing.T) {
	// A wide viewport pillarboxes a square media; side cells fall outside
	// the fit rect and take the background brightness unadjusted.
	media := uniformRGBA(10, 10, color.RGBA{0, 0, 0, 255})
	var grid BrightnessGrid
	SampleGrid(media, 300, 100, 20, 3, -100, MediaTransform{Scale: 1}, 0.75, &grid)

	if got := grid.At(0, 2); got != 0.75 {
		t.Errorf("out-of-bounds cell = %v, want background 0.75", got)
	}
	if got := grid.At(grid.Cols/2, 2); got == 0.75 {
		t.Errorf("center cell = %v, should sample media not background", got)
	}
}

func TestSampleGridTransparentIsBackground(t *testing.T) {
	media := image.NewRGBA(image.Rect(0, 0, 10, 10)) // all zero: transparent
	var grid BrightnessGrid
	SampleGrid(media, 100, 100, 20, 3, 100, MediaTransform{Scale: 1}, 0.5, &grid)

	for i, v := range grid.Values {
		if v != 0.5 {
			t.Fatalf("Values[%d] = %v, want background 0.5 for transparent media", i, v)
		}
	}
}

func TestSampleGridSemiTransparentBlends(t *testing.T) {
	// Premultiplied half-transparent white over a black background should
	// land at half brightness.
	media := uniformRGBA(10, 10, color.RGBA{128, 128, 128, 128})
	var grid BrightnessGrid
	SampleGrid(media, 100, 100, 20, 1, 0, MediaTransform{Scale: 1}, 0, &grid)

	got := grid.At(2, 2)
	if math.Abs(got-0.5) > 0.01 {
		t.Errorf("blended brightness = %v, want ~0.5", got)
	}
}

func TestSampleGridNilMedia(t *testing.T) {
	var grid BrightnessGrid
	grid.Resize(3, 3)
	SampleGrid(nil, 100, 100, 20, 1, 0, MediaTransform{Scale: 1}, 1, &grid)
	if grid.Len() != 0 {
		t.Errorf("grid.Len() = %d, want 0 for nil media", grid.Len())
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name       string
		mw, mh     float64
		vw, vh     float64
		x, y, w, h float64
	}{
		{"same aspect", 10, 10, 100, 100, 0, 0, 100, 100},
		{"wide media letterboxes", 20, 10, 100, 100, 0, 25, 100, 50},
		{"tall media pillarboxes", 10, 20, 100, 100, 25, 0, 50, 100},
		{"wide viewport", 10, 10, 300, 100, 100, 0, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := fitRect(tt.mw, tt.mh, tt.vw, tt.vh)
			if x != tt.x || y != tt.y || w != tt.w || h != tt.h {
				t.Errorf("fitRect = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
					x, y, w, h, tt.x, tt.y, tt.w, tt.h)
			}
		})
	}
}
