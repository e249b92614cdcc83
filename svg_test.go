package halftone

import (
	"image/color"
	"strings"
	"testing"
)

func TestWriteSVGUniformWhite(t *testing.T) {
	media := uniformRGBA(10, 10, color.RGBA{255, 255, 255, 255})
	var grid BrightnessGrid
	cfg := DefaultConfig()
	cfg.Spacing = 20
	SampleGrid(media, 100, 100, cfg.Spacing, cfg.Contrast, cfg.Brightness,
		cfg.Media, cfg.BackgroundBrightness, &grid)

	var sb strings.Builder
	if err := writeSVG(&sb, &grid, &cfg, 100, 100); err != nil {
		t.Fatalf("writeSVG: %v", err)
	}
	svg := sb.String()

	// 5x5 grid of full-size discs: r = 0.48 * 20.
	if got := strings.Count(svg, "<circle"); got != 25 {
		t.Errorf("circle count = %d, want 25", got)
	}
	if !strings.Contains(svg, `r="9.6"`) {
		t.Errorf("expected discs of radius 9.6 in:\n%s", svg)
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Errorf("expected white background rect")
	}
	if !strings.Contains(svg, `width="100" height="100"`) {
		t.Errorf("expected viewport-sized document")
	}
}

func TestWriteSVGUniformWhiteInverted(t *testing.T) {
	media := uniformRGBA(10, 10, color.RGBA{255, 255, 255, 255})
	var grid BrightnessGrid
	cfg := DefaultConfig()
	cfg.Spacing = 20
	cfg.Invert = true
	SampleGrid(media, 100, 100, cfg.Spacing, cfg.Contrast, cfg.Brightness,
		cfg.Media, cfg.BackgroundBrightness, &grid)

	var sb strings.Builder
	if err := writeSVG(&sb, &grid, &cfg, 100, 100); err != nil {
		t.Fatalf("writeSVG: %v", err)
	}

	// Inverted uniform white collapses every cell below the visibility
	// threshold: background rect only.
	if got := strings.Count(sb.String(), "<circle"); got != 0 {
		t.Errorf("circle count = %d, want 0 for inverted white", got)
	}
}

func TestWriteSVGShapes(t *testing.T) {
	media := uniformRGBA(10, 10, color.RGBA{255, 255, 255, 255})
	var grid BrightnessGrid
	base := DefaultConfig()
	base.Spacing = 20
	SampleGrid(media, 40, 40, base.Spacing, base.Contrast, base.Brightness,
		base.Media, base.BackgroundBrightness, &grid)

	tests := []struct {
		name   string
		mutate func(*RenderConfig)
		marker string
		count  int
	}{
		{"squares", func(c *RenderConfig) { c.Shape = ShapeSquare }, "<rect", 4 + 1}, // + background rect
		{"triangles", func(c *RenderConfig) { c.Shape = ShapeTriangle }, "<polygon", 4},
		{"glyphs", func(c *RenderConfig) { c.Shape = ShapeGlyph; c.Glyph = '&' }, "<text", 4},
		{"custom path", func(c *RenderConfig) {
			c.Shape = ShapePath
			c.PathData = "M 0 0 L 1 0 L 1 1 Z"
			c.PathBounds = Rect{0, 0, 1, 1}
		}, "<path", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			var sb strings.Builder
			if err := writeSVG(&sb, &grid, &cfg, 40, 40); err != nil {
				t.Fatalf("writeSVG: %v", err)
			}
			if got := strings.Count(sb.String(), tt.marker); got != tt.count {
				t.Errorf("%s count = %d, want %d in:\n%s", tt.marker, got, tt.count, sb.String())
			}
		})
	}
}

func TestWriteSVGEscapesGlyph(t *testing.T) {
	var grid BrightnessGrid
	grid.Resize(1, 1)
	grid.Values[0] = 1
	cfg := DefaultConfig()
	cfg.Shape = ShapeGlyph
	cfg.Glyph = '<'

	var sb strings.Builder
	if err := writeSVG(&sb, &grid, &cfg, 16, 16); err != nil {
		t.Fatalf("writeSVG: %v", err)
	}
	if !strings.Contains(sb.String(), "&lt;</text>") {
		t.Errorf("glyph not escaped:\n%s", sb.String())
	}
}

func TestWriteSVGViewTransformGroup(t *testing.T) {
	var grid BrightnessGrid
	grid.Resize(1, 1)
	grid.Values[0] = 1
	cfg := DefaultConfig()
	cfg.View = ViewTransform{Scale: 2, OffsetX: 5, OffsetY: -3}

	var sb strings.Builder
	if err := writeSVG(&sb, &grid, &cfg, 16, 16); err != nil {
		t.Fatalf("writeSVG: %v", err)
	}
	if !strings.Contains(sb.String(), `<g transform="translate(5 -3) scale(2)">`) {
		t.Errorf("missing view transform group:\n%s", sb.String())
	}
}

// TestSVGMatchesRasterVisibility checks the structural-equivalence rule:
// the set of cells the vector export emits is exactly the set the raster
// pass draws, for the same grid and config.
func TestSVGMatchesRasterVisibility(t *testing.T) {
	// A gradient grid straddling the visibility threshold.
	var grid BrightnessGrid
	grid.Resize(10, 1)
	for i := range grid.Values {
		grid.Values[i] = float64(i) / 9
	}
	cfg := DefaultConfig()
	cfg.Spacing = 20
	cfg.MinSize = 0
	cfg.MaxSize = 0.02 // tiny shapes, some below the skip threshold

	visible := 0
	for i := range grid.Values {
		r := cellRadius(cellBrightness(grid.Values[i], cfg.Invert), cfg.Spacing, cfg.MinSize, cfg.MaxSize)
		if r >= minVisibleRadius {
			visible++
		}
	}
	if visible == 0 || visible == grid.Len() {
		t.Fatalf("test grid does not straddle the threshold (visible=%d)", visible)
	}

	var sb strings.Builder
	if err := writeSVG(&sb, &grid, &cfg, 200, 20); err != nil {
		t.Fatalf("writeSVG: %v", err)
	}
	if got := strings.Count(sb.String(), "<circle"); got != visible {
		t.Errorf("svg emits %d circles, raster would draw %d", got, visible)
	}
}
