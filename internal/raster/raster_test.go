package raster

import (
	"math"
	"testing"
)

// gridBlitter accumulates coverage into a dense buffer for inspection.
type gridBlitter struct {
	w, h int
	cov  []float64
}

func newGridBlitter(w, h int) *gridBlitter {
	return &gridBlitter{w: w, h: h, cov: make([]float64, w*h)}
}

func (b *gridBlitter) BlitSpan(y, x0, x1 int, cov []float64) {
	for i, c := range cov {
		b.cov[y*b.w+x0+i] += c
	}
}

func (b *gridBlitter) at(x, y int) float64 {
	return b.cov[y*b.w+x]
}

func (b *gridBlitter) total() float64 {
	sum := 0.0
	for _, c := range b.cov {
		sum += c
	}
	return sum
}

func TestFillAxisAlignedSquare(t *testing.T) {
	f := NewFiller(16, 16)
	f.AddPolygon([]float64{4, 4, 12, 4, 12, 12, 4, 12})

	b := newGridBlitter(16, 16)
	f.Fill(b)

	tests := []struct {
		name string
		x, y int
		want float64
	}{
		{"center", 8, 8, 1},
		{"interior corner", 4, 4, 1},
		{"last interior pixel", 11, 11, 1},
		{"outside left", 3, 8, 0},
		{"outside right", 12, 8, 0},
		{"outside top", 8, 3, 0},
		{"outside bottom", 8, 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.at(tt.x, tt.y); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("coverage at (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFillFractionalCoverage(t *testing.T) {
	// A square offset by half a pixel: edge pixels get half coverage.
	f := NewFiller(8, 8)
	f.AddPolygon([]float64{1.5, 1.5, 5.5, 1.5, 5.5, 5.5, 1.5, 5.5})

	b := newGridBlitter(8, 8)
	f.Fill(b)

	if got := b.at(3, 3); math.Abs(got-1) > 1e-9 {
		t.Errorf("interior = %v, want 1", got)
	}
	if got := b.at(1, 3); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("left edge = %v, want 0.5", got)
	}
	if got := b.at(3, 1); math.Abs(got-0.5) > 0.01 {
		t.Errorf("top edge = %v, want ~0.5", got)
	}
	if got := b.at(1, 1); math.Abs(got-0.25) > 0.01 {
		t.Errorf("corner = %v, want ~0.25", got)
	}
}

func TestFillTriangleArea(t *testing.T) {
	// Total accumulated coverage approximates the triangle's area.
	f := NewFiller(32, 32)
	f.AddPolygon([]float64{2, 28, 30, 28, 16, 2})

	b := newGridBlitter(32, 32)
	f.Fill(b)

	area := 0.5 * 28 * 26
	if got := b.total(); math.Abs(got-area) > area*0.02 {
		t.Errorf("total coverage = %v, want ~%v", got, area)
	}
}

func TestFillCompoundPathSinglePass(t *testing.T) {
	// Two disjoint squares accumulated into one fill.
	f := NewFiller(20, 10)
	f.AddPolygon([]float64{1, 1, 5, 1, 5, 5, 1, 5})
	f.AddPolygon([]float64{11, 1, 15, 1, 15, 5, 11, 5})

	b := newGridBlitter(20, 10)
	f.Fill(b)

	if got := b.at(3, 3); got != 1 {
		t.Errorf("first square interior = %v, want 1", got)
	}
	if got := b.at(13, 3); got != 1 {
		t.Errorf("second square interior = %v, want 1", got)
	}
	if got := b.at(8, 3); got != 0 {
		t.Errorf("gap between squares = %v, want 0", got)
	}
}

func TestFillNonZeroWinding(t *testing.T) {
	// Two same-direction squares, one inside the other: non-zero winding
	// keeps the inner region filled (no even-odd hole).
	f := NewFiller(16, 16)
	f.AddPolygon([]float64{2, 2, 14, 2, 14, 14, 2, 14})
	f.AddPolygon([]float64{5, 5, 11, 5, 11, 11, 5, 11})

	b := newGridBlitter(16, 16)
	f.Fill(b)

	if got := b.at(8, 8); math.Abs(got-1) > 1e-9 {
		t.Errorf("nested interior = %v, want 1 under non-zero winding", got)
	}
}

func TestFillReversedInnerRingCutsHole(t *testing.T) {
	// Reversing the inner ring flips its winding and punches a hole.
	f := NewFiller(16, 16)
	f.AddPolygon([]float64{2, 2, 14, 2, 14, 14, 2, 14})
	f.AddPolygon([]float64{5, 11, 11, 11, 11, 5, 5, 5})

	b := newGridBlitter(16, 16)
	f.Fill(b)

	if got := b.at(8, 8); got != 0 {
		t.Errorf("hole interior = %v, want 0", got)
	}
	if got := b.at(3, 8); math.Abs(got-1) > 1e-9 {
		t.Errorf("ring = %v, want 1", got)
	}
}

func TestFillClipsToBounds(t *testing.T) {
	f := NewFiller(8, 8)
	f.AddPolygon([]float64{-10, -10, 20, -10, 20, 20, -10, 20})

	b := newGridBlitter(8, 8)
	f.Fill(b)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := b.at(x, y); math.Abs(got-1) > 1e-9 {
				t.Fatalf("clipped coverage at (%d, %d) = %v, want 1", x, y, got)
			}
		}
	}
}

func TestFillResetsGeometry(t *testing.T) {
	f := NewFiller(8, 8)
	f.AddPolygon([]float64{1, 1, 7, 1, 7, 7, 1, 7})

	b := newGridBlitter(8, 8)
	f.Fill(b)
	if !f.Empty() {
		t.Fatal("filler still holds geometry after Fill")
	}

	// A second fill with no new geometry must not touch the blitter.
	before := b.total()
	f.Fill(b)
	if b.total() != before {
		t.Error("empty fill produced coverage")
	}
}

func TestAddPolygonIgnoresDegenerate(t *testing.T) {
	f := NewFiller(8, 8)
	f.AddPolygon([]float64{1, 1, 5, 5})
	f.AddPolygon([]float64{1, 1})
	f.AddPolygon(nil)
	if !f.Empty() {
		t.Error("degenerate input produced edges")
	}
}
