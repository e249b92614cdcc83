package halftone

import "math"

// BrightnessGrid holds one brightness value in [0, 1] per grid cell, in a
// flat row-major slice. It is scratch state owned by the current render
// pass: reused across frames and reallocated only when dimensions grow.
type BrightnessGrid struct {
	Cols, Rows int
	Values     []float64
}

// Resize sets the grid dimensions, reusing the backing slice when possible.
func (g *BrightnessGrid) Resize(cols, rows int) {
	g.Cols = cols
	g.Rows = rows
	n := cols * rows
	if cap(g.Values) < n {
		g.Values = make([]float64, n)
	}
	g.Values = g.Values[:n]
}

// At returns the value at the given cell.
func (g *BrightnessGrid) At(col, row int) float64 {
	return g.Values[row*g.Cols+col]
}

// Len returns the number of cells.
func (g *BrightnessGrid) Len() int {
	return len(g.Values)
}

// GridDims returns the cell counts for a viewport and spacing:
// cols = ceil(w/spacing), rows = ceil(h/spacing).
func GridDims(viewportW, viewportH, spacing float64) (cols, rows int) {
	if viewportW <= 0 || viewportH <= 0 || spacing <= 0 {
		return 0, 0
	}
	return int(math.Ceil(viewportW / spacing)), int(math.Ceil(viewportH / spacing))
}
