// Package raster provides scanline rasterization for filled 2D paths.
//
// The filler accumulates an arbitrary number of closed polygons (a compound
// path) and fills them in a single pass using the non-zero winding rule with
// vertically supersampled, horizontally exact coverage. All scratch buffers
// are reused across Fill calls; growth is the only allocation cost.
package raster

import (
	"math"
	"sort"
)

// subSamples is the number of vertical samples per output scanline.
const subSamples = 4

// coverageCutoff is the minimum coverage that produces any output.
const coverageCutoff = 1.0 / 512

// Blitter receives horizontal runs of coverage for a single scanline.
// Coverage is in [0, 1].
type Blitter interface {
	BlitSpan(y, x0, x1 int, cov []float64)
}

// Filler rasterizes compound paths with the non-zero winding rule.
type Filler struct {
	width, height int

	edges []Edge
	cov   []float64 // one scanline of accumulated coverage
	xs    []crossing
}

type crossing struct {
	x    float64
	wind int8
}

// NewFiller creates a filler for the given clip dimensions.
func NewFiller(width, height int) *Filler {
	f := &Filler{}
	f.Resize(width, height)
	return f
}

// Resize updates the clip dimensions, reusing buffers when possible.
func (f *Filler) Resize(width, height int) {
	f.width = width
	f.height = height
	if cap(f.cov) < width {
		f.cov = make([]float64, width)
	}
	f.cov = f.cov[:width]
}

// Reset discards all accumulated geometry but keeps the buffers.
func (f *Filler) Reset() {
	f.edges = f.edges[:0]
}

// AddLine appends one directed segment of the current compound path.
func (f *Filler) AddLine(x0, y0, x1, y1 float64) {
	if e, ok := newEdge(x0, y0, x1, y1); ok {
		f.edges = append(f.edges, e)
	}
}

// AddPolygon appends a closed polygon given as a point sequence. The final
// point is connected back to the first if the ring is not already closed.
func (f *Filler) AddPolygon(pts []float64) {
	n := len(pts) / 2
	if n < 3 {
		return
	}
	for i := 0; i < n-1; i++ {
		f.AddLine(pts[2*i], pts[2*i+1], pts[2*i+2], pts[2*i+3])
	}
	if pts[0] != pts[2*(n-1)] || pts[1] != pts[2*(n-1)+1] {
		f.AddLine(pts[2*(n-1)], pts[2*(n-1)+1], pts[0], pts[1])
	}
}

// Empty reports whether any geometry has been accumulated.
func (f *Filler) Empty() bool {
	return len(f.edges) == 0
}

// Fill rasterizes the accumulated compound path into the blitter and then
// resets the geometry. One call per frame regardless of how many shapes
// were accumulated.
func (f *Filler) Fill(b Blitter) {
	if len(f.edges) == 0 {
		return
	}

	yMin := math.Inf(1)
	yMax := math.Inf(-1)
	for i := range f.edges {
		yMin = math.Min(yMin, f.edges[i].y0)
		yMax = math.Max(yMax, f.edges[i].y1)
	}
	y0 := int(math.Floor(yMin))
	y1 := int(math.Ceil(yMax))
	if y0 < 0 {
		y0 = 0
	}
	if y1 > f.height {
		y1 = f.height
	}

	// Edges sorted by top; the active window [lo, hi) advances monotonically.
	sort.Slice(f.edges, func(i, j int) bool { return f.edges[i].y0 < f.edges[j].y0 })

	lo := 0
	for y := y0; y < y1; y++ {
		f.scanline(y, &lo, b)
	}
	f.Reset()
}

// scanline accumulates coverage for one output row and blits it.
func (f *Filler) scanline(y int, lo *int, b Blitter) {
	rowTop := float64(y)
	rowBot := rowTop + 1

	// Skip edges that ended above this row.
	for *lo < len(f.edges) && f.edges[*lo].y1 <= rowTop {
		*lo++
	}

	minX, maxX := f.width, 0
	touched := false

	for s := 0; s < subSamples; s++ {
		sy := rowTop + (float64(s)+0.5)/subSamples
		f.xs = f.xs[:0]
		for i := *lo; i < len(f.edges); i++ {
			e := &f.edges[i]
			if e.y0 > rowBot {
				break
			}
			if e.y0 <= sy && sy < e.y1 {
				f.xs = append(f.xs, crossing{x: e.xAt(sy), wind: e.wind})
			}
		}
		if len(f.xs) == 0 {
			continue
		}
		sort.Slice(f.xs, func(i, j int) bool { return f.xs[i].x < f.xs[j].x })

		wind := 0
		var spanStart float64
		for _, c := range f.xs {
			if wind == 0 {
				spanStart = c.x
			}
			wind += int(c.wind)
			if wind == 0 {
				x0, x1 := f.addSpan(spanStart, c.x)
				if x0 < x1 {
					touched = true
					if x0 < minX {
						minX = x0
					}
					if x1 > maxX {
						maxX = x1
					}
				}
			}
		}
	}

	if !touched {
		return
	}
	b.BlitSpan(y, minX, maxX, f.cov[minX:maxX])
	for i := minX; i < maxX; i++ {
		f.cov[i] = 0
	}
}

// addSpan accumulates one subsample span [x0, x1) into the coverage row with
// exact fractional coverage at the span ends. Returns the touched pixel
// range, clamped to the clip width.
func (f *Filler) addSpan(x0, x1 float64) (int, int) {
	const w = 1.0 / subSamples
	if x1 <= 0 || x0 >= float64(f.width) {
		return 0, 0
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > float64(f.width) {
		x1 = float64(f.width)
	}
	if x1 <= x0 {
		return 0, 0
	}

	i0 := int(x0)
	i1 := int(x1)
	if i1 >= f.width {
		i1 = f.width - 1
	}

	if i0 == i1 {
		f.cov[i0] += (x1 - x0) * w
		return i0, i1 + 1
	}

	f.cov[i0] += (float64(i0+1) - x0) * w
	for i := i0 + 1; i < i1; i++ {
		f.cov[i] += w
	}
	f.cov[i1] += (x1 - float64(i1)) * w
	return i0, i1 + 1
}
