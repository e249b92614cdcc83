package halftone

import "math"

const (
	// maxRadiusFactor sizes a full-brightness shape at 0.48 of the cell
	// spacing, leaving a visible gutter between adjacent cells.
	maxRadiusFactor = 0.48

	// minVisibleRadius is the radius below which a cell is skipped entirely,
	// in both the raster and the vector pass. Zero-area primitives must not
	// appear in the vector export either.
	minVisibleRadius = 0.05
)

// cellBrightness applies the invert flag to a sampled brightness value.
func cellBrightness(b float64, invert bool) float64 {
	if invert {
		return 1 - b
	}
	return b
}

// cellRadius maps a (possibly inverted) brightness value to a shape radius:
// maxRadius * clamp(minSize + b*(maxSize-minSize), 0, 1).
func cellRadius(b, spacing, minSize, maxSize float64) float64 {
	scale := clamp01(minSize + b*(maxSize-minSize))
	return maxRadiusFactor * spacing * scale
}

// circleKappa is the cubic Bezier approximation constant for quarter arcs.
const circleKappa = 0.5522847498307936

// appendDisc appends a circle of radius r centered at (cx, cy).
func appendDisc(p *Path, cx, cy, r float64) {
	k := r * circleKappa
	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	p.CubicTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	p.CubicTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	p.CubicTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	p.Close()
}

// appendSquare appends an axis-aligned square with edge 2r centered at
// (cx, cy).
func appendSquare(p *Path, cx, cy, r float64) {
	p.MoveTo(cx-r, cy-r)
	p.LineTo(cx+r, cy-r)
	p.LineTo(cx+r, cy+r)
	p.LineTo(cx-r, cy+r)
	p.Close()
}

// trianglePoints returns the vertices of an upward equilateral triangle
// inscribed in the circle of radius r around (cx, cy): apex on top, base
// below.
func trianglePoints(cx, cy, r float64) [6]float64 {
	h := r * math.Sqrt(3) / 2
	return [6]float64{
		cx, cy - r,
		cx + h, cy + r/2,
		cx - h, cy + r/2,
	}
}

// appendTriangle appends an upward equilateral triangle with circumradius r
// centered at (cx, cy).
func appendTriangle(p *Path, cx, cy, r float64) {
	pts := trianglePoints(cx, cy, r)
	p.MoveTo(pts[0], pts[1])
	p.LineTo(pts[2], pts[3])
	p.LineTo(pts[4], pts[5])
	p.Close()
}

// pathPlacement computes the uniform scale and translation that center a
// path with the given bounding box on (cx, cy) with its longer bounding-box
// dimension equal to 2r.
func pathPlacement(b Rect, cx, cy, r float64) (scale, tx, ty float64, ok bool) {
	longer := math.Max(b.W, b.H)
	if longer <= 0 {
		return 0, 0, 0, false
	}
	scale = 2 * r / longer
	tx = cx - (b.X+b.W/2)*scale
	ty = cy - (b.Y+b.H/2)*scale
	return scale, tx, ty, true
}
