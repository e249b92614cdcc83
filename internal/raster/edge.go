package raster

// Edge is a non-horizontal line segment prepared for scanline conversion.
// Edges are normalized so y0 <= y1; the original direction is kept in
// Winding (+1 for downward segments, -1 for upward ones).
type Edge struct {
	y0, y1 float64 // vertical extent, y0 <= y1
	x0     float64 // x at y0
	dxdy   float64 // change in x per unit y
	wind   int8
}

// epsilon guards against degenerate (near-horizontal) edges.
const epsilon = 1e-9

// newEdge builds an edge from a directed segment. Horizontal segments
// contribute nothing to scanline winding and return false.
func newEdge(x0, y0, x1, y1 float64) (Edge, bool) {
	wind := int8(1)
	if y0 > y1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
		wind = -1
	}
	dy := y1 - y0
	if dy < epsilon {
		return Edge{}, false
	}
	return Edge{
		y0:   y0,
		y1:   y1,
		x0:   x0,
		dxdy: (x1 - x0) / dy,
		wind: wind,
	}, true
}

// xAt returns the x coordinate where the edge crosses the horizontal line y.
func (e *Edge) xAt(y float64) float64 {
	return e.x0 + (y-e.y0)*e.dxdy
}
