package halftone

import "math"

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path represents a vector path.
type Path struct {
	elements []PathElement
	start    Point // Starting point of current subpath
	current  Point // Current point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo moves to a point without drawing.
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to a point.
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadraticTo draws a quadratic Bezier curve.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: Pt(x, y)})
	p.current = Pt(x, y)
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    Pt(x, y),
	})
	p.current = Pt(x, y)
}

// Close closes the current subpath by drawing a line to the start point.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Elements returns the path's elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// IsEmpty returns true if the path contains no elements.
func (p *Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// Current returns the current point of the path.
func (p *Path) Current() Point {
	return p.current
}

// Transform returns a copy of the path with every coordinate mapped
// through the matrix. Curve control points transform like end points.
func (p *Path) Transform(m Matrix) *Path {
	out := &Path{elements: make([]PathElement, len(p.elements))}
	for i, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			out.elements[i] = MoveTo{Point: m.TransformPoint(e.Point)}
		case LineTo:
			out.elements[i] = LineTo{Point: m.TransformPoint(e.Point)}
		case QuadTo:
			out.elements[i] = QuadTo{
				Control: m.TransformPoint(e.Control),
				Point:   m.TransformPoint(e.Point),
			}
		case CubicTo:
			out.elements[i] = CubicTo{
				Control1: m.TransformPoint(e.Control1),
				Control2: m.TransformPoint(e.Control2),
				Point:    m.TransformPoint(e.Point),
			}
		case Close:
			out.elements[i] = Close{}
		}
	}
	out.current = m.TransformPoint(p.current)
	out.start = m.TransformPoint(p.start)
	return out
}

// Bounds returns the control-point bounding box of the path. For curves
// this is conservative (control points bound the curve).
func (p *Path) Bounds() (minX, minY, maxX, maxY float64) {
	first := true
	grow := func(pt Point) {
		if first {
			minX, maxX = pt.X, pt.X
			minY, maxY = pt.Y, pt.Y
			first = false
			return
		}
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			grow(e.Point)
		case LineTo:
			grow(e.Point)
		case QuadTo:
			grow(e.Control)
			grow(e.Point)
		case CubicTo:
			grow(e.Control1)
			grow(e.Control2)
			grow(e.Point)
		}
	}
	return minX, minY, maxX, maxY
}

// FlattenTolerance is the maximum distance from a curve for flattening.
const FlattenTolerance = 0.1

// Flatten converts the path into closed polygons of straight segments.
// Each subpath becomes one polygon; curves are subdivided until flat.
// The result slices alternate x and y coordinates.
func (p *Path) Flatten() [][]float64 {
	var polys [][]float64
	var cur []float64
	var current Point

	flush := func() {
		if len(cur) >= 6 {
			polys = append(polys, cur)
		}
		cur = nil
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			flush()
			current = e.Point
			cur = append(cur, current.X, current.Y)

		case LineTo:
			current = e.Point
			cur = append(cur, current.X, current.Y)

		case QuadTo:
			flattenQuadratic(current, e.Control, e.Point, FlattenTolerance, &cur)
			current = e.Point

		case CubicTo:
			flattenCubic(current, e.Control1, e.Control2, e.Point, FlattenTolerance, &cur)
			current = e.Point

		case Close:
			if len(cur) >= 2 {
				cur = append(cur, cur[0], cur[1])
				current = Pt(cur[0], cur[1])
			}
			flush()
		}
	}
	flush()
	return polys
}

// flattenQuadratic recursively subdivides a quadratic Bezier curve.
func flattenQuadratic(p0, p1, p2 Point, tolerance float64, out *[]float64) {
	if distanceToLine(p1, p0, p2) < tolerance {
		*out = append(*out, p2.X, p2.Y)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)

	flattenQuadratic(p0, q0, q2, tolerance, out)
	flattenQuadratic(q2, q1, p2, tolerance, out)
}

// flattenCubic recursively subdivides a cubic Bezier curve using
// de Casteljau's algorithm.
func flattenCubic(p0, p1, p2, p3 Point, tolerance float64, out *[]float64) {
	d1 := distanceToLine(p1, p0, p3)
	d2 := distanceToLine(p2, p0, p3)
	if math.Max(d1, d2) < tolerance {
		*out = append(*out, p3.X, p3.Y)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	flattenCubic(p0, q0, r0, s, tolerance, out)
	flattenCubic(s, r1, q2, p3, tolerance, out)
}

// distanceToLine calculates the perpendicular distance from point p to the
// line segment (a, b).
func distanceToLine(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLen := ab.Length()

	if abLen < 1e-10 {
		return p.Distance(a)
	}

	ap := p.Sub(a)
	t := ap.Dot(ab) / (abLen * abLen)

	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}

	closest := a.Add(ab.Mul(t))
	return p.Distance(closest)
}
