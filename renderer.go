package halftone

import (
	"fmt"

	"github.com/gogpu/halftone/internal/raster"
)

// spanBlitter adapts a Pixmap to the filler's span interface.
type spanBlitter struct {
	pm    *Pixmap
	color RGBA
}

func (b *spanBlitter) BlitSpan(y, x0, x1 int, cov []float64) {
	for i, c := range cov {
		if c <= 0 {
			continue
		}
		if c > 1 {
			c = 1
		}
		b.pm.BlendPixel(x0+i, y, b.color, c)
	}
}

// renderRaster draws one frame: background clear plus one shape per visible
// cell. Every instance is accumulated into a single compound path and
// filled once, so the draw-call count is independent of the cell count.
// The skip threshold and size formula are shared with the vector export.
func (s *Session) renderRaster(grid *BrightnessGrid, cfg *RenderConfig) error {
	pm := s.pixmap
	pm.Clear(cfg.Background)
	if grid.Len() == 0 {
		return nil
	}

	vm := cfg.viewMatrix(s.dpr)
	// The view matrix is a uniform scale plus translation, so radii scale
	// by vm.A and centers map through the matrix directly.
	rScale := vm.A

	f := s.filler
	f.Resize(pm.Width(), pm.Height())
	f.Reset()

	var base *glyphOutline
	var custom *Path
	var customBounds Rect
	switch cfg.Shape {
	case ShapeGlyph:
		var err error
		base, err = s.glyphOutline(cfg.Glyph)
		if err != nil {
			return err
		}
	case ShapePath:
		var err error
		custom, err = s.customPath(cfg.PathData)
		if err != nil {
			return err
		}
		// The caller supplies the path's own bounding box alongside the
		// data; a degenerate box means nothing can be placed.
		customBounds = cfg.PathBounds
	}

	scratch := NewPath()
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			b := cellBrightness(grid.At(col, row), cfg.Invert)
			r := cellRadius(b, cfg.Spacing, cfg.MinSize, cfg.MaxSize)
			if r < minVisibleRadius {
				continue
			}

			cx := (float64(col) + 0.5) * cfg.Spacing
			cy := (float64(row) + 0.5) * cfg.Spacing
			dc := vm.TransformPoint(Pt(cx, cy))
			dr := r * rScale

			switch cfg.Shape {
			case ShapeDisc:
				scratch.elements = scratch.elements[:0]
				appendDisc(scratch, dc.X, dc.Y, dr)
				addFlattened(f, scratch)

			case ShapeSquare:
				pts := [...]float64{
					dc.X - dr, dc.Y - dr,
					dc.X + dr, dc.Y - dr,
					dc.X + dr, dc.Y + dr,
					dc.X - dr, dc.Y + dr,
				}
				f.AddPolygon(pts[:])

			case ShapeTriangle:
				pts := trianglePoints(dc.X, dc.Y, dr)
				f.AddPolygon(pts[:])

			case ShapeGlyph:
				// Outline is in em units; an em maps to the 2r box.
				k := 2 * dr
				bc := base.bounds
				m := Translate(dc.X-(bc.X+bc.W/2)*k, dc.Y-(bc.Y+bc.H/2)*k)
				m = m.Multiply(Scale(k, k))
				addFlattened(f, base.path.Transform(m))

			case ShapePath:
				k, tx, ty, ok := pathPlacement(customBounds, dc.X, dc.Y, dr)
				if !ok {
					continue
				}
				m := Translate(tx, ty).Multiply(Scale(k, k))
				addFlattened(f, custom.Transform(m))

			default:
				return fmt.Errorf("halftone: unknown shape kind %d", cfg.Shape)
			}
		}
	}

	f.Fill(&spanBlitter{pm: pm, color: cfg.Foreground})
	return nil
}

// addFlattened flattens a path and feeds its polygons to the filler.
func addFlattened(f *raster.Filler, p *Path) {
	for _, poly := range p.Flatten() {
		f.AddPolygon(poly)
	}
}
