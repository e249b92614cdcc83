package halftone

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// writeSVG emits the vector document for one frame: a background rectangle
// plus one primitive per visible cell. It uses the exact same skip
// threshold and size formula as the raster pass so PNG and SVG exports of
// identical state are visually indistinguishable. Coordinates are viewport
// (CSS pixel) units; the view transform becomes a group transform.
func writeSVG(w io.Writer, grid *BrightnessGrid, cfg *RenderConfig, viewportW, viewportH float64) error {
	width := num(viewportW)
	height := num(viewportH)

	if _, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		width, height, width, height); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n",
		cfg.Background.hexString()); err != nil {
		return err
	}

	openGroup := cfg.View.Scale != 1 || cfg.View.OffsetX != 0 || cfg.View.OffsetY != 0
	if openGroup {
		if _, err := fmt.Fprintf(w, `<g transform="translate(%s %s) scale(%s)">`+"\n",
			num(cfg.View.OffsetX), num(cfg.View.OffsetY), num(cfg.View.Scale)); err != nil {
			return err
		}
	}

	fill := cfg.Foreground.hexString()
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			b := cellBrightness(grid.At(col, row), cfg.Invert)
			r := cellRadius(b, cfg.Spacing, cfg.MinSize, cfg.MaxSize)
			if r < minVisibleRadius {
				continue
			}

			cx := (float64(col) + 0.5) * cfg.Spacing
			cy := (float64(row) + 0.5) * cfg.Spacing

			var err error
			switch cfg.Shape {
			case ShapeDisc:
				_, err = fmt.Fprintf(w, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
					num(cx), num(cy), num(r), fill)

			case ShapeSquare:
				_, err = fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
					num(cx-r), num(cy-r), num(2*r), num(2*r), fill)

			case ShapeTriangle:
				pts := trianglePoints(cx, cy, r)
				_, err = fmt.Fprintf(w, `<polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
					num(pts[0]), num(pts[1]), num(pts[2]), num(pts[3]), num(pts[4]), num(pts[5]), fill)

			case ShapeGlyph:
				_, err = fmt.Fprintf(w,
					`<text x="%s" y="%s" font-size="%s" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
					num(cx), num(cy), num(2*r), fill, escapeXML(string(cfg.Glyph)))

			case ShapePath:
				scale, tx, ty, ok := pathPlacement(cfg.PathBounds, cx, cy, r)
				if !ok {
					continue
				}
				_, err = fmt.Fprintf(w,
					`<path transform="translate(%s %s) scale(%s)" d="%s" fill="%s"/>`+"\n",
					num(tx), num(ty), num(scale), escapeXML(cfg.PathData), fill)

			default:
				err = fmt.Errorf("halftone: unknown shape kind %d", cfg.Shape)
			}
			if err != nil {
				return err
			}
		}
	}

	if openGroup {
		if _, err := io.WriteString(w, "</g>\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</svg>\n")
	return err
}

// num formats a coordinate with three decimals of precision and no
// trailing zeros.
func num(v float64) string {
	r := math.Round(v*1000) / 1000
	return strconv.FormatFloat(r, 'f', -1, 64)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// escapeXML escapes text for use in attribute or element content.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
