package halftone

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font/gofont/goregular"
)

// glyphSet owns one parsed font face and caches extracted glyph outlines.
// Outlines are stored in em units (1.0 == one em, y down) so scaling a cell
// only multiplies by 2r. The cache is keyed by rune and lives for the
// session; a session never swaps fonts mid-flight.
type glyphSet struct {
	face  *font.Face
	upem  float64
	cache map[rune]*glyphOutline
}

// glyphOutline is a single glyph in em units with its outline bounding box.
type glyphOutline struct {
	path   *Path
	bounds Rect
}

// newGlyphSet parses TTF data into a glyph set.
func newGlyphSet(ttf []byte) (*glyphSet, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("halftone: parsing font: %w", err)
	}
	return &glyphSet{
		face:  face,
		upem:  float64(face.Upem()),
		cache: make(map[rune]*glyphOutline),
	}, nil
}

// defaultGlyphSet parses the embedded Go Regular face.
func defaultGlyphSet() (*glyphSet, error) {
	return newGlyphSet(goregular.TTF)
}

// outline returns the cached outline for r, extracting it on first use.
func (g *glyphSet) outline(r rune) (*glyphOutline, error) {
	if o, ok := g.cache[r]; ok {
		return o, nil
	}

	gid, ok := g.face.NominalGlyph(r)
	if !ok {
		return nil, fmt.Errorf("halftone: font has no glyph for %q", r)
	}
	data := g.face.GlyphData(gid)
	out, ok := data.(font.GlyphOutline)
	if !ok {
		return nil, fmt.Errorf("halftone: glyph %q has no vector outline", r)
	}

	// Font coordinates are y-up in font units; emit y-down em units.
	s := 1 / g.upem
	p := NewPath()
	for _, seg := range out.Segments {
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			p.MoveTo(float64(seg.Args[0].X)*s, -float64(seg.Args[0].Y)*s)
		case opentype.SegmentOpLineTo:
			p.LineTo(float64(seg.Args[0].X)*s, -float64(seg.Args[0].Y)*s)
		case opentype.SegmentOpQuadTo:
			p.QuadraticTo(
				float64(seg.Args[0].X)*s, -float64(seg.Args[0].Y)*s,
				float64(seg.Args[1].X)*s, -float64(seg.Args[1].Y)*s,
			)
		case opentype.SegmentOpCubeTo:
			p.CubicTo(
				float64(seg.Args[0].X)*s, -float64(seg.Args[0].Y)*s,
				float64(seg.Args[1].X)*s, -float64(seg.Args[1].Y)*s,
				float64(seg.Args[2].X)*s, -float64(seg.Args[2].Y)*s,
			)
		}
	}
	if p.IsEmpty() {
		return nil, fmt.Errorf("halftone: glyph %q has an empty outline", r)
	}

	minX, minY, maxX, maxY := p.Bounds()
	o := &glyphOutline{
		path:   p,
		bounds: Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY},
	}
	g.cache[r] = o
	return o, nil
}
