// Package halftone converts a visual source into a grid of geometric shapes
// whose size encodes local brightness, rendered in real time and exportable
// as a vector document.
//
// # Overview
//
// A Session owns the whole pipeline: a media source (still image, video,
// animated GIF, or a rasterized 3D mesh), a brightness sampler that maps
// grid cells to source pixels, and a shape renderer that draws one disc,
// square, triangle, glyph, or arbitrary vector path per cell. Raster (PNG)
// and vector (SVG) output use the same geometry formulas, so both exports
// of the same state are visually indistinguishable.
//
// # Quick Start
//
//	s := halftone.NewSession()
//	defer s.Close()
//
//	s.SetViewport(800, 600, 1)
//	if err := s.Load("photo.jpg"); err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := halftone.DefaultConfig()
//	cfg.Spacing = 14
//	s.SetConfig(cfg)
//
//	s.Tick(time.Now())
//	f, _ := os.Create("out.png")
//	s.ExportPNG(f)
//	f.Close()
//
// # Render Loop
//
// Tick is the cooperative per-display-frame callback. A tick redraws only
// when state changed or the source is inherently animated; for a static
// source with unchanged configuration a tick performs no work. Run drives
// Tick from a ticker for non-interactive use.
//
// # Coordinate System
//
// Viewport coordinates are CSS-pixel-like: origin at the top left, Y down.
// The backing pixel surface is scaled by the device pixel ratio given to
// SetViewport. The view transform pans and zooms the entire output; the
// media transform pans and zooms only the region of the source the grid
// samples from.
package halftone
