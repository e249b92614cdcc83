package halftone

import (
	"image"
	"math"
)

// fitRect computes the aspect-ratio-preserving fit of a media surface of
// intrinsic size (mw, mh) inside the viewport (vw, vh), letterboxing or
// pillarboxing as needed. Returned as x, y, w, h in viewport coordinates.
func fitRect(mw, mh, vw, vh float64) (x, y, w, h float64) {
	mediaAspect := mw / mh
	viewAspect := vw / vh
	if mediaAspect > viewAspect {
		w = vw
		h = vw / mediaAspect
	} else {
		h = vh
		w = vh * mediaAspect
	}
	x = (vw - w) / 2
	y = (vh - h) / 2
	return x, y, w, h
}

// SampleGrid computes one brightness value per grid cell by sampling the
// media surface. The grid is resized to ceil(viewportW/spacing) by
// ceil(viewportH/spacing) and filled row-major.
//
// Cell centers are mapped through the inverse of two composed transforms:
// the aspect fit of the media into the viewport, then the media transform
// (scaled about the fit rectangle's own center, then translated). The grid
// geometry itself is never affected by the media transform, only the region
// of the source the cells sample from.
//
// Out-of-bounds coordinates and fully transparent pixels resolve to
// backgroundBrightness directly. Semi-transparent pixels blend luminance
// with backgroundBrightness weighted by alpha. Luminance uses the Rec.601
// weights 0.299/0.587/0.114 and is then adjusted by
// ((lum-0.5)*contrast)+0.5 + brightness/255, clamped to [0, 1].
//
// The result is deterministic for a fixed media buffer and fixed inputs.
func SampleGrid(media *image.RGBA, viewportW, viewportH, spacing, contrast, brightness float64,
	mt MediaTransform, backgroundBrightness float64, grid *BrightnessGrid) {

	cols, rows := GridDims(viewportW, viewportH, spacing)
	var mw, mh int
	if media != nil {
		mw = media.Bounds().Dx()
		mh = media.Bounds().Dy()
	}
	if mw <= 0 || mh <= 0 {
		grid.Resize(0, 0)
		return
	}
	grid.Resize(cols, rows)

	bg := clamp01(backgroundBrightness)
	if mt.Scale <= 0 {
		mt.Scale = 1
	}

	// Fit rectangle, then the media transform layered on top: scale about
	// the fit rect's center, then translate.
	fx, fy, fw, fh := fitRect(float64(mw), float64(mh), viewportW, viewportH)
	cx := fx + fw/2 + mt.OffsetX
	cy := fy + fh/2 + mt.OffsetY
	dw := fw * mt.Scale
	dh := fh * mt.Scale
	dx := cx - dw/2
	dy := cy - dh/2

	sxPerPx := float64(mw) / dw
	syPerPx := float64(mh) / dh

	for row := 0; row < rows; row++ {
		vy := (float64(row) + 0.5) * spacing
		sy := int(math.Floor((vy - dy) * syPerPx))
		for col := 0; col < cols; col++ {
			vx := (float64(col) + 0.5) * spacing
			sx := int(math.Floor((vx - dx) * sxPerPx))

			b := bg
			if sx >= 0 && sx < mw && sy >= 0 && sy < mh {
				i := media.PixOffset(media.Bounds().Min.X+sx, media.Bounds().Min.Y+sy)
				r := media.Pix[i]
				g := media.Pix[i+1]
				bl := media.Pix[i+2]
				a := media.Pix[i+3]
				if a != 0 {
					// Pix is alpha-premultiplied, so the premultiplied
					// luminance plus the (1-alpha)-weighted background is
					// already the blended value.
					lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 255
					b = lum + bg*(1-float64(a)/255)
					b = (b-0.5)*contrast + 0.5 + brightness/255
					b = clamp01(b)
				}
			}
			grid.Values[row*cols+col] = b
		}
	}
}
