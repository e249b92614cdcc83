package halftone

// ShapeKind selects the primitive drawn at every grid cell.
type ShapeKind int

const (
	// ShapeDisc draws a filled circle.
	ShapeDisc ShapeKind = iota
	// ShapeSquare draws an axis-aligned square with edge 2r.
	ShapeSquare
	// ShapeTriangle draws an upward equilateral triangle with circumradius r.
	ShapeTriangle
	// ShapeGlyph draws a single unicode glyph sized to the cell.
	ShapeGlyph
	// ShapePath draws an arbitrary vector path scaled to the cell.
	ShapePath
)

// String returns the shape kind name.
func (k ShapeKind) String() string {
	switch k {
	case ShapeDisc:
		return "disc"
	case ShapeSquare:
		return "square"
	case ShapeTriangle:
		return "triangle"
	case ShapeGlyph:
		return "glyph"
	case ShapePath:
		return "path"
	default:
		return "unknown"
	}
}

// ViewTransform pans and zooms the entire rendered output, pattern and
// content together, via a uniform canvas transform.
type ViewTransform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// MediaTransform pans and zooms only the source-media sampling window.
// It never affects the grid geometry, only the region the cells sample.
type MediaTransform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Rect is an axis-aligned rectangle in user units.
type Rect struct {
	X, Y, W, H float64
}

// RenderConfig is the full configuration surface consumed on every tick.
// The core treats it as an immutable snapshot; it is a comparable struct so
// change detection is a plain != comparison.
type RenderConfig struct {
	// Shape selects the per-cell primitive.
	Shape ShapeKind

	// Spacing is the pixel distance between adjacent cell centers.
	Spacing float64

	// Invert flips the brightness-to-size mapping.
	Invert bool

	// MinSize and MaxSize are the size fractions (0..1) mapped to
	// brightness 0 and 1 respectively.
	MinSize float64
	MaxSize float64

	// Contrast scales luminance about the midpoint. Practical range 0.1-3.
	Contrast float64

	// Brightness offsets luminance, in -100..100 (8-bit scale).
	Brightness float64

	// Foreground is the shape fill color, Background the canvas color.
	Foreground RGBA
	Background RGBA

	// Glyph is the character drawn by ShapeGlyph.
	Glyph rune

	// PathData is the SVG path data drawn by ShapePath, with PathBounds its
	// own coordinate bounding box.
	PathData   string
	PathBounds Rect

	// View transforms the entire output; Media transforms only the sampling
	// window. The two are independent.
	View  ViewTransform
	Media MediaTransform

	// AutoRotate enables continuous mesh rotation; RotationX/RotationY hold
	// the user-controlled manual rotation added on top of it.
	AutoRotate bool
	RotationX  float64
	RotationY  float64

	// BackgroundBrightness (0..1) is what out-of-bounds and transparent
	// source pixels sample as, letting transparent 3D renders blend with
	// the mosaic background.
	BackgroundBrightness float64
}

// DefaultConfig returns the configuration the pipeline starts from.
func DefaultConfig() RenderConfig {
	return RenderConfig{
		Shape:                ShapeDisc,
		Spacing:              16,
		MinSize:              0,
		MaxSize:              1,
		Contrast:             1,
		Brightness:           0,
		Foreground:           RGB(0, 0, 0),
		Background:           RGB(1, 1, 1),
		Glyph:                '*',
		View:                 ViewTransform{Scale: 1},
		Media:                MediaTransform{Scale: 1},
		BackgroundBrightness: 1,
	}
}

// normalized clamps the snapshot into the ranges the pipeline guarantees.
func (c RenderConfig) normalized() RenderConfig {
	if c.Spacing < 1 {
		c.Spacing = 1
	}
	c.MinSize = clamp01(c.MinSize)
	c.MaxSize = clamp01(c.MaxSize)
	if c.Contrast < 0.1 {
		c.Contrast = 0.1
	}
	if c.Contrast > 3 {
		c.Contrast = 3
	}
	if c.Brightness < -100 {
		c.Brightness = -100
	}
	if c.Brightness > 100 {
		c.Brightness = 100
	}
	if c.View.Scale <= 0 {
		c.View.Scale = 1
	}
	if c.Media.Scale <= 0 {
		c.Media.Scale = 1
	}
	c.BackgroundBrightness = clamp01(c.BackgroundBrightness)
	return c
}

// viewMatrix returns the uniform output transform for the given device
// pixel ratio.
func (c *RenderConfig) viewMatrix(dpr float64) Matrix {
	m := Scale(dpr, dpr)
	m = m.Multiply(Translate(c.View.OffsetX, c.View.OffsetY))
	m = m.Multiply(Scale(c.View.Scale, c.View.Scale))
	return m
}
