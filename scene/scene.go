// Package scene renders triangle meshes to an offscreen RGBA image with a
// small software rasterizer: perspective camera, fixed three-light rig,
// z-buffered Lambert shading.
package scene

import (
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/halftone/mesh"
)

const (
	fovY           = 40 * math.Pi / 180
	frameMargin    = 1.25
	autoRotateStep = 0.012 // radians per tick

	ambientLight = 0.25
	keyLight     = 0.75
	fillLight    = 0.25
)

// Scene holds one mesh framed by an auto-fitted perspective camera. The
// framebuffer is created lazily and resized on demand; the background is
// fully transparent so downstream sampling treats uncovered pixels as
// empty.
type Scene struct {
	mesh    *mesh.Mesh
	center  mgl32.Vec3
	camDist float32

	width  int
	height int
	frame  *image.RGBA
	depth  []float32

	autoRotate bool
	spinAngle  float64
	manualX    float64
	manualY    float64

	dirty  bool
	closed bool

	log *slog.Logger
}

// New creates an empty scene. A nil logger discards all output.
func New(log *slog.Logger) *Scene {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scene{width: 1, height: 1, log: log}
}

// SetMesh installs m, recentering it at the origin and placing the camera
// so the whole bounding box fits the view with some margin.
func (s *Scene) SetMesh(m *mesh.Mesh) {
	s.mesh = m
	s.spinAngle = 0
	s.dirty = true
	if m == nil {
		return
	}

	min, max := m.Bounds()
	s.center = min.Add(max).Mul(0.5)
	ext := max.Sub(min)
	maxDim := ext.X()
	if ext.Y() > maxDim {
		maxDim = ext.Y()
	}
	if ext.Z() > maxDim {
		maxDim = ext.Z()
	}
	if maxDim <= 0 {
		maxDim = 1
	}
	s.camDist = maxDim / 2 / float32(math.Tan(fovY/2)) * frameMargin

	s.log.Debug("mesh framed",
		"triangles", m.TriangleCount(), "maxDim", maxDim, "camera", s.camDist)
}

// Resize sets the output resolution. The framebuffer is reallocated on the
// next render.
func (s *Scene) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == s.width && h == s.height {
		return
	}
	s.width = w
	s.height = h
	s.frame = nil
	s.depth = nil
	s.dirty = true
}

// SetAutoRotate toggles the continuous turntable spin.
func (s *Scene) SetAutoRotate(on bool) {
	if s.autoRotate == on {
		return
	}
	s.autoRotate = on
	s.dirty = true
}

// SetRotation sets the manual rotation in radians around the x and y axes.
// Manual rotation is applied on top of the turntable spin and is never
// consumed by it.
func (s *Scene) SetRotation(x, y float64) {
	if s.manualX == x && s.manualY == y {
		return
	}
	s.manualX = x
	s.manualY = y
	s.dirty = true
}

// Animated reports whether the scene changes without external input.
func (s *Scene) Animated() bool {
	return s.autoRotate
}

// Advance accumulates the turntable spin and re-renders when anything
// changed. It reports whether the frame was redrawn. The spin advances a
// fixed step per call regardless of how long the tick took.
func (s *Scene) Advance(time.Time) bool {
	if s.closed {
		return false
	}
	if s.autoRotate {
		s.spinAngle += autoRotateStep
		s.dirty = true
	}
	if !s.dirty {
		return false
	}
	s.render()
	s.dirty = false
	return true
}

// Image returns the current frame, rendering one if none exists yet.
func (s *Scene) Image() *image.RGBA {
	if s.frame == nil || s.dirty {
		s.render()
		s.dirty = false
	}
	return s.frame
}

// Size returns the output resolution.
func (s *Scene) Size() (int, int) {
	return s.width, s.height
}

// Close releases the framebuffer and z-buffer.
func (s *Scene) Close() error {
	s.closed = true
	s.mesh = nil
	s.frame = nil
	s.depth = nil
	return nil
}

// modelMatrix composes the mesh transform: recenter at the origin, then
// manual x tilt, then turntable spin plus manual y rotation.
func (s *Scene) modelMatrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DY(float32(s.spinAngle + s.manualY)).
		Mul4(mgl32.HomogRotate3DX(float32(s.manualX)))
	return rot.Mul4(mgl32.Translate3D(-s.center.X(), -s.center.Y(), -s.center.Z()))
}
