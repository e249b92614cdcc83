package scene

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light directions for the fixed rig, normalized lazily. The key light
// sits up and to the right of the camera; the fill comes from the
// opposite side.
var (
	keyDir  = mgl32.Vec3{0.4, 0.6, 1}.Normalize()
	fillDir = mgl32.Vec3{-0.4, -0.6, -1}.Normalize()
)

type screenVertex struct {
	x, y  float32
	depth float32
	shade float32
}

// render fills the framebuffer by projecting every triangle and running a
// z-buffered barycentric fill. The whole buffer is cleared first so stale
// coverage from a previous frame never survives a mesh or rotation change.
func (s *Scene) render() {
	npix := s.width * s.height
	if s.frame == nil || s.frame.Bounds().Dx() != s.width || s.frame.Bounds().Dy() != s.height {
		s.frame = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
		s.depth = make([]float32, npix)
	}
	clear(s.frame.Pix)
	for i := range s.depth {
		s.depth[i] = math.MaxFloat32
	}
	if s.mesh == nil {
		return
	}

	model := s.modelMatrix()
	view := mgl32.LookAtV(
		mgl32.Vec3{0, 0, s.camDist},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(fovY,
		float32(s.width)/float32(s.height), s.camDist/100, s.camDist*100)
	mvp := proj.Mul4(view).Mul4(model)

	// Normals only see the rotation part of the model matrix; the
	// recentering translation must not affect them.
	normalMat := model.Mat3()

	m := s.mesh
	verts := make([]screenVertex, m.VertexCount())
	ok := make([]bool, m.VertexCount())
	for i := range verts {
		clip := mvp.Mul4x1(m.Vertex(i).Vec4(1))
		if clip.W() <= 0 {
			continue
		}
		inv := 1 / clip.W()
		verts[i] = screenVertex{
			x:     (clip.X()*inv + 1) / 2 * float32(s.width),
			y:     (1 - clip.Y()*inv) / 2 * float32(s.height),
			depth: clip.Z() * inv,
			shade: s.shade(normalMat.Mul3x1(m.Normal(i))),
		}
		ok[i] = true
	}

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
		if !ok[a] || !ok[b] || !ok[c] {
			continue
		}
		s.fillTriangle(verts[a], verts[b], verts[c])
	}
}

// shade evaluates the light rig for a world-space normal. Both sides of a
// face light identically, so winding order never darkens a surface.
func (s *Scene) shade(n mgl32.Vec3) float32 {
	if n.Len() > 0 {
		n = n.Normalize()
	}
	v := ambientLight +
		keyLight*abs32(n.Dot(keyDir)) +
		fillLight*abs32(n.Dot(fillDir))
	if v > 1 {
		v = 1
	}
	return v
}

// fillTriangle scan-fills one screen-space triangle with interpolated
// depth and shade, testing against the z-buffer.
func (s *Scene) fillTriangle(a, b, c screenVertex) {
	area := (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
	if area == 0 {
		return
	}
	inv := 1 / area

	minX := clampInt(int(min32(a.x, b.x, c.x)), 0, s.width-1)
	maxX := clampInt(int(max32(a.x, b.x, c.x))+1, 0, s.width-1)
	minY := clampInt(int(min32(a.y, b.y, c.y)), 0, s.height-1)
	maxY := clampInt(int(max32(a.y, b.y, c.y))+1, 0, s.height-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := ((b.x-px)*(c.y-py) - (c.x-px)*(b.y-py)) * inv
			w1 := ((c.x-px)*(a.y-py) - (a.x-px)*(c.y-py)) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.depth + w1*b.depth + w2*c.depth
			di := y*s.width + x
			if z >= s.depth[di] {
				continue
			}
			s.depth[di] = z

			shade := w0*a.shade + w1*b.shade + w2*c.shade
			g := uint8(shade * 255)
			pi := di * 4
			s.frame.Pix[pi] = g
			s.frame.Pix[pi+1] = g
			s.frame.Pix[pi+2] = g
			s.frame.Pix[pi+3] = 255
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func min32(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max32(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
