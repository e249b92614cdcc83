package media

import (
	"image"
	"log/slog"
	"time"

	"github.com/gogpu/halftone/mesh"
	"github.com/gogpu/halftone/scene"
)

// MeshSource renders a triangle mesh to an offscreen frame through a
// scene.Scene. It implements MeshController so the render loop can steer
// resolution and rotation.
type MeshSource struct {
	scene *scene.Scene
}

// NewMeshSource wraps m in a freshly framed scene. A nil logger discards
// all output.
func NewMeshSource(m *mesh.Mesh, log *slog.Logger) *MeshSource {
	sc := scene.New(log)
	sc.SetMesh(m)
	return &MeshSource{scene: sc}
}

func (s *MeshSource) Kind() Kind { return KindMesh }

func (s *MeshSource) Size() (int, int) { return s.scene.Size() }

func (s *MeshSource) Image() *image.RGBA { return s.scene.Image() }

// Animated reports whether the scene spins on its own.
func (s *MeshSource) Animated() bool { return s.scene.Animated() }

func (s *MeshSource) Advance(now time.Time) bool { return s.scene.Advance(now) }

func (s *MeshSource) Close() error { return s.scene.Close() }

// SetViewport implements MeshController.
func (s *MeshSource) SetViewport(w, h int) { s.scene.Resize(w, h) }

// SetAutoRotate implements MeshController.
func (s *MeshSource) SetAutoRotate(on bool) { s.scene.SetAutoRotate(on) }

// SetRotation implements MeshController.
func (s *MeshSource) SetRotation(x, y float64) { s.scene.SetRotation(x, y) }
