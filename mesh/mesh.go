// Package mesh parses triangle geometry from Wavefront OBJ and STL files
// into flat GPU-style buffers.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnsupportedFormat is returned for file extensions the parser does
	// not recognize.
	ErrUnsupportedFormat = errors.New("mesh: unsupported geometry format")

	// ErrEmptyMesh is returned when a file parses cleanly but contains no
	// triangles.
	ErrEmptyMesh = errors.New("mesh: no triangles")
)

// Mesh holds indexed triangle geometry as flat buffers: three floats per
// vertex position, three per vertex normal, three indices per triangle.
// Normals are always populated after parsing and parallel to Vertices.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
}

// Bounds returns the axis-aligned bounding box of all vertices. A mesh
// with no vertices returns two zero vectors.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min = m.Vertex(0)
	max = min
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		for a := 0; a < 3; a++ {
			if v[a] < min[a] {
				min[a] = v[a]
			}
			if v[a] > max[a] {
				max[a] = v[a]
			}
		}
	}
	return
}

// ComputeSmoothNormals rebuilds per-vertex normals from triangle topology:
// each face's cross product is accumulated into its three vertices, then
// each sum is normalized. Degenerate faces contribute nothing.
func (m *Mesh) ComputeSmoothNormals() {
	m.Normals = make([]float32, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		va := m.Vertex(int(a))
		fn := m.Vertex(int(b)).Sub(va).Cross(m.Vertex(int(c)).Sub(va))
		for _, vi := range []uint32{a, b, c} {
			m.Normals[vi*3] += fn.X()
			m.Normals[vi*3+1] += fn.Y()
			m.Normals[vi*3+2] += fn.Z()
		}
	}
	for i := 0; i < len(m.Normals); i += 3 {
		n := mgl32.Vec3{m.Normals[i], m.Normals[i+1], m.Normals[i+2]}
		if n.Len() > 0 {
			n = n.Normalize()
		}
		m.Normals[i], m.Normals[i+1], m.Normals[i+2] = n.X(), n.Y(), n.Z()
	}
}

// validate checks the flat-buffer invariants: triangle indices come in
// threes, every index addresses an existing vertex, and the mesh is not
// empty.
func (m *Mesh) validate() error {
	if len(m.Indices) == 0 {
		return ErrEmptyMesh
	}
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("mesh: vertex buffer length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index buffer length %d is not a multiple of 3", len(m.Indices))
	}
	nv := uint32(m.VertexCount()) //nolint:gosec // bounded by parsed input
	for _, idx := range m.Indices {
		if idx >= nv {
			return fmt.Errorf("mesh: index %d out of range (have %d vertices)", idx, nv)
		}
	}
	return nil
}
