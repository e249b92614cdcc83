package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseOBJ reads a Wavefront OBJ mesh. Only geometry is kept: v, vn and f
// records; materials, texture coordinates, groups and objects are ignored.
// Faces with more than three vertices are fan-triangulated around their
// first vertex. Negative face references count back from the end of the
// vertex list, per the OBJ spec.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	var normals []float32

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if err := appendTriple(&m.Vertices, fields[1:]); err != nil {
				return nil, fmt.Errorf("mesh: obj line %d: %w", lineNo, err)
			}
		case "vn":
			if err := appendTriple(&normals, fields[1:]); err != nil {
				return nil, fmt.Errorf("mesh: obj line %d: %w", lineNo, err)
			}
		case "f":
			if err := m.appendFace(fields[1:]); err != nil {
				return nil, fmt.Errorf("mesh: obj line %d: %w", lineNo, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mesh: reading obj: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	// Normal records only line up with positions when the file declares
	// exactly one per vertex; anything else falls back to topology.
	if len(normals) == len(m.Vertices) {
		m.Normals = normals
	} else {
		m.ComputeSmoothNormals()
	}
	return m, nil
}

func appendTriple(dst *[]float32, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	for _, f := range fields[:3] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return fmt.Errorf("bad coordinate %q", f)
		}
		*dst = append(*dst, float32(v))
	}
	return nil
}

// appendFace resolves the face's vertex references and fan-triangulates.
// References look like "7", "7/13" or "7/13/5"; only the position index
// matters here.
func (m *Mesh) appendFace(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("face has %d vertices, need at least 3", len(refs))
	}
	idx := make([]uint32, len(refs))
	nv := m.VertexCount()
	for i, ref := range refs {
		head, _, _ := strings.Cut(ref, "/")
		n, err := strconv.Atoi(head)
		if err != nil || n == 0 {
			return fmt.Errorf("bad face reference %q", ref)
		}
		if n < 0 {
			n += nv + 1
		}
		if n < 1 || n > nv {
			return fmt.Errorf("face reference %q out of range (have %d vertices)", ref, nv)
		}
		idx[i] = uint32(n - 1)
	}
	for i := 1; i+1 < len(idx); i++ {
		m.Indices = append(m.Indices, idx[0], idx[i], idx[i+1])
	}
	return nil
}
