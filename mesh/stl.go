package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ParseSTL reads an STL mesh, ascii or binary. Files beginning with the
// bytes "solid" are treated as ascii; a binary file whose header happens
// to start with "solid" is misdetected, which is a known limitation of the
// format itself. Every vertex carries its facet's normal, so STL meshes
// are flat shaded.
func ParseSTL(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("mesh: reading stl: %w", err)
	}
	if bytes.HasPrefix(data, []byte("solid")) {
		return parseSTLAscii(data)
	}
	return parseSTLBinary(data)
}

// Binary layout: 80-byte header, uint32 LE triangle count, then per
// triangle a 3xf32 normal, three 3xf32 vertices and 2 attribute bytes.
func parseSTLBinary(data []byte) (*Mesh, error) {
	if len(data) < 84 {
		return nil, fmt.Errorf("mesh: binary stl truncated at %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	const rec = 50
	if uint64(len(data)-84) < uint64(count)*rec {
		return nil, fmt.Errorf("mesh: binary stl declares %d triangles but holds %d bytes of records",
			count, len(data)-84)
	}

	m := &Mesh{
		Vertices: make([]float32, 0, count*9),
		Normals:  make([]float32, 0, count*9),
		Indices:  make([]uint32, 0, count*3),
	}
	off := 84
	for t := uint32(0); t < count; t++ {
		var n [3]float32
		for a := range n {
			n[a] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		base := uint32(m.VertexCount())
		for v := 0; v < 3; v++ {
			for a := 0; a < 3; a++ {
				m.Vertices = append(m.Vertices,
					math.Float32frombits(binary.LittleEndian.Uint32(data[off:])))
				off += 4
			}
			m.Normals = append(m.Normals, n[0], n[1], n[2])
		}
		m.Indices = append(m.Indices, base, base+1, base+2)
		off += 2 // attribute byte count, unused
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.fixZeroNormals()
	return m, nil
}

// Ascii STL is parsed as a token stream: the keyword structure of
// facet/outer loop/vertex lines is loose in the wild, so only the numbers
// following "normal" and "vertex" keywords are trusted, in declaration
// order.
func parseSTLAscii(data []byte) (*Mesh, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	readTriple := func(kind string) ([3]float32, error) {
		var out [3]float32
		for a := range out {
			if !sc.Scan() {
				return out, fmt.Errorf("mesh: ascii stl: truncated %s", kind)
			}
			v, err := strconv.ParseFloat(sc.Text(), 32)
			if err != nil {
				return out, fmt.Errorf("mesh: ascii stl: bad %s value %q", kind, sc.Text())
			}
			out[a] = float32(v)
		}
		return out, nil
	}

	m := &Mesh{}
	var facet [3]float32
	verts := 0
	for sc.Scan() {
		switch sc.Text() {
		case "normal":
			n, err := readTriple("normal")
			if err != nil {
				return nil, err
			}
			facet = n
			verts = 0
		case "vertex":
			v, err := readTriple("vertex")
			if err != nil {
				return nil, err
			}
			m.Vertices = append(m.Vertices, v[0], v[1], v[2])
			m.Normals = append(m.Normals, facet[0], facet[1], facet[2])
			verts++
			if verts == 3 {
				base := uint32(m.VertexCount() - 3)
				m.Indices = append(m.Indices, base, base+1, base+2)
				verts = 0
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mesh: reading stl: %w", err)
	}
	if verts != 0 {
		return nil, fmt.Errorf("mesh: ascii stl: facet ends with %d vertices", verts)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.fixZeroNormals()
	return m, nil
}

// fixZeroNormals recomputes normals when the file declared only null
// vectors, which some exporters emit and leave for the reader to derive.
func (m *Mesh) fixZeroNormals() {
	for _, n := range m.Normals {
		if n != 0 {
			return
		}
	}
	m.ComputeSmoothNormals()
}
