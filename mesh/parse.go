package mesh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Parse dispatches on the lowercased file extension (".obj" or ".stl").
func Parse(r io.Reader, ext string) (*Mesh, error) {
	switch strings.ToLower(ext) {
	case ".obj":
		return ParseOBJ(r)
	case ".stl":
		return ParseSTL(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ParseFile parses the mesh at path, picking the format from its
// extension.
func ParseFile(path string) (*Mesh, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f, filepath.Ext(path))
}
