// Package media acquires pixel sources for halftoning: still images,
// animated GIFs, video files and 3D meshes rendered to an offscreen
// frame. All sources expose the same Source interface regardless of what
// is behind them.
package media

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/halftone/mesh"
)

var (
	// ErrUnsupportedMedia is returned by Open for file extensions no
	// source can handle.
	ErrUnsupportedMedia = errors.New("media: unsupported media type")

	// ErrNoVideoStream is returned when a container holds no video.
	ErrNoVideoStream = errors.New("media: no video stream")
)

// Kind identifies what class of media a source wraps.
type Kind int

const (
	KindImage Kind = iota
	KindGIF
	KindVideo
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindGIF:
		return "gif"
	case KindVideo:
		return "video"
	case KindMesh:
		return "mesh"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Source is a pixel producer. Image returns the current frame; Advance
// moves animated sources forward and reports whether the frame changed.
// Sources are not safe for concurrent use.
type Source interface {
	Kind() Kind
	Size() (int, int)
	Image() *image.RGBA
	Animated() bool
	Advance(now time.Time) bool
	Close() error
}

// MeshController is implemented by sources whose content is a rendered 3D
// scene and can be steered from the outside.
type MeshController interface {
	SetViewport(w, h int)
	SetAutoRotate(on bool)
	SetRotation(x, y float64)
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true, ".webm": true,
}

// Open acquires the media at path, dispatching on its lowercased
// extension. A nil logger discards all output.
func Open(path string, log *slog.Logger) (Source, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".gif":
		return openFile(path, func(f *os.File) (Source, error) { return DecodeGIF(f) })
	case ext == ".obj" || ext == ".stl":
		m, err := mesh.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return NewMeshSource(m, log), nil
	case videoExts[ext]:
		return OpenVideo(path, log)
	case ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".webp" ||
		ext == ".bmp" || ext == ".tif" || ext == ".tiff":
		return openFile(path, func(f *os.File) (Source, error) { return DecodeImage(f) })
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMedia, ext)
	}
}

func openFile(path string, decode func(*os.File) (Source, error)) (Source, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return decode(f)
}
