package media

import (
	"image"
	"io"
	"time"

	"golang.org/x/image/draw"

	// Decoders registered for image.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// StillSource holds a single decoded image. It never animates.
type StillSource struct {
	frame *image.RGBA
}

// DecodeImage decodes a still image from r using whatever registered
// decoder matches its magic bytes.
func DecodeImage(r io.Reader) (Source, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewStillSource(img), nil
}

// NewStillSource wraps an already-decoded image, converting it to RGBA if
// needed.
func NewStillSource(img image.Image) *StillSource {
	return &StillSource{frame: toRGBA(img)}
}

func (s *StillSource) Kind() Kind { return KindImage }

func (s *StillSource) Size() (int, int) {
	b := s.frame.Bounds()
	return b.Dx(), b.Dy()
}

func (s *StillSource) Image() *image.RGBA { return s.frame }

func (s *StillSource) Animated() bool { return false }

func (s *StillSource) Advance(time.Time) bool { return false }

func (s *StillSource) Close() error { return nil }

// toRGBA normalizes any image to a zero-origin RGBA buffer.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}
