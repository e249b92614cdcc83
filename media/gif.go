package media

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"time"
)

// minFrameDelay replaces the 0- and 1-centisecond delays many GIFs
// declare, matching how browsers play them back.
const minFrameDelay = 20 * time.Millisecond

// GifSource sequences a decoded GIF onto a persistent composite canvas.
// Frames accumulate unless a frame's disposal asks for its rect to be
// restored to background, which here means cleared to transparent.
type GifSource struct {
	frames    []*image.Paletted
	delays    []int
	disposals []byte
	bounds    image.Rectangle

	composite *image.RGBA
	current   int
	nextAt    time.Time
}

// DecodeGIF decodes all frames of a GIF from r.
func DecodeGIF(r io.Reader) (Source, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("media: gif has no frames")
	}

	s := &GifSource{
		frames:    g.Image,
		delays:    g.Delay,
		disposals: g.Disposal,
		bounds:    image.Rect(0, 0, g.Config.Width, g.Config.Height),
	}
	if s.bounds.Empty() {
		s.bounds = g.Image[0].Bounds()
	}
	s.composite = image.NewRGBA(s.bounds)
	s.paint(0)
	return s, nil
}

func (s *GifSource) Kind() Kind { return KindGIF }

func (s *GifSource) Size() (int, int) {
	return s.bounds.Dx(), s.bounds.Dy()
}

func (s *GifSource) Image() *image.RGBA { return s.composite }

// Animated reports whether there is more than one frame to play.
func (s *GifSource) Animated() bool { return len(s.frames) > 1 }

// Advance steps to the next frame once the current frame's delay has
// elapsed. The first call only arms the timer so playback starts from
// frame zero at its full duration.
func (s *GifSource) Advance(now time.Time) bool {
	if len(s.frames) < 2 {
		return false
	}
	if s.nextAt.IsZero() {
		s.nextAt = now.Add(s.delay(s.current))
		return false
	}
	if now.Before(s.nextAt) {
		return false
	}

	// Dispose of the frame that just finished before painting the next.
	if s.disposal(s.current) == gif.DisposalBackground {
		clearRect(s.composite, s.frames[s.current].Bounds())
	}
	s.current = (s.current + 1) % len(s.frames)
	s.paint(s.current)
	s.nextAt = now.Add(s.delay(s.current))
	return true
}

func (s *GifSource) Close() error { return nil }

// paint composites frame i's patch at its declared offset.
func (s *GifSource) paint(i int) {
	fr := s.frames[i]
	draw.Draw(s.composite, fr.Bounds(), fr, fr.Bounds().Min, draw.Over)
}

// delay returns frame i's effective duration. GIF delays are declared in
// centiseconds.
func (s *GifSource) delay(i int) time.Duration {
	d := time.Duration(0)
	if i < len(s.delays) {
		d = time.Duration(s.delays[i]) * 10 * time.Millisecond
	}
	if d < minFrameDelay {
		d = minFrameDelay
	}
	return d
}

func (s *GifSource) disposal(i int) byte {
	if i < len(s.disposals) {
		return s.disposals[i]
	}
	return gif.DisposalNone
}

func clearRect(img *image.RGBA, r image.Rectangle) {
	draw.Draw(img, r, image.Transparent, image.Point{}, draw.Src)
}
