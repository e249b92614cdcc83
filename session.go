package halftone

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gogpu/halftone/internal/raster"
	"github.com/gogpu/halftone/media"
)

// Session owns one complete rendering pipeline: the current media source,
// the brightness grid and other scratch buffers, the backing pixel surface,
// and the render-loop state. Sessions are isolated; two sessions never
// share caches, so concurrent sessions (including tests) do not collide.
//
// A Session is not safe for concurrent use except where noted: LoadAsync
// may complete on another goroutine and synchronizes internally.
type Session struct {
	mu sync.Mutex

	viewportW float64
	viewportH float64
	dpr       float64

	cfg     RenderConfig
	haveCfg bool

	src       media.Source
	loadToken string

	pixmap *Pixmap
	filler *raster.Filler
	grid   BrightnessGrid

	glyphs    *glyphSet
	fontData  []byte
	pathCache struct {
		data string
		path *Path
	}

	dirty  atomic.Bool
	closed atomic.Bool

	log *slog.Logger
}

// SessionOption configures a Session during creation.
type SessionOption func(*Session)

// WithViewport sets the initial viewport size and device pixel ratio.
func WithViewport(w, h, dpr float64) SessionOption {
	return func(s *Session) {
		s.SetViewport(w, h, dpr)
	}
}

// WithFont sets the TTF data used for the glyph shape kind, replacing the
// embedded default face.
func WithFont(ttf []byte) SessionOption {
	return func(s *Session) {
		s.fontData = ttf
	}
}

// NewSession creates an isolated render session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		dpr:    1,
		filler: raster.NewFiller(0, 0),
		pixmap: NewPixmap(0, 0),
		log:    Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetViewport sets the viewport size in CSS pixels and the device pixel
// ratio. The backing pixel surface is resized to ceil(w*dpr) x ceil(h*dpr)
// and the session is marked dirty.
func (s *Session) SetViewport(w, h, dpr float64) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if dpr <= 0 {
		dpr = 1
	}
	s.viewportW = w
	s.viewportH = h
	s.dpr = dpr

	bw := int(math.Ceil(w * dpr))
	bh := int(math.Ceil(h * dpr))
	if s.pixmap == nil || s.pixmap.Width() != bw || s.pixmap.Height() != bh {
		s.pixmap = NewPixmap(bw, bh)
		s.log.Debug("viewport resized", "width", bw, "height", bh, "dpr", dpr)
	}
	s.dirty.Store(true)
}

// SetConfig supplies the configuration snapshot for subsequent frames.
// The session is marked dirty only when the snapshot differs from the
// previous one.
func (s *Session) SetConfig(cfg RenderConfig) {
	if s.haveCfg && cfg == s.cfg {
		return
	}
	s.cfg = cfg
	s.haveCfg = true
	s.dirty.Store(true)
}

// Config returns the current configuration snapshot.
func (s *Session) Config() RenderConfig {
	if !s.haveCfg {
		return DefaultConfig()
	}
	return s.cfg
}

// Load synchronously acquires the media at path, replacing the current
// source. On failure the previous source stays visible.
func (s *Session) Load(path string) error {
	src, err := media.Open(path, s.log)
	if err != nil {
		return err
	}
	s.SetSource(src)
	return nil
}

// LoadAsync acquires the media at path on a separate goroutine. If another
// load or SetSource happens before this one completes, the late result is
// discarded and done receives ErrStaleLoad (last-writer-wins). done may be
// nil.
func (s *Session) LoadAsync(path string, done func(error)) {
	s.mu.Lock()
	token := uuid.NewString()
	s.loadToken = token
	s.mu.Unlock()

	go func() {
		src, err := media.Open(path, s.log)

		s.mu.Lock()
		stale := s.loadToken != token || s.closed.Load()
		if !stale && err == nil {
			s.replaceSourceLocked(src)
		}
		s.mu.Unlock()

		if stale {
			if src != nil {
				_ = src.Close()
			}
			s.log.Warn("discarding media that arrived after a newer load", "path", path)
			err = ErrStaleLoad
		}
		if done != nil {
			done(err)
		}
	}()
}

// SetSource installs an already-acquired media source, replacing and
// closing the previous one.
func (s *Session) SetSource(src media.Source) {
	s.mu.Lock()
	s.loadToken = uuid.NewString() // invalidate in-flight loads
	s.replaceSourceLocked(src)
	s.mu.Unlock()
}

// replaceSourceLocked swaps the source and marks the session dirty.
// Callers hold s.mu.
func (s *Session) replaceSourceLocked(src media.Source) {
	if s.src != nil {
		_ = s.src.Close()
	}
	s.src = src
	s.dirty.Store(true)
	if src != nil {
		w, h := src.Size()
		s.log.Info("media acquired", "kind", src.Kind().String(), "width", w, "height", h)
	}
}

// Clear removes the current media source; subsequent frames draw only the
// background.
func (s *Session) Clear() {
	s.SetSource(nil)
}

// Source returns the current media source, or nil.
func (s *Session) Source() media.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src
}

// ExportPNG writes the backing pixel surface as PNG at its current backing
// resolution, rendering first if state changed since the last tick.
func (s *Session) ExportPNG(w io.Writer) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if s.dirty.Swap(false) {
		if err := s.redraw(); err != nil {
			s.dirty.Store(true)
			return err
		}
		if s.animated() {
			s.dirty.Store(true)
		}
	}
	return s.pixmap.EncodePNG(w)
}

// ExportSVG writes the vector document for the current state at viewport
// size. The document is structurally equivalent to the raster output: same
// grid, same size formula, same visibility threshold.
func (s *Session) ExportSVG(w io.Writer) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	cfg := s.Config().normalized()
	s.sampleCurrent(&cfg)
	return writeSVG(w, &s.grid, &cfg, s.viewportW, s.viewportH)
}

// Close releases the session's media source and scene resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil
	}
	s.closed.Store(true)
	if s.src != nil {
		err := s.src.Close()
		s.src = nil
		return err
	}
	return nil
}

// glyphOutline returns the cached outline for r, lazily creating the
// session's glyph set.
func (s *Session) glyphOutline(r rune) (*glyphOutline, error) {
	if s.glyphs == nil {
		var err error
		if s.fontData != nil {
			s.glyphs, err = newGlyphSet(s.fontData)
		} else {
			s.glyphs, err = defaultGlyphSet()
		}
		if err != nil {
			return nil, err
		}
	}
	return s.glyphs.outline(r)
}

// customPath returns the parsed vector path for the given path data. The
// cache is keyed by the raw string and invalidated when it changes.
func (s *Session) customPath(data string) (*Path, error) {
	if data == "" {
		return nil, fmt.Errorf("halftone: path shape kind needs path data")
	}
	if s.pathCache.path != nil && s.pathCache.data == data {
		return s.pathCache.path, nil
	}
	p, err := ParsePathData(data)
	if err != nil {
		return nil, err
	}
	s.pathCache.data = data
	s.pathCache.path = p
	return p, nil
}

// sampleCurrent fills the scratch grid for the current media and config.
func (s *Session) sampleCurrent(cfg *RenderConfig) {
	s.mu.Lock()
	src := s.src
	s.mu.Unlock()

	if src == nil {
		s.grid.Resize(0, 0)
		return
	}
	SampleGrid(src.Image(), s.viewportW, s.viewportH, cfg.Spacing,
		cfg.Contrast, cfg.Brightness, cfg.Media, cfg.BackgroundBrightness, &s.grid)
}

// redraw runs the sampler and the shape renderer for the current state.
func (s *Session) redraw() error {
	cfg := s.Config().normalized()
	s.sampleCurrent(&cfg)
	return s.renderRaster(&s.grid, &cfg)
}

// animated reports whether the current source is inherently animated.
func (s *Session) animated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src != nil && s.src.Animated()
}
