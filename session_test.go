package halftone

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/halftone/media"
)

func newWhiteSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(WithViewport(100, 100, 1))
	t.Cleanup(func() {
		_ = s.Close()
	})
	cfg := DefaultConfig()
	cfg.Spacing = 20
	s.SetConfig(cfg)
	s.SetSource(media.NewStillSource(uniformRGBA(10, 10, color.RGBA{255, 255, 255, 255})))
	return s
}

func TestTickIdempotence(t *testing.T) {
	s := newWhiteSession(t)

	drew, err := s.Tick(time.Now())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !drew {
		t.Fatal("first tick should redraw")
	}

	// Static source, no changes: ticks do no work.
	for i := 0; i < 3; i++ {
		drew, err = s.Tick(time.Now())
		if err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if drew {
			t.Fatalf("tick %d redrew with no changes", i+2)
		}
	}
}

func TestSetConfigChangeDetection(t *testing.T) {
	s := newWhiteSession(t)
	if _, err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	// Same snapshot: no redraw.
	s.SetConfig(s.Config())
	if drew, _ := s.Tick(time.Now()); drew {
		t.Error("unchanged config triggered a redraw")
	}

	// Any field change: redraw.
	cfg := s.Config()
	cfg.Spacing = 10
	s.SetConfig(cfg)
	if drew, _ := s.Tick(time.Now()); !drew {
		t.Error("changed config did not trigger a redraw")
	}
}

func TestSetViewportMarksDirty(t *testing.T) {
	s := newWhiteSession(t)
	if _, err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	s.SetViewport(200, 150, 2)
	drew, err := s.Tick(time.Now())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !drew {
		t.Error("viewport change did not trigger a redraw")
	}
}

func TestExportPNGEndToEnd(t *testing.T) {
	s := newWhiteSession(t)
	if _, err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	var buf bytes.Buffer
	if err := s.ExportPNG(&buf); err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding exported png: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("exported size = %v, want 100x100", img.Bounds())
	}

	// Full-brightness discs of radius 9.6 on a 20px grid: the first cell
	// center is covered, its corner is not.
	r, g, b, _ := img.At(10, 10).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("cell center = (%d, %d, %d), want foreground black", r, g, b)
	}
	r, g, b, _ = img.At(0, 0).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("cell corner = (%d, %d, %d), want background white", r, g, b)
	}
}

func TestExportPNGInvertedDrawsNothing(t *testing.T) {
	s := newWhiteSession(t)
	cfg := s.Config()
	cfg.Invert = true
	s.SetConfig(cfg)
	if _, err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	var buf bytes.Buffer
	if err := s.ExportPNG(&buf); err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding exported png: %v", err)
	}
	for _, pt := range [][2]int{{10, 10}, {50, 50}, {99, 99}} {
		r, g, b, _ := img.At(pt[0], pt[1]).RGBA()
		if r != 0xffff || g != 0xffff || b != 0xffff {
			t.Fatalf("pixel %v = (%d, %d, %d), want pure background", pt, r, g, b)
		}
	}
}

func TestDPRScalesBackingStore(t *testing.T) {
	s := NewSession(WithViewport(100, 100, 2))
	t.Cleanup(func() {
		_ = s.Close()
	})
	s.SetSource(media.NewStillSource(uniformRGBA(10, 10, color.RGBA{255, 255, 255, 255})))
	if _, err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	var buf bytes.Buffer
	if err := s.ExportPNG(&buf); err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding exported png: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Errorf("backing store = %v, want 200x200 at dpr 2", img.Bounds())
	}
}

func TestClearRemovesMedia(t *testing.T) {
	s := newWhiteSession(t)
	s.Clear()
	if s.Source() != nil {
		t.Fatal("Source() != nil after Clear")
	}

	if _, err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	var buf bytes.Buffer
	if err := s.ExportSVG(&buf); err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("<circle")) {
		t.Error("cleared session still emits shapes")
	}
}

func TestClosedSessionErrors(t *testing.T) {
	s := newWhiteSession(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := s.Tick(time.Now()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Tick after close: %v, want ErrSessionClosed", err)
	}
	var buf bytes.Buffer
	if err := s.ExportPNG(&buf); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("ExportPNG after close: %v, want ErrSessionClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v, want nil", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	s := NewSession()
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.Load("notes.txt"); !errors.Is(err, media.ErrUnsupportedMedia) {
		t.Errorf("Load: %v, want ErrUnsupportedMedia", err)
	}
}

func TestLoadFailureKeepsPreviousSource(t *testing.T) {
	s := newWhiteSession(t)
	before := s.Source()
	if err := s.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
	if s.Source() != before {
		t.Error("failed load replaced the previous source")
	}
}

func TestLoadAsyncLastWriterWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "white.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, uniformRGBA(4, 4, color.RGBA{255, 255, 255, 255})); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	s := NewSession(WithViewport(50, 50, 1))
	t.Cleanup(func() {
		_ = s.Close()
	})

	done := make(chan error, 1)
	s.LoadAsync(path, func(err error) { done <- err })
	manual := media.NewStillSource(uniformRGBA(2, 2, color.RGBA{0, 0, 0, 255}))
	s.SetSource(manual)

	err = <-done
	if err != nil && !errors.Is(err, ErrStaleLoad) {
		t.Fatalf("LoadAsync: %v, want nil or ErrStaleLoad", err)
	}
	// Whichever side finished first, the manual source must win.
	if s.Source() != media.Source(manual) {
		t.Error("async load overrode a newer source")
	}
}

func TestTickDuringAsyncLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "white.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, uniformRGBA(4, 4, color.RGBA{255, 255, 255, 255})); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	s := NewSession(WithViewport(50, 50, 1))
	t.Cleanup(func() {
		_ = s.Close()
	})
	manual := media.NewStillSource(uniformRGBA(2, 2, color.RGBA{0, 0, 0, 255}))
	s.SetSource(manual)

	done := make(chan error, 1)
	s.LoadAsync(path, func(err error) { done <- err })

	// Keep ticking while the load lands on its own goroutine; the source
	// swap must not corrupt loop state.
	for i := 0; i < 200; i++ {
		if _, err := s.Tick(time.Now()); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("LoadAsync: %v", err)
	}
	if s.Source() == media.Source(manual) {
		t.Error("completed load did not replace the source")
	}
	if _, err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick after load: %v", err)
	}
}

func TestLoadAsyncReportsFailure(t *testing.T) {
	s := NewSession()
	t.Cleanup(func() {
		_ = s.Close()
	})
	done := make(chan error, 1)
	s.LoadAsync(filepath.Join(t.TempDir(), "missing.png"), func(err error) { done <- err })
	if err := <-done; err == nil {
		t.Error("LoadAsync of a missing file reported success")
	}
}
