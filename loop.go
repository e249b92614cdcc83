package halftone

import (
	"context"
	"time"

	"github.com/gogpu/halftone/media"
)

// Tick runs one iteration of the render loop: it pushes the current
// configuration into controllable sources, advances animated media, and
// redraws when state changed. It reports whether a new frame was produced.
//
// Ticks with no pending changes and no animated media are cheap no-ops, so
// callers may drive Tick at a fixed cadence without wasting work.
func (s *Session) Tick(now time.Time) (bool, error) {
	if s.closed.Load() {
		return false, ErrSessionClosed
	}
	cfg := s.Config().normalized()
	src := s.Source()

	if mc, ok := src.(media.MeshController); ok {
		mc.SetViewport(s.pixmap.Width(), s.pixmap.Height())
		mc.SetAutoRotate(cfg.AutoRotate)
		mc.SetRotation(cfg.RotationX, cfg.RotationY)
	}

	advanced := false
	if src != nil && src.Animated() {
		advanced = src.Advance(now)
	}

	// Consume the flag before redrawing so a source swap that lands while
	// the frame is in flight stays pending for the next tick.
	if !s.dirty.Swap(false) && !advanced {
		return false, nil
	}
	if err := s.redraw(); err != nil {
		s.dirty.Store(true)
		return false, err
	}
	return true, nil
}

// Run drives Tick at the given interval until ctx is cancelled. It returns
// ctx.Err() on cancellation or the first render error.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if _, err := s.Tick(now); err != nil {
				return err
			}
		}
	}
}
