package halftone

import "errors"

// Errors returned by the core pipeline. Media and mesh acquisition failures
// are surfaced to the caller and never crash the render loop; the previous
// media state stays visible.
var (
	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("halftone: session closed")

	// ErrStaleLoad reports an asynchronous acquisition whose result arrived
	// after a newer source replaced it. The result is discarded.
	ErrStaleLoad = errors.New("halftone: media load superseded")
)
