package capture

import (
	"context"
	"errors"
)

// Open failures are distinguishable: a refused permission prompt and a
// busy/absent device must produce different user-facing messages.
var (
	ErrPermissionDenied = errors.New("capture: device access denied")
	ErrUnavailable      = errors.New("capture: device unavailable")
	ErrNotOpen          = errors.New("capture: device not open")
	ErrZoomUnsupported  = errors.New("capture: zoom not supported by device")
)

// Frame is one still image read from the live stream.
type Frame struct {
	Data     []byte
	MimeType string
}

// ZoomCapability describes the hardware zoom range, when present.
type ZoomCapability struct {
	Min  float64
	Max  float64
	Step float64
}

// Device abstracts the physical capture hardware. Open may fail with
// ErrPermissionDenied or ErrUnavailable; Grab reads one frame from the
// live stream.
type Device interface {
	Open(ctx context.Context) error
	Grab(ctx context.Context) (*Frame, error)
	ZoomCapability() (ZoomCapability, bool)
	SetZoom(level float64) error
	Close() error
}
