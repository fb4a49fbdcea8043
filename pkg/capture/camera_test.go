package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeDevice scripts the hardware behavior for state machine tests.
type fakeDevice struct {
	openErr   error
	grabErr   error
	frame     *Frame
	caps      *ZoomCapability
	zoomLevel float64
	opens     int
	closes    int
}

func (d *fakeDevice) Open(ctx context.Context) error {
	d.opens++
	return d.openErr
}

func (d *fakeDevice) Grab(ctx context.Context) (*Frame, error) {
	if d.grabErr != nil {
		return nil, d.grabErr
	}
	if d.frame != nil {
		return d.frame, nil
	}
	return &Frame{Data: []byte("frame"), MimeType: "image/jpeg"}, nil
}

func (d *fakeDevice) ZoomCapability() (ZoomCapability, bool) {
	if d.caps == nil {
		return ZoomCapability{}, false
	}
	return *d.caps, true
}

func (d *fakeDevice) SetZoom(level float64) error {
	d.zoomLevel = level
	return nil
}

func (d *fakeDevice) Close() error {
	d.closes++
	return nil
}

func TestOpenTransitionsToOpen(t *testing.T) {
	cam := NewCamera(&fakeDevice{})
	assert.Equal(t, StateClosed, cam.State())

	assert.NoError(t, cam.Open(context.Background()))
	assert.Equal(t, StateOpen, cam.State())
}

func TestOpenTwiceFails(t *testing.T) {
	cam := NewCamera(&fakeDevice{})
	assert.NoError(t, cam.Open(context.Background()))
	assert.Error(t, cam.Open(context.Background()))
}

func TestOpenPermissionDeniedReturnsToClosed(t *testing.T) {
	dev := &fakeDevice{openErr: ErrPermissionDenied}
	cam := NewCamera(dev)

	err := cam.Open(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, StateClosed, cam.State())
}

func TestOpenAppliesNeutralZoom(t *testing.T) {
	dev := &fakeDevice{caps: &ZoomCapability{Min: 1, Max: 5, Step: 0.5}}
	cam := NewCamera(dev)

	assert.NoError(t, cam.Open(context.Background()))
	caps, ok := cam.ZoomCapability()
	assert.True(t, ok)
	assert.Equal(t, 5.0, caps.Max)
	assert.Equal(t, 1.0, cam.Zoom())
}

func TestSetZoomClampsIntoRange(t *testing.T) {
	dev := &fakeDevice{caps: &ZoomCapability{Min: 1, Max: 4, Step: 1}}
	cam := NewCamera(dev)
	assert.NoError(t, cam.Open(context.Background()))

	assert.NoError(t, cam.SetZoom(10))
	assert.Equal(t, 4.0, cam.Zoom())

	assert.NoError(t, cam.SetZoom(0.2))
	assert.Equal(t, 1.0, cam.Zoom())
}

func TestSetZoomWithoutCapability(t *testing.T) {
	cam := NewCamera(&fakeDevice{})
	assert.NoError(t, cam.Open(context.Background()))
	assert.ErrorIs(t, cam.SetZoom(2), ErrZoomUnsupported)
}

func TestSetZoomBeforeOpen(t *testing.T) {
	cam := NewCamera(&fakeDevice{})
	assert.ErrorIs(t, cam.SetZoom(2), ErrNotOpen)
}

func TestCaptureProducesEncodedImageAndTearsDown(t *testing.T) {
	dev := &fakeDevice{frame: &Frame{Data: []byte("still"), MimeType: "image/png"}}
	cam := NewCamera(dev)
	assert.NoError(t, cam.Open(context.Background()))

	img, err := cam.Capture(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, "c3RpbGw=", img.Data)
	assert.Contains(t, img.Preview, "data:image/png;base64,")

	// Capturing is terminal: the stream is gone until the next open.
	assert.Equal(t, StateClosed, cam.State())
	assert.Equal(t, 1, dev.closes)

	_, err = cam.Capture(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestCaptureDefaultsMimeType(t *testing.T) {
	dev := &fakeDevice{frame: &Frame{Data: []byte("x")}}
	cam := NewCamera(dev)
	assert.NoError(t, cam.Open(context.Background()))

	img, err := cam.Capture(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MimeType)
}

func TestCaptureCountdownCancellation(t *testing.T) {
	cam := NewCamera(&fakeDevice{})
	cam.tick = time.Millisecond
	assert.NoError(t, cam.Open(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cam.Capture(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cam.State())
}

func TestCaptureGrabFailureClosesDevice(t *testing.T) {
	dev := &fakeDevice{grabErr: ErrUnavailable}
	cam := NewCamera(dev)
	assert.NoError(t, cam.Open(context.Background()))

	_, err := cam.Capture(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, StateClosed, cam.State())
	assert.Equal(t, 1, dev.closes)
}

func TestReopenAfterCapture(t *testing.T) {
	dev := &fakeDevice{}
	cam := NewCamera(dev)

	assert.NoError(t, cam.Open(context.Background()))
	_, err := cam.Capture(context.Background(), 0)
	assert.NoError(t, err)

	assert.NoError(t, cam.Open(context.Background()))
	assert.Equal(t, StateOpen, cam.State())
	assert.Equal(t, 2, dev.opens)
}
