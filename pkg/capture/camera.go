package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// State of the capture session.
type State string

const (
	StateClosed    State = "closed"
	StateOpening   State = "opening"
	StateOpen      State = "open"
	StateCountdown State = "countdown"
	StateCaptured  State = "captured"
)

// Image is the still produced by a capture: base64 payload, MIME type and a
// data-URL preview. It is handed to the lab session and consumed once.
type Image struct {
	Data     string
	MimeType string
	Preview  string
	FileName string
}

// Camera drives one device through closed -> opening -> open ->
// (countdown)* -> captured -> closed. Capture reads exactly one frame and
// tears the stream down; reopening re-acquires the device.
type Camera struct {
	mu     sync.Mutex
	device Device
	state  State
	caps   *ZoomCapability
	zoom   float64

	// tick is the countdown step, overridable in tests.
	tick time.Duration
}

func NewCamera(device Device) *Camera {
	return &Camera{
		device: device,
		state:  StateClosed,
		tick:   time.Second,
	}
}

// State returns the current machine state.
func (c *Camera) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open acquires the device and, when the hardware reports a zoom range,
// applies the neutral zoom level to the live stream. Zoom probe failures do
// not fail the open.
func (c *Camera) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		return fmt.Errorf("capture: cannot open from state %s", c.state)
	}
	c.state = StateOpening
	c.mu.Unlock()

	if err := c.device.Open(ctx); err != nil {
		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if caps, ok := c.device.ZoomCapability(); ok {
		c.caps = &caps
		c.zoom = 1
		// Best effort: some hardware reports a range it will not accept.
		_ = c.device.SetZoom(1)
	}
	c.state = StateOpen
	return nil
}

// ZoomCapability reports the probed range, if the open device has one.
func (c *Camera) ZoomCapability() (ZoomCapability, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.caps == nil {
		return ZoomCapability{}, false
	}
	return *c.caps, true
}

// SetZoom clamps the requested level into the probed range and applies it
// to the live stream.
func (c *Camera) SetZoom(level float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen && c.state != StateCountdown {
		return ErrNotOpen
	}
	if c.caps == nil {
		return ErrZoomUnsupported
	}
	if level < c.caps.Min {
		level = c.caps.Min
	}
	if level > c.caps.Max {
		level = c.caps.Max
	}
	if err := c.device.SetZoom(level); err != nil {
		return err
	}
	c.zoom = level
	return nil
}

// Zoom returns the currently applied level.
func (c *Camera) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// Capture reads one frame, optionally after an integer-second countdown,
// and immediately tears down the stream: capturing is terminal for this
// camera session.
func (c *Camera) Capture(ctx context.Context, delaySeconds int) (*Image, error) {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return nil, ErrNotOpen
	}
	if delaySeconds > 0 {
		c.state = StateCountdown
	}
	c.mu.Unlock()

	for remaining := delaySeconds; remaining > 0; remaining-- {
		select {
		case <-ctx.Done():
			c.teardown(StateClosed)
			return nil, ctx.Err()
		case <-time.After(c.tick):
		}
	}

	frame, err := c.device.Grab(ctx)
	if err != nil {
		c.teardown(StateClosed)
		return nil, err
	}

	c.teardown(StateCaptured)

	mime := frame.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	encoded := base64.StdEncoding.EncodeToString(frame.Data)
	img := &Image{
		Data:     encoded,
		MimeType: mime,
		Preview:  fmt.Sprintf("data:%s;base64,%s", mime, encoded),
	}

	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()
	return img, nil
}

// Close releases the device without capturing.
func (c *Camera) Close() {
	c.teardown(StateClosed)
}

func (c *Camera) teardown(next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.device.Close()
	c.caps = nil
	c.zoom = 0
	c.state = next
}
