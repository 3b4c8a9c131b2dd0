// Package device is a simulated reader: a display that publishes frames
// and a set of buttons that front ends press and release.
package device

import (
	"image"
	"sync"
	"time"

	"github.com/metcalfc/inkreader/internal/input"
	"github.com/metcalfc/inkreader/internal/render"
)

// Frame is a committed picture.
type Frame struct {
	Image   *image.Paletted
	Partial bool
	Seq     int
}

// Device implements render.Display and input.ButtonReader.
type Device struct {
	w, h int

	mu      sync.Mutex
	pressed map[input.Button]bool
	seq     int
	asleep  bool

	frames chan Frame
}

// New returns a w×h simulated device.
func New(w, h int) *Device {
	return &Device{
		w:       w,
		h:       h,
		pressed: make(map[input.Button]bool),
		frames:  make(chan Frame, 1),
	}
}

// Frames delivers committed frames. Only the latest undelivered frame is
// kept.
func (d *Device) Frames() <-chan Frame { return d.frames }

func (d *Device) Size() (int, int) { return d.w, d.h }

func (d *Device) Commit(c *render.Canvas, partial bool) error {
	d.mu.Lock()
	d.seq++
	d.asleep = false
	f := Frame{Image: c.Clone().Image(), Partial: partial, Seq: d.seq}
	d.mu.Unlock()
	d.publish(f)
	return nil
}

func (d *Device) Clear() error {
	d.mu.Lock()
	d.seq++
	f := Frame{Image: render.NewCanvas(d.w, d.h).Image(), Seq: d.seq}
	d.mu.Unlock()
	d.publish(f)
	return nil
}

func (d *Device) Sleep() error {
	d.mu.Lock()
	d.asleep = true
	d.mu.Unlock()
	return nil
}

// Asleep reports whether the display was put to sleep since the last
// commit.
func (d *Device) Asleep() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.asleep
}

// publish replaces any frame still waiting in the channel.
func (d *Device) publish(f Frame) {
	for {
		select {
		case d.frames <- f:
			return
		default:
		}
		select {
		case <-d.frames:
		default:
		}
	}
}

// Pressed implements input.ButtonReader.
func (d *Device) Pressed(b input.Button) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pressed[b]
}

// Press holds b down.
func (d *Device) Press(b input.Button) {
	d.mu.Lock()
	d.pressed[b] = true
	d.mu.Unlock()
}

// Release lets b go.
func (d *Device) Release(b input.Button) {
	d.mu.Lock()
	d.pressed[b] = false
	d.mu.Unlock()
}

// Tap presses b and releases it after hold. Front ends without key-up
// events use this; hold must exceed the poll interval to be seen.
func (d *Device) Tap(b input.Button, hold time.Duration) {
	d.Press(b)
	time.AfterFunc(hold, func() { d.Release(b) })
}
