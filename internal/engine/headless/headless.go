// Package headless implements fractal.Device in memory, for benchmarks and
// runs without a GPU. It tracks buffer lifetimes so leaks are observable.
package headless

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-fractal/internal/fractal"
	"github.com/Faultbox/midgard-fractal/internal/logger"
	"github.com/Faultbox/midgard-fractal/pkg/math"
)

// Stats counts device activity.
type Stats struct {
	BuffersCreated  int
	BuffersReleased int
	Uploads         int
	Draws           int
	Instances       int
}

// Live returns the number of buffers not yet released.
func (s Stats) Live() int {
	return s.BuffersCreated - s.BuffersReleased
}

// Device keeps instance buffers in host memory and counts draws.
type Device struct {
	stats      Stats
	lastBounds fractal.Bounds
}

// New creates an empty device.
func New() *Device {
	return &Device{}
}

// Stats returns a copy of the counters.
func (d *Device) Stats() Stats {
	return d.stats
}

// LastBounds returns the bounds of the most recent draw.
func (d *Device) LastBounds() fractal.Bounds {
	return d.lastBounds
}

// NewInstanceBuffer implements fractal.Device.
func (d *Device) NewInstanceBuffer(count, stride int) (fractal.InstanceBuffer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("headless: invalid instance count %d", count)
	}
	if stride != math.Mat3x4Stride {
		return nil, fmt.Errorf("headless: unsupported stride %d", stride)
	}
	d.stats.BuffersCreated++
	return &buffer{device: d, data: make([]math.Mat3x4, count)}, nil
}

// Draw implements fractal.Device.
func (d *Device) Draw(call fractal.DrawCall) {
	d.stats.Draws++
	d.stats.Instances += call.Instances
	d.lastBounds = call.Bounds
}

type buffer struct {
	device   *Device
	data     []math.Mat3x4
	released bool
}

func (b *buffer) SetData(data []math.Mat3x4) {
	copy(b.data, data)
	b.device.stats.Uploads++
}

func (b *buffer) Count() int {
	return len(b.data)
}

func (b *buffer) Release() {
	if b.released {
		logger.Warn("headless buffer released twice", zap.Int("count", len(b.data)))
		return
	}
	b.released = true
	b.data = nil
	b.device.stats.BuffersReleased++
}

// Data returns the last uploaded contents of buf, which must come from a headless Device.
func Data(buf fractal.InstanceBuffer) []math.Mat3x4 {
	return buf.(*buffer).data
}
