package fractal

import (
	"errors"
	"sync"

	"github.com/Faultbox/midgard-fractal/pkg/math"
)

var errDeviceFull = errors.New("device out of buffer memory")

type fakeBuffer struct {
	dev      *fakeDevice
	count    int
	stride   int
	data     []math.Mat3x4
	uploads  int
	released int
}

func (b *fakeBuffer) SetData(data []math.Mat3x4) {
	if len(data) != b.count {
		panic("partial instance buffer upload")
	}
	copy(b.data, data)
	b.uploads++
}

func (b *fakeBuffer) Count() int { return b.count }

func (b *fakeBuffer) Release() {
	b.released++
	b.dev.released++
}

// fakeDevice records buffer lifetimes and draw calls.
type fakeDevice struct {
	created  int
	released int
	failAt   int // creation index that fails, -1 for never
	buffers  []*fakeBuffer
	draws    []DrawCall
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{failAt: -1}
}

func (d *fakeDevice) NewInstanceBuffer(count, stride int) (InstanceBuffer, error) {
	if d.failAt == d.created {
		return nil, errDeviceFull
	}
	b := &fakeBuffer{dev: d, count: count, stride: stride, data: make([]math.Mat3x4, count)}
	d.created++
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeDevice) Draw(call DrawCall) {
	d.draws = append(d.draws, call)
}

func (d *fakeDevice) live() int {
	return d.created - d.released
}

// chunkedScheduler runs fixed-size ranges concurrently, last range first.
type chunkedScheduler struct {
	size int
}

func (s chunkedScheduler) Run(n int, fn func(start, end int)) {
	var wg sync.WaitGroup
	for start := ((n - 1) / s.size) * s.size; start >= 0; start -= s.size {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			fn(start, min(start+s.size, n))
		}(start)
	}
	wg.Wait()
}
