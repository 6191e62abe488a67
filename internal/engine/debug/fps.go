// Package debug provides frame statistics for the viewer and the bench.
package debug

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FrameReport summarizes one reporting window.
type FrameReport struct {
	Frames  int
	Elapsed time.Duration
	Slowest time.Duration
}

// FPS returns the frame rate over the window.
func (r FrameReport) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// AvgFrame returns the mean frame time over the window.
func (r FrameReport) AvgFrame() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Frames)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (r FrameReport) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("frames", r.Frames)
	enc.AddFloat64("fps", r.FPS())
	enc.AddDuration("avg", r.AvgFrame())
	enc.AddDuration("slowest", r.Slowest)
	return nil
}

// Field returns r as a zap field.
func (r FrameReport) Field() zap.Field {
	return zap.Object("frames", r)
}

// FrameCounter accumulates frame times and emits a report once per window.
type FrameCounter struct {
	window  time.Duration
	current FrameReport
}

// NewFrameCounter creates a counter that reports every window.
func NewFrameCounter(window time.Duration) *FrameCounter {
	if window <= 0 {
		window = time.Second
	}
	return &FrameCounter{window: window}
}

// Tick records one frame of length dt. When the window is full it returns
// the finished report and starts a new window.
func (c *FrameCounter) Tick(dt time.Duration) (FrameReport, bool) {
	c.current.Frames++
	c.current.Elapsed += dt
	if dt > c.current.Slowest {
		c.current.Slowest = dt
	}
	if c.current.Elapsed < c.window {
		return FrameReport{}, false
	}
	report := c.current
	c.current = FrameReport{}
	return report, true
}

// Total returns the report of the window in progress.
func (c *FrameCounter) Total() FrameReport {
	return c.current
}
