package headless

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-fractal/internal/fractal"
	"github.com/Faultbox/midgard-fractal/pkg/math"
)

func TestDeviceBufferLifetime(t *testing.T) {
	d := New()
	buf, err := d.NewInstanceBuffer(25, math.Mat3x4Stride)
	require.NoError(t, err)
	assert.Equal(t, 25, buf.Count())

	data := make([]math.Mat3x4, 25)
	data[3] = math.TRS(math.QuatIdentity(), math.Vec3{X: 1, Y: 2, Z: 3}, 1)
	buf.SetData(data)
	assert.Equal(t, data, Data(buf))

	buf.Release()
	buf.Release()
	assert.Equal(t, Stats{BuffersCreated: 1, BuffersReleased: 1, Uploads: 1}, d.Stats())
}

func TestDeviceRejectsBadBuffers(t *testing.T) {
	d := New()
	_, err := d.NewInstanceBuffer(0, math.Mat3x4Stride)
	assert.Error(t, err)
	_, err = d.NewInstanceBuffer(5, 64)
	assert.Error(t, err)
	assert.Zero(t, d.Stats().BuffersCreated)
}

func TestControllerOnHeadlessDevice(t *testing.T) {
	d := New()
	owner := fractal.Transform{Position: math.Vec3{X: 0, Y: 1, Z: 0}, Rotation: math.QuatIdentity(), Scale: 2}
	pool := fractal.NewPoolScheduler(2, fractal.BranchFactor)
	defer pool.Close()
	c := fractal.NewController(d, owner, fractal.WithScheduler(pool))

	settings := fractal.DefaultSettings()
	settings.Depth = 5
	require.NoError(t, c.Activate(settings))

	const frames = 100
	for i := 0; i < frames; i++ {
		require.NoError(t, c.Update(1.0/60))
	}
	c.Deactivate()

	stats := d.Stats()
	assert.Equal(t, 5, stats.BuffersCreated)
	assert.Equal(t, 0, stats.Live())
	assert.Equal(t, 5*frames, stats.Draws)
	assert.Equal(t, 5*frames, stats.Uploads)
	assert.Equal(t, 781*frames, stats.Instances)
	assert.Equal(t, fractal.Bounds{Center: math.Vec3{X: 0, Y: 1, Z: 0}, Size: math.Splat(6)}, d.LastBounds())
}
