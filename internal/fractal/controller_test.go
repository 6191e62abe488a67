package fractal

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/midgard-fractal/pkg/math"
)

func settingsWithDepth(depth int) Settings {
	s := DefaultSettings()
	s.Depth = depth
	s.Mesh = 7
	s.Material = 9
	return s
}

func TestControllerLifecycle(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev, IdentityTransform())

	assert.Equal(t, Inactive, c.State())
	assert.ErrorIs(t, c.Update(0.016), ErrInactive)

	require.NoError(t, c.Activate(settingsWithDepth(3)))
	assert.True(t, c.Active())
	assert.Equal(t, 3, dev.created)
	for level, b := range dev.buffers {
		assert.Equal(t, c.Store().Layout().LevelSize(level), b.count)
		assert.Equal(t, math.Mat3x4Stride, b.stride)
	}

	require.NoError(t, c.Update(0.016))
	assert.Equal(t, uint64(1), c.Frame())

	c.Deactivate()
	assert.Equal(t, Inactive, c.State())
	assert.Equal(t, 0, dev.live())
	for _, b := range dev.buffers {
		assert.Equal(t, 1, b.released)
	}

	c.Deactivate()
	assert.Equal(t, 3, dev.released)
	assert.Equal(t, "inactive", c.State().String())
}

func TestNoAllocationDuringSteadyState(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev, IdentityTransform())
	require.NoError(t, c.Activate(settingsWithDepth(4)))

	for i := 0; i < 1000; i++ {
		require.NoError(t, c.Update(1.0/60))
	}
	assert.Equal(t, 4, dev.created)
	assert.Equal(t, 0, dev.released)
	assert.Equal(t, 1, c.Store().Allocations())
	assert.Equal(t, 0, c.Store().Releases())
	for _, b := range dev.buffers {
		assert.Equal(t, 1000, b.uploads)
	}

	c.Deactivate()
	assert.Equal(t, 4, dev.released)
	assert.Equal(t, 1, c.Store().Releases())
}

func TestActivateRejectsInvalidDepth(t *testing.T) {
	for _, depth := range []int{0, MaxDepth + 1} {
		dev := newFakeDevice()
		c := NewController(dev, IdentityTransform())

		err := c.Activate(settingsWithDepth(depth))
		assert.ErrorIs(t, err, ErrDepthOutOfRange)
		assert.Equal(t, Inactive, c.State())
		assert.Zero(t, dev.created)
		assert.False(t, c.Store().Allocated())
	}
}

func TestActivateRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero offset", func(s *Settings) { s.ChildOffset = 0 }},
		{"negative scale", func(s *Settings) { s.ChildScale = -0.5 }},
		{"nan bounds", func(s *Settings) { s.BoundsFactor = float32(gomath.NaN()) }},
		{"infinite spin", func(s *Settings) { s.SpinRate = float32(gomath.Inf(1)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settingsWithDepth(2)
			tt.mutate(&s)
			c := NewController(newFakeDevice(), IdentityTransform())
			assert.ErrorIs(t, c.Activate(s), ErrInvalidSettings)
			assert.False(t, c.Active())
		})
	}
}

func TestActivateBufferFailureReleasesEverything(t *testing.T) {
	dev := newFakeDevice()
	dev.failAt = 2
	c := NewController(dev, IdentityTransform())

	err := c.Activate(settingsWithDepth(4))
	assert.ErrorIs(t, err, errDeviceFull)
	assert.Equal(t, Inactive, c.State())
	assert.Equal(t, 2, dev.created)
	assert.Equal(t, 0, dev.live())
	assert.False(t, c.Store().Allocated())
}

func TestRebuild(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev, IdentityTransform())
	require.NoError(t, c.Activate(settingsWithDepth(3)))
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Update(0.02))
	}

	require.NoError(t, c.Rebuild(settingsWithDepth(5)))
	assert.True(t, c.Active())
	assert.Equal(t, 5, c.Store().Depth())
	assert.Equal(t, 5, dev.live())
	assert.Equal(t, 3+5, dev.created)
	assert.Equal(t, uint64(0), c.Frame())

	// dynamic state starts over
	assert.Zero(t, c.Store().Part(2, 7).SpinAngle())
	require.NoError(t, c.Update(0.02))
}

func TestRebuildSameDepthMatchesFreshActivation(t *testing.T) {
	fresh := NewController(newFakeDevice(), IdentityTransform())
	require.NoError(t, fresh.Activate(settingsWithDepth(3)))

	c := NewController(newFakeDevice(), IdentityTransform())
	require.NoError(t, c.Activate(settingsWithDepth(3)))
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Update(0.1))
	}
	require.NoError(t, c.Rebuild(settingsWithDepth(3)))

	assert.Equal(t, snapshot(fresh.Store()), snapshot(c.Store()))
}

func TestRebuildInvalidKeepsTree(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev, IdentityTransform())
	require.NoError(t, c.Activate(settingsWithDepth(3)))
	require.NoError(t, c.Update(0.5))
	before := snapshot(c.Store())

	err := c.Rebuild(settingsWithDepth(MaxDepth + 4))
	assert.ErrorIs(t, err, ErrDepthOutOfRange)
	assert.True(t, c.Active())
	assert.Equal(t, 3, c.Settings().Depth)
	assert.Equal(t, before, snapshot(c.Store()))
	assert.Equal(t, 3, dev.created)
	assert.Equal(t, 0, dev.released)
}

func TestRebuildWhileInactive(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev, IdentityTransform())
	assert.ErrorIs(t, c.Rebuild(settingsWithDepth(2)), ErrInactive)
	assert.Zero(t, dev.created)
}

func TestUpdateSkipsInvalidDelta(t *testing.T) {
	dev := newFakeDevice()
	c := NewController(dev, IdentityTransform())
	require.NoError(t, c.Activate(settingsWithDepth(2)))
	require.NoError(t, c.Update(0.1))
	before := snapshot(c.Store())
	draws := len(dev.draws)

	for _, dt := range []float32{-0.1, float32(gomath.NaN()), float32(gomath.Inf(1))} {
		assert.ErrorIs(t, c.Update(dt), ErrInvalidDelta)
	}
	assert.Equal(t, uint64(1), c.Frame())
	assert.Equal(t, before, snapshot(c.Store()))
	assert.Equal(t, draws, len(dev.draws))
}

func TestUpdateDrawsEveryLevel(t *testing.T) {
	dev := newFakeDevice()
	owner := Transform{Position: math.Vec3{X: 4, Y: -2, Z: 1}, Rotation: math.QuatIdentity(), Scale: 2}
	c := NewController(dev, owner)
	require.NoError(t, c.Activate(settingsWithDepth(3)))
	require.NoError(t, c.Update(0.25))

	require.Len(t, dev.draws, 3)
	for level, call := range dev.draws {
		assert.Equal(t, MeshHandle(7), call.Mesh)
		assert.Equal(t, MaterialHandle(9), call.Material)
		assert.Equal(t, c.Store().Layout().LevelSize(level), call.Instances)
		assert.Same(t, dev.buffers[level], call.Buffer)
		assert.Equal(t, owner.Position, call.Bounds.Center)
		assert.Equal(t, math.Splat(6), call.Bounds.Size)
	}

	// uploaded data matches the store
	for level, b := range dev.buffers {
		assert.Equal(t, c.Store().Matrices(level), b.data)
	}
	assert.Equal(t, math.TRS(c.Store().Part(0, 0).WorldRotation(), owner.Position, 2), dev.buffers[0].data[0])
}

func TestRootSpinsAtConfiguredRate(t *testing.T) {
	c := NewController(newFakeDevice(), IdentityTransform())
	require.NoError(t, c.Activate(settingsWithDepth(1)))

	for i := 0; i < 4; i++ {
		require.NoError(t, c.Update(1))
	}
	want := 4 * DefaultSettings().SpinRate
	assert.InDelta(t, want, c.Store().Part(0, 0).SpinAngle(), 1e-6)
	assert.True(t, c.Store().Part(0, 0).WorldRotation().ApproxEqual(math.QuatRotateY(want), 1e-5))
}

func TestRootFollowsOwner(t *testing.T) {
	pos := math.Vec3{}
	owner := TransformFunc(func() Transform {
		return Transform{Position: pos, Rotation: math.QuatRotateX(0.5), Scale: 1}
	})
	c := NewController(newFakeDevice(), owner)
	require.NoError(t, c.Activate(settingsWithDepth(2)))

	for i := 1; i <= 3; i++ {
		pos = math.Vec3{X: float32(i)}
		require.NoError(t, c.Update(0.1))
		assert.Equal(t, pos, c.Store().Part(0, 0).WorldPosition())
	}
	// children hang off the moved root in the same frame
	up := c.Store().Part(1, 0)
	want := pos.Add(c.Store().Part(0, 0).WorldRotation().Rotate(math.Vec3Up.Scale(0.75)))
	assert.True(t, up.WorldPosition().ApproxEqual(want, 1e-5))
}

func TestControllerLogsLifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewController(newFakeDevice(), IdentityTransform(), WithLogger(zap.New(core)))

	require.NoError(t, c.Activate(settingsWithDepth(3)))
	require.Error(t, c.Rebuild(settingsWithDepth(0)))
	c.Deactivate()

	activated := logs.FilterMessage("fractal activated").All()
	require.Len(t, activated, 1)
	assert.Equal(t, int64(31), activated[0].ContextMap()["nodes"])
	assert.NotEmpty(t, activated[0].ContextMap()["activation"])
	assert.Equal(t, 1, logs.FilterMessage("rebuild rejected").Len())
	assert.Equal(t, 1, logs.FilterMessage("fractal deactivated").Len())
}
