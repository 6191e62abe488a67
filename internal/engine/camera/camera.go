// Package camera provides the orbit camera used by the viewer.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-fractal/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	FovY      float32
	NearPlane float32
	FarPlane  float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        8,
		RotationX:       0.4,
		MinDistance:     0.5,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		FovY:            math32.Pi / 3,
		NearPlane:       0.05,
		FarPlane:        1000,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinX, cosX := math32.Sincos(c.RotationX)
	sinY, cosY := math32.Sincos(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cosX * sinY,
		Y: c.Distance * sinX,
		Z: c.Distance * cosX * cosY,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3Up)
}

// ViewProjection returns projection * view for the given aspect ratio.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.NearPlane, c.FarPlane).Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on a box of the given full size and backs
// off far enough for the box to fill the vertical field of view.
func (c *OrbitCamera) FitToBounds(center math.Vec3, size float32) {
	c.Center = center
	radius := size * 0.5 * math32.Sqrt(3)
	c.Distance = clamp(radius/math32.Sin(c.FovY/2), c.MinDistance, c.MaxDistance)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
