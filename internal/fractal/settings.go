package fractal

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-fractal/pkg/math"
)

// Settings is the configuration read at activation and rebuild time.
type Settings struct {
	Depth    int
	Mesh     MeshHandle
	Material MaterialHandle

	// SpinRate is the angular velocity of every part in radians per second.
	SpinRate float32

	// ChildOffset is the distance from parent to child in units of the child's scale.
	ChildOffset float32

	// ChildScale is the scale of a level relative to its parent level.
	ChildScale float32

	// BoundsFactor sizes the draw bounds as a multiple of the root scale.
	BoundsFactor float32
}

// DefaultSettings returns the tuned defaults.
func DefaultSettings() Settings {
	return Settings{
		Depth:        4,
		SpinRate:     0.125 * math32.Pi,
		ChildOffset:  1.5,
		ChildScale:   0.5,
		BoundsFactor: 3,
	}
}

// Validate checks s and returns the layout for its depth.
func (s Settings) Validate() (Layout, error) {
	layout, err := NewLayout(s.Depth)
	if err != nil {
		return Layout{}, err
	}
	switch {
	case !(s.ChildOffset > 0):
		return Layout{}, fmt.Errorf("%w: child offset %v", ErrInvalidSettings, s.ChildOffset)
	case !(s.ChildScale > 0):
		return Layout{}, fmt.Errorf("%w: child scale %v", ErrInvalidSettings, s.ChildScale)
	case !(s.BoundsFactor > 0):
		return Layout{}, fmt.Errorf("%w: bounds factor %v", ErrInvalidSettings, s.BoundsFactor)
	case math32.IsNaN(s.SpinRate) || math32.IsInf(s.SpinRate, 0):
		return Layout{}, fmt.Errorf("%w: spin rate %v", ErrInvalidSettings, s.SpinRate)
	}
	return layout, nil
}

// LevelScale returns the scale of level for a root of scale rootScale.
func (s Settings) LevelScale(rootScale float32, level int) float32 {
	scale := rootScale
	for i := 0; i < level; i++ {
		scale *= s.ChildScale
	}
	return scale
}

// Bounds returns the draw bounds for a root at center with scale rootScale.
func (s Settings) Bounds(center math.Vec3, rootScale float32) Bounds {
	return Bounds{
		Center: center,
		Size:   math.Splat(s.BoundsFactor * rootScale),
	}
}

// Transform is a world-space position, rotation and uniform scale.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    float32
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: math.QuatIdentity(), Scale: 1}
}

// TransformSource provides the owning object's current world transform.
type TransformSource interface {
	WorldTransform() Transform
}

// WorldTransform lets a fixed Transform act as its own source.
func (t Transform) WorldTransform() Transform {
	return t
}

// TransformFunc adapts a function to TransformSource.
type TransformFunc func() Transform

// WorldTransform implements TransformSource.
func (f TransformFunc) WorldTransform() Transform {
	return f()
}
