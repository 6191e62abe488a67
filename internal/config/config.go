// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-fractal/internal/fractal"
	"github.com/Faultbox/midgard-fractal/pkg/math"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Fractal FractalConfig `yaml:"fractal"`
	Object  ObjectConfig  `yaml:"object"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// FractalConfig holds the tree shape and animation settings.
type FractalConfig struct {
	Depth        int     `yaml:"depth"`
	SpinRate     float32 `yaml:"spin_rate"` // radians per second
	ChildOffset  float32 `yaml:"child_offset"`
	ChildScale   float32 `yaml:"child_scale"`
	BoundsFactor float32 `yaml:"bounds_factor"`
	Workers      int     `yaml:"workers"`    // 0 = one per CPU, negative = serial
	BatchSize    int     `yaml:"batch_size"` // minimum parts per worker task
}

// ObjectConfig places the fractal root in the world.
type ObjectConfig struct {
	Position        [3]float32 `yaml:"position"`
	RotationDegrees [3]float32 `yaml:"rotation_degrees"`
	Scale           float32    `yaml:"scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	engine := fractal.DefaultSettings()
	return &Config{
		Window: WindowConfig{
			Title:  "Midgard Fractal",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Fractal: FractalConfig{
			Depth:        engine.Depth,
			SpinRate:     engine.SpinRate,
			ChildOffset:  engine.ChildOffset,
			ChildScale:   engine.ChildScale,
			BoundsFactor: engine.BoundsFactor,
			Workers:      0,
			BatchSize:    fractal.BranchFactor,
		},
		Object: ObjectConfig{
			Scale: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Settings converts the fractal section to engine settings.
// Mesh and material handles are left for the renderer to fill in.
func (c *Config) Settings() fractal.Settings {
	return fractal.Settings{
		Depth:        c.Fractal.Depth,
		SpinRate:     c.Fractal.SpinRate,
		ChildOffset:  c.Fractal.ChildOffset,
		ChildScale:   c.Fractal.ChildScale,
		BoundsFactor: c.Fractal.BoundsFactor,
	}
}

// Transform returns the configured root transform.
func (c *Config) Transform() fractal.Transform {
	const deg = math32.Pi / 180
	r := c.Object.RotationDegrees
	return fractal.Transform{
		Position: math.Vec3{X: c.Object.Position[0], Y: c.Object.Position[1], Z: c.Object.Position[2]},
		Rotation: math.QuatFromEuler(r[0]*deg, r[1]*deg, r[2]*deg),
		Scale:    c.Object.Scale,
	}
}

// Validate checks values the engine and the window cannot work with.
func (c *Config) Validate() error {
	if _, err := c.Settings().Validate(); err != nil {
		return err
	}
	if c.Object.Scale <= 0 {
		return fmt.Errorf("object scale must be positive, got %v", c.Object.Scale)
	}
	if c.Fractal.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.Fractal.BatchSize)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// Scheduler returns the level scheduler described by the fractal section:
// serial for a negative worker count, a worker pool otherwise.
func (c *Config) Scheduler() fractal.Scheduler {
	if c.Fractal.Workers < 0 {
		return fractal.SerialScheduler{}
	}
	return fractal.NewPoolScheduler(c.Fractal.Workers, c.Fractal.BatchSize)
}
