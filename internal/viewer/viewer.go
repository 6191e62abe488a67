// Package viewer runs the interactive fractal viewer: window, GL renderer,
// orbit camera and the fractal controller driven once per frame.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-fractal/internal/config"
	"github.com/Faultbox/midgard-fractal/internal/engine/camera"
	"github.com/Faultbox/midgard-fractal/internal/engine/debug"
	"github.com/Faultbox/midgard-fractal/internal/engine/input"
	"github.com/Faultbox/midgard-fractal/internal/engine/renderer"
	"github.com/Faultbox/midgard-fractal/internal/engine/window"
	"github.com/Faultbox/midgard-fractal/internal/fractal"
	"github.com/Faultbox/midgard-fractal/internal/logger"
)

// maxFrameDelta caps dt after stalls (window drags, breakpoints) so the
// spin does not jump.
const maxFrameDelta = 0.25

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	sched    fractal.Scheduler
	fractal  *fractal.Controller
	fps      *debug.FrameCounter
}

// New creates the window, the renderer and an active fractal.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg: cfg,
		log: logger.Named("viewer"),
		fps: debug.NewFrameCounter(time.Second),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context created by the window.
	width, height := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.camera = camera.NewOrbitCamera()

	v.sched = cfg.Scheduler()
	v.fractal = fractal.NewController(v.renderer, cfg.Transform(),
		fractal.WithScheduler(v.sched),
	)
	if err := v.fractal.Activate(v.settings()); err != nil {
		fractal.CloseScheduler(v.sched)
		v.renderer.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to activate fractal: %w", err)
	}
	v.frameCamera()

	v.log.Info("viewer initialized", zap.Int("width", width), zap.Int("height", height))
	return v, nil
}

// settings returns the engine settings with the renderer's mesh and material.
func (v *Viewer) settings() fractal.Settings {
	s := v.cfg.Settings()
	s.Mesh = v.renderer.Mesh()
	s.Material = v.renderer.Material()
	return s
}

func (v *Viewer) frameCamera() {
	s := v.fractal.Settings()
	scale := v.cfg.Object.Scale
	size := s.Bounds(v.cfg.Transform().Position, scale).Size.X
	v.camera.FitToBounds(v.cfg.Transform().Position, size)
	v.renderer.SetHeightRange(size / 2)
}

// Run runs the frame loop until the window is closed or Esc is pressed.
func (v *Viewer) Run() error {
	v.running = true
	last := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		now := time.Now()
		elapsed := now.Sub(last)
		last = now
		dt := min(float32(elapsed.Seconds()), maxFrameDelta)

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		if !v.running {
			break
		}

		v.renderer.SetViewProjection(v.camera.ViewProjection(v.renderer.Aspect()))
		v.renderer.Begin()
		if err := v.fractal.Update(dt); err != nil && !errors.Is(err, fractal.ErrInvalidDelta) {
			return fmt.Errorf("fractal update: %w", err)
		}
		v.renderer.End()
		v.window.SwapBuffers()

		if report, ok := v.fps.Tick(elapsed); ok {
			stats := v.renderer.Stats()
			v.log.Debug("fps",
				report.Field(),
				zap.Int("draws", stats.Draws),
				zap.Int("culled", stats.Culled),
				zap.Int("instances", stats.Instances),
			)
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.Size())
		case input.EventMouseDrag:
			v.camera.HandleDrag(float32(event.DX), float32(event.DY))
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.Wheel)
		case input.EventKeyDown:
			v.handleKey(event.Key)
		}
	}
}

func (v *Viewer) handleKey(key sdl.Keycode) {
	switch key {
	case sdl.K_ESCAPE:
		v.running = false
	case sdl.K_EQUALS, sdl.K_PLUS, sdl.K_KP_PLUS:
		v.changeDepth(1)
	case sdl.K_MINUS, sdl.K_KP_MINUS:
		v.changeDepth(-1)
	case sdl.K_s:
		path, err := v.cfg.Save()
		if err != nil {
			v.log.Error("failed to save config", zap.Error(err))
			return
		}
		v.log.Info("config saved", zap.String("path", path))
	}
}

// changeDepth rebuilds the fractal one level deeper or shallower. Depths
// outside the supported range are rejected by Rebuild and leave the current
// tree running.
func (v *Viewer) changeDepth(delta int) {
	s := v.settings()
	s.Depth = v.fractal.Settings().Depth + delta
	if err := v.fractal.Rebuild(s); err != nil {
		if errors.Is(err, fractal.ErrDepthOutOfRange) {
			return
		}
		v.log.Error("rebuild failed", zap.Error(err))
		v.running = false
		return
	}
	v.cfg.Fractal.Depth = s.Depth
	v.window.SetTitle(fmt.Sprintf("%s (depth %d)", v.cfg.Window.Title, s.Depth))
}

// Close deactivates the fractal and then tears down the renderer and window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.fractal != nil {
		v.fractal.Deactivate()
		fractal.CloseScheduler(v.sched)
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
