// Package main runs the fractal without a window and reports frame timing
// and buffer lifetimes.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-fractal/internal/config"
	"github.com/Faultbox/midgard-fractal/internal/engine/debug"
	"github.com/Faultbox/midgard-fractal/internal/engine/headless"
	"github.com/Faultbox/midgard-fractal/internal/fractal"
	"github.com/Faultbox/midgard-fractal/internal/logger"
)

// frameDelta is the simulated time step, 60 frames per second.
const frameDelta = float32(1.0 / 60.0)

type result struct {
	Frames      int
	Nodes       int
	Elapsed     time.Duration
	Slowest     time.Duration
	Device      headless.Stats
	Allocations int
	Releases    int
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	res, err := run(cfg, config.Frames())
	if err != nil {
		logger.Error("bench failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	perFrame := time.Duration(0)
	if res.Frames > 0 {
		perFrame = res.Elapsed / time.Duration(res.Frames)
	}
	logger.Info("bench finished",
		zap.Int("depth", cfg.Fractal.Depth),
		zap.Int("nodes", res.Nodes),
		zap.Int("frames", res.Frames),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("ms_per_frame", float64(perFrame.Microseconds())/1000),
		zap.Duration("slowest", res.Slowest),
		zap.Int("buffers_created", res.Device.BuffersCreated),
		zap.Int("buffers_released", res.Device.BuffersReleased),
		zap.Int("store_allocations", res.Allocations),
		zap.Int("store_releases", res.Releases),
		zap.Int("draws", res.Device.Draws),
	)
}

// run activates a fractal on a headless device, advances it frames times and
// deactivates it.
func run(cfg *config.Config, frames int) (result, error) {
	device := headless.New()
	sched := cfg.Scheduler()
	defer fractal.CloseScheduler(sched)

	ctrl := fractal.NewController(device, cfg.Transform(),
		fractal.WithScheduler(sched),
	)
	if err := ctrl.Activate(cfg.Settings()); err != nil {
		return result{}, fmt.Errorf("activating fractal: %w", err)
	}

	res := result{Nodes: ctrl.Store().Layout().TotalNodes()}
	counter := debug.NewFrameCounter(time.Second)
	log := logger.Named("bench")

	start := time.Now()
	for i := 0; i < frames; i++ {
		frameStart := time.Now()
		if err := ctrl.Update(frameDelta); err != nil {
			ctrl.Deactivate()
			return result{}, fmt.Errorf("frame %d: %w", i, err)
		}
		took := time.Since(frameStart)
		res.Slowest = max(res.Slowest, took)
		if report, ok := counter.Tick(took); ok {
			log.Debug("fps", report.Field())
		}
	}
	res.Elapsed = time.Since(start)
	res.Frames = frames

	store := ctrl.Store()
	ctrl.Deactivate()
	res.Device = device.Stats()
	res.Allocations = store.Allocations()
	res.Releases = store.Releases()
	return res, nil
}
